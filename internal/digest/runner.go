package digest

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/quantmind-br/deckgen-go/internal/domain"
)

// ToolRunner abstracts the external digest tool invocation so the
// producer can be tested without the binary installed.
type ToolRunner interface {
	// Run digests the directory and returns the tool's textual output
	Run(ctx context.Context, path string) (string, error)
}

// CLIRunner shells out to the codebase-digest binary.
type CLIRunner struct {
	binary        string
	maxDepth      int
	maxFileSizeKB int
	ignore        []string
	timeout       time.Duration
}

// CLIRunnerOptions contains options for creating a CLIRunner
type CLIRunnerOptions struct {
	Binary        string
	MaxDepth      int
	MaxFileSizeKB int
	Ignore        []string
	Timeout       time.Duration
}

// NewCLIRunner creates a new CLIRunner
func NewCLIRunner(opts CLIRunnerOptions) *CLIRunner {
	if opts.Binary == "" {
		opts.Binary = "cdigest"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Minute
	}

	return &CLIRunner{
		binary:        opts.Binary,
		maxDepth:      opts.MaxDepth,
		maxFileSizeKB: opts.MaxFileSizeKB,
		ignore:        opts.Ignore,
		timeout:       opts.Timeout,
	}
}

// Run executes the digest tool against path, writing output to a
// temporary file and reading it back. The tool's stdin is closed to
// prevent interactive prompts.
func (r *CLIRunner) Run(ctx context.Context, path string) (string, error) {
	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	outFile := filepath.Join(os.TempDir(),
		fmt.Sprintf("%s_codebase_digest.md", filepath.Base(path)))
	defer os.Remove(outFile)

	args := []string{
		path,
		"-d", strconv.Itoa(r.maxDepth),
		"-o", "markdown",
		"-f", outFile,
		"--max-size", strconv.Itoa(r.maxFileSizeKB),
	}
	if len(r.ignore) > 0 {
		args = append(args, "--ignore")
		args = append(args, r.ignore...)
	}

	cmd := exec.CommandContext(runCtx, r.binary, args...)
	cmd.Stdin = nil

	output, err := cmd.CombinedOutput()
	if runCtx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("%w after %s", domain.ErrDigestTimeout, r.timeout)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v: %s", domain.ErrDigestToolFailed, err, output)
	}

	content, err := os.ReadFile(outFile)
	if err != nil {
		return "", fmt.Errorf("%w: output file not created: %s", domain.ErrDigestToolFailed, output)
	}

	return string(content), nil
}
