package repo

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/quantmind-br/deckgen-go/internal/domain"
)

// RepoInfo identifies a remote repository by owner and name.
type RepoInfo struct {
	Owner string
	Repo  string
	URL   string
}

var githubPattern = regexp.MustCompile(`^https?://(?:www\.)?github\.com/([\w-]+)/([\w.-]+?)(?:\.git)?/?$`)

// ParseRepoURL extracts owner and repository name from a GitHub URL.
func ParseRepoURL(rawURL string) (*RepoInfo, error) {
	matches := githubPattern.FindStringSubmatch(strings.TrimSpace(rawURL))
	if len(matches) != 3 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidRepoURL, rawURL)
	}

	return &RepoInfo{
		Owner: matches[1],
		Repo:  matches[2],
		URL:   rawURL,
	}, nil
}

// FullName returns the owner/repo identifier.
func (r *RepoInfo) FullName() string {
	return r.Owner + "/" + r.Repo
}
