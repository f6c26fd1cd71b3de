package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/quantmind-br/deckgen-go/internal/app"
	"github.com/quantmind-br/deckgen-go/internal/config"
	"github.com/quantmind-br/deckgen-go/internal/domain"
	"github.com/quantmind-br/deckgen-go/internal/manifest"
	"github.com/quantmind-br/deckgen-go/internal/utils"
	"github.com/quantmind-br/deckgen-go/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
	log     *utils.Logger

	// Dependencies for testing
	execLookPath = exec.LookPath
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "deckgen [repository-url]",
	Short: "Generate slide decks from GitHub repositories",
	Long: `DeckGen turns a GitHub repository into a pitch-style slide deck.

It clones the repository, digests the codebase, extracts the key facts
with an LLM, and renders the result through the Presenton API.`,
	Version: version.Short(),
	Args:    cobra.MaximumNArgs(1),
	RunE:    run,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.deckgen/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	// Presentation flags
	rootCmd.Flags().IntP("slides", "n", 0, "Number of slides (5-15)")
	rootCmd.Flags().String("tone", "", "Presentation tone (default, casual, professional, funny, educational, sales_pitch)")
	rootCmd.Flags().String("verbosity", "", "Slide text density (concise, standard, text-heavy)")
	rootCmd.Flags().String("language", "", "Presentation language")
	rootCmd.Flags().String("template", "", "Presentation template")
	rootCmd.Flags().String("export-as", "", "Output format (pptx, pdf)")
	rootCmd.Flags().Bool("title-slide", true, "Include a title slide")
	rootCmd.Flags().Bool("toc", false, "Include a table of contents slide")
	rootCmd.Flags().Bool("web-search", false, "Let the renderer use web search for imagery")
	rootCmd.Flags().String("image-type", "", "Image sourcing (stock, ai)")
	rootCmd.Flags().Bool("keep", false, "Keep the cloned working copy after generation")

	// Bind flags to viper
	_ = viper.BindPFlag("defaults.include_title_slide", rootCmd.Flags().Lookup("title-slide"))
	_ = viper.BindPFlag("defaults.include_table_of_contents", rootCmd.Flags().Lookup("toc"))
	_ = viper.BindPFlag("defaults.web_search", rootCmd.Flags().Lookup("web-search"))

	// Add subcommands
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

func initLogger() *utils.Logger {
	logLevel := "info"
	if verbose {
		logLevel = "debug"
	}
	return utils.NewLogger(utils.LoggerOptions{
		Level:   logLevel,
		Format:  "pretty",
		Verbose: verbose,
	})
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Info().Msg("Shutting down gracefully...")
		cancel()
	}()

	return ctx, cancel
}

// requestFromFlags builds the generation request from explicitly set
// flags only, so unset fields can fall back to stored preferences and
// configured defaults.
func requestFromFlags(cmd *cobra.Command, repoURL string) domain.GenerationRequest {
	req := domain.GenerationRequest{RepoURL: repoURL}

	req.SlideCount, _ = cmd.Flags().GetInt("slides")
	req.Tone, _ = cmd.Flags().GetString("tone")
	req.Verbosity, _ = cmd.Flags().GetString("verbosity")
	req.Language, _ = cmd.Flags().GetString("language")
	req.Template, _ = cmd.Flags().GetString("template")
	req.ExportAs, _ = cmd.Flags().GetString("export-as")
	req.ImageType, _ = cmd.Flags().GetString("image-type")
	req.KeepWorkingCopy, _ = cmd.Flags().GetBool("keep")

	if cmd.Flags().Changed("title-slide") {
		v, _ := cmd.Flags().GetBool("title-slide")
		req.IncludeTitle = &v
	}
	if cmd.Flags().Changed("toc") {
		v, _ := cmd.Flags().GetBool("toc")
		req.IncludeTOC = &v
	}
	if cmd.Flags().Changed("web-search") {
		v, _ := cmd.Flags().GetBool("web-search")
		req.WebSearch = &v
	}

	return req
}

func run(cmd *cobra.Command, args []string) error {
	log = initLogger()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if len(args) == 0 {
		return cmd.Help()
	}

	pipeline, closeFn, err := app.Build(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	ctx, cancel := signalContext()
	defer cancel()

	req := requestFromFlags(cmd, args[0])
	pipeline.ApplyStoredPreferences(ctx, &req)
	if req.SlideCount == 0 {
		req.SlideCount = cfg.Defaults.SlideCount
	}

	result, err := pipeline.Run(ctx, &req)
	if err != nil {
		return err
	}

	fmt.Println(result.Message)
	fmt.Printf("  Presentation ID: %s\n", result.PresentationID)
	if result.DownloadURL != "" {
		fmt.Printf("  Download: %s\n", result.DownloadURL)
	}
	if result.EditURL != "" {
		fmt.Printf("  Edit: %s\n", result.EditURL)
	}
	if result.CreditsConsumed != nil {
		fmt.Printf("  Credits consumed: %.2f\n", *result.CreditsConsumed)
	}
	return nil
}

var batchCmd = &cobra.Command{
	Use:   "batch [manifest-file]",
	Short: "Generate decks for every repository in a manifest",
	Long: `Processes a YAML or JSON manifest listing repositories and optional
per-repository overrides, generating one presentation per source.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log = initLogger()

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		m, err := manifest.Load(args[0])
		if err != nil {
			return err
		}

		pipeline, closeFn, err := app.Build(cfg, log)
		if err != nil {
			return err
		}
		defer func() { _ = closeFn() }()

		ctx, cancel := signalContext()
		defer cancel()

		base := domain.GenerationRequest{SlideCount: cfg.Defaults.SlideCount}
		results, err := pipeline.RunBatch(ctx, m, base, true)
		if err != nil {
			return err
		}

		fmt.Println()
		var failed int
		for _, r := range results {
			if r.Err != nil {
				failed++
				fmt.Printf("  FAILED %s: %v\n", r.URL, r.Err)
			} else if r.Result != nil {
				fmt.Printf("  OK     %s -> %s\n", r.URL, r.Result.PresentationID)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d sources failed", failed, len(results))
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [presentation-id]",
	Short: "Re-export an existing presentation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log = initLogger()

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		pipeline, closeFn, err := app.Build(cfg, log)
		if err != nil {
			return err
		}
		defer func() { _ = closeFn() }()

		ctx, cancel := signalContext()
		defer cancel()

		exportAs, _ := cmd.Flags().GetString("export-as")
		result, err := pipeline.Export(ctx, args[0], exportAs)
		if err != nil {
			return err
		}

		fmt.Printf("Exported %s\n", result.PresentationID)
		if result.DownloadURL != "" {
			fmt.Printf("  Download: %s\n", result.DownloadURL)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().String("export-as", "", "Output format (pptx, pdf)")
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check system dependencies",
	Long:  "Verifies that all system dependencies are properly installed and configured.",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Checking system dependencies...")
		allPassed := true

		cfg, cfgErr := config.Load()
		if cfg == nil {
			cfg = config.Default()
		}

		// Check 1: digest binary
		fmt.Printf("  Digest tool (%s): ", cfg.Digest.Binary)
		if path, err := execLookPath(cfg.Digest.Binary); err == nil {
			fmt.Printf("OK (%s)\n", path)
		} else {
			fmt.Println("NOT FOUND")
			allPassed = false
		}

		// Check 2: LLM API key
		fmt.Print("  LLM API key: ")
		if cfg.LLM.APIKey != "" || os.Getenv("GEMINI_API_KEY") != "" ||
			os.Getenv("GOOGLE_API_KEY") != "" || os.Getenv("OPENAI_API_KEY") != "" {
			fmt.Println("OK")
		} else {
			fmt.Println("NOT CONFIGURED")
			allPassed = false
		}

		// Check 3: render API key
		fmt.Print("  Render API key: ")
		if cfg.Render.APIKey != "" || os.Getenv("PRESENTON_API_KEY") != "" {
			fmt.Println("OK")
		} else {
			fmt.Println("NOT CONFIGURED")
			allPassed = false
		}

		// Check 4: temp directory writable
		fmt.Print("  Temp directory: ")
		if checkTempDir(cfg.Repo.TempDir) {
			fmt.Printf("OK (%s)\n", cfg.Repo.TempDir)
		} else {
			fmt.Println("NOT WRITABLE")
			allPassed = false
		}

		// Check 5: config file
		fmt.Print("  Config file: ")
		if cfgErr != nil {
			fmt.Printf("WARN (%v)\n", cfgErr)
		} else {
			fmt.Println("OK")
		}

		fmt.Println()
		if allPassed {
			fmt.Println("All critical checks passed!")
		} else {
			fmt.Println("Some checks failed. Please resolve the issues above.")
		}
		return nil
	},
}

// checkTempDir checks if the temp directory exists or can be created
// and written to.
func checkTempDir(dir string) bool {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false
	}
	f, err := os.CreateTemp(dir, ".deckgen_write_check_*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Full())
	},
}
