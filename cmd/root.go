package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"aidbg/config"
	"aidbg/logging"
	"aidbg/storage"
	"aidbg/tools"
)

var (
	profileFlag string
	dataDirFlag string
	debugFlag   bool
	version     string = "dev"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "aidbg",
	Short: "Chat with an OpenAI-compatible model that can run local diagnostic tools",
	Long: `aidbg is a line-oriented chat client for OpenAI-compatible endpoints.

The assistant can request local tool runs by embedding <tool>name args</tool>
spans in its replies; aidbg executes the named script out of process and
splices the captured output back into the conversation.

Quick start:
  aidbg chat                      # start a conversation
  aidbg profile set local --base-url http://localhost:11434/v1 --model llama3
  aidbg tool list                 # see registered tools
  aidbg history list              # browse archived transcripts`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&profileFlag, "profile", "p", "", "Configuration profile to use (default: last used)")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "Override the data directory")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
}

// app bundles the wired configuration, logger and stores for one command
// invocation.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	profiles *config.ProfileStore
	registry *tools.Registry
	quick    *storage.QuickContentStore
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if dataDirFlag != "" {
		cfg.DataDirectory = dataDirFlag
		if err := config.EnsureDir(cfg.DataDir()); err != nil {
			return nil, err
		}
	}
	if debugFlag {
		cfg.Debug = true
	}

	log, err := logging.New(cfg.DataDir(), cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	dataDir := cfg.DataDir()
	return &app{
		cfg:      cfg,
		log:      log,
		profiles: config.NewProfileStore(dataDir),
		registry: tools.NewRegistry(dataDir),
		quick:    storage.NewQuickContentStore(dataDir),
	}, nil
}

func (a *app) close() {
	_ = a.log.Sync()
}

// profileName resolves the profile for this invocation: the --profile flag,
// then the last profile recorded in state.toml, then "default".
func (a *app) profileName() string {
	if profileFlag != "" {
		return profileFlag
	}
	if state := config.LoadState(a.cfg.DataDir()); state.LastProfile != "" {
		return state.LastProfile
	}
	return "default"
}

func (a *app) rememberProfile(name string) {
	state := config.LoadState(a.cfg.DataDir())
	state.LastProfile = name
	if err := config.SaveState(a.cfg.DataDir(), state); err != nil {
		a.log.Warn("failed to save state", zap.Error(err))
	}
}

// interpreter builds the configured script interpreter, falling back to the
// platform default when settings.toml leaves it unset.
func (a *app) interpreter() tools.Interpreter {
	if a.cfg.Interpreter != "" {
		return tools.InterpreterFor(a.cfg.Interpreter)
	}
	return tools.DefaultInterpreter()
}

func (a *app) openArchive() (*storage.Archive, error) {
	return storage.NewArchive(a.cfg.DataDir())
}
