package commands

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/balkashynov/liftlog/internal/config"
	"github.com/balkashynov/liftlog/internal/db"
	"github.com/balkashynov/liftlog/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// annotation set on commands that run without opening the database
const skipStore = "liftlog/skip-store"

var (
	configPath string
	logLevel   string

	cfg   *config.Config
	store *db.Store
)

var rootCmd = &cobra.Command{
	Use:   "liftlog",
	Short: "A CLI workout logger",
	Long: `liftlog is a command-line workout logger.
Keep an exercise catalog, build workout templates, and log sessions set by set from the terminal.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

// setup loads config, configures logging and opens the store for every command
// that needs it
func setup(cmd *cobra.Command, _ []string) error {
	if cmd.Annotations[skipStore] == "true" {
		return nil
	}

	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		if err := cfg.SetLogLevel(logLevel); err != nil {
			return err
		}
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.Logging.File,
		LogToStdout:   cfg.Logging.Stdout,
		LogLevel:      cfg.Logging.Level,
		LogFormatJSON: cfg.Logging.JSON,
	})

	store, err = db.Open(cmd.Context(), db.Options{
		Path:   cfg.Database.Path,
		Seed:   cfg.Database.Seed,
		Logger: logging.GormLogger(),
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	log.WithFields(log.Fields{
		"command": cmd.CommandPath(),
		"db":      cfg.Database.Path,
	}).Debug("command starting")
	return nil
}

func teardown(*cobra.Command, []string) error {
	if store == nil {
		return nil
	}
	err := store.Close()
	store = nil
	return err
}

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print the version",
	Annotations: map[string]string{skipStore: "true"},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("liftlog %s (commit %s, built %s)\n", version, commit, date)
	},
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: trace|debug|info|warn|error")

	rootCmd.SetHelpCommand(helpCmd)
	rootCmd.AddCommand(exerciseCmd)
	rootCmd.AddCommand(templateCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(weekCmd)
	rootCmd.AddCommand(versionCmd)
}
