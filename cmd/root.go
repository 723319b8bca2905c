package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abhisek/snipbox/internal/config"
	"github.com/abhisek/snipbox/internal/logging"
	"github.com/abhisek/snipbox/internal/store"
)

var (
	cfgFile string
	v       = viper.New()
	cfg     config.Config
	logger  = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "snipbox",
	Short: "Share code snippets with a complexity estimate",
	Long: `snipbox stores code snippets and labels each one with an estimated
time and space complexity. Run "snipbox serve" for the HTTP API or
"snipbox analyze" to estimate local files.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(v, cfgFile)
		if err != nil {
			return err
		}
		logger = logging.Setup(os.Stderr, cfg.Log.Level, cfg.Log.Format)
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to config file (default ./snipbox.yaml)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides SNIPBOX_DB env var)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	_ = v.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))
	_ = v.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db or the db config key
// (highest priority), then SNIPBOX_DB, then the default XDG path.
func resolveDBPath() (string, error) {
	if cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}
