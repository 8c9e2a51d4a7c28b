// Root command for the jotter CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/jotterhq/jotter/internal/paths"
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
)

// Values loaded from config.yaml by PersistentPreRunE so all subcommands
// can use them.
var (
	configBackend  string
	configDataDir  string
	configFilesDir string
	configDevLog   bool
	configHTTPAddr string
)

var rootCmd = &cobra.Command{
	Use:     "jotter",
	Short:   "Jotter is a local-first task and note manager",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}

		configBackend = cfg.GetString(cfgKeyBackend)
		configDataDir = cfg.GetString(cfgKeyDataDir)
		configFilesDir = cfg.GetString(cfgKeyFilesDir)
		configDevLog = cfg.GetBool(cfgKeyLogDevelopment)
		configHTTPAddr = cfg.GetString(cfgKeyHTTPAddr)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir, e.g. ~/.config/jotter)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.jotter-db)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(passwdCmd)
	rootCmd.AddCommand(prefsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(subtaskCmd)
	rootCmd.AddCommand(fileCmd)
	rootCmd.AddCommand(serveCmd)
}

// resolveDataDir precedence: --data-dir flag > config.yaml data_dir >
// JOTTER_DATA_DIR env > default $(CWD)/.jotter-db.
func resolveDataDir() (string, error) {
	return paths.ResolveDataDir(flagDataDir, configDataDir)
}

// resolveConfigDir precedence: --config-dir flag > JOTTER_CONFIG_DIR env >
// DefaultConfigDir().
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}
