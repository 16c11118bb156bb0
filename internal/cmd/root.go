// Package cmd implements the claudeyes command line.
package cmd

import (
	"strings"

	"github.com/Iron-Ham/claudeyes/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "claudeyes",
	Short: "Auto-confirm Claude Code prompts in tmux",
	Long: `claudeyes watches the tmux panes running Claude Code and answers its
"Do you want to proceed?" prompts by sending the confirmation keys.

Automation pauses and raises a desktop notification whenever a human is
needed (a question, an error, a finished task or a detected loop), and
resumes on its own when a new task starts after completion.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/claudeyes/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/claudeyes")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("CLAUDEYES")
	// Replace dots with underscores for nested keys in env vars
	// e.g., CLAUDEYES_AUTOMATION_MAX_PROCEEDS for automation.max_proceeds
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
