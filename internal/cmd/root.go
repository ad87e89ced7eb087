package cmd

import (
	"github.com/Iron-Ham/surfacemail/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "surfacemail",
	Short: "Surface mailbox coordinator",
	Long: `Surfacemail runs a coordinator that owns a set of terminal surfaces and
applies the messages producers send to their mailboxes, one at a time and
in arrival order.

New surfaces derive their configuration from the base config and can
inherit the working directory of their parent or of the focused surface.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $XDG_CONFIG_HOME/surfacemail/config.yaml)")
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
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix(config.EnvPrefix)
	// e.g. SURFACEMAIL_MAILBOX_PUSH_TIMEOUT_MS for mailbox.push-timeout-ms
	viper.SetEnvKeyReplacer(config.EnvKeyReplacer())

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
