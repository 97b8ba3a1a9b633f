package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/paul-ooi/skillet/pkg/engine"
	"github.com/paul-ooi/skillet/pkg/logger"
	"github.com/paul-ooi/skillet/pkg/presenter"
	"github.com/paul-ooi/skillet/pkg/resolver"
)

func init() {
	// Environment variables
	viper.SetEnvPrefix("SKILLET")
	viper.AutomaticEnv()

	// Config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.skillet")
	viper.AddConfigPath(".")

	// Load config file if it exists (ignore errors if it doesn't)
	_ = viper.ReadInConfig()

	viper.SetDefault("threshold", resolver.DefaultThreshold)
}

var rootCmd = &cobra.Command{
	Use:   "skillet",
	Short: "Select and compose guidance bundles for a task",
	Long: `Skillet indexes directories of guidance bundles (SKILL.md documents
with YAML frontmatter), matches them against a task description, resolves
deference between overlapping bundles, and composes the selected guidance
into a single ordered payload.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := logger.SetLogLevel(viper.GetString("log_level")); err != nil {
			return err
		}
		logger.SetLogFormat(viper.GetString("log_format"))
		presenter.SetQuiet(viper.GetBool("quiet"))

		cmd.Flags().Visit(func(flag *pflag.Flag) {
			logger.L.WithField("flag", flag.Name).WithField("value", flag.Value.String()).Debug("Flag override")
		})
		return nil
	},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

// newEngine builds an engine from the effective configuration.
func newEngine() (*engine.Engine, error) {
	opts := []engine.Option{
		engine.WithThreshold(viper.GetFloat64("threshold")),
	}
	if dirs := viper.GetStringSlice("dirs"); len(dirs) > 0 {
		opts = append(opts, engine.WithSourceDirs(dirs...))
	}
	return engine.New(opts...)
}

func main() {
	rootCmd.PersistentFlags().StringSlice("dir", nil, "Bundle source directory (repeatable, earlier dirs take precedence)")
	rootCmd.PersistentFlags().Float64("threshold", resolver.DefaultThreshold, "Minimum relevance score for activation")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "fmt", "Log format (fmt, json)")
	rootCmd.PersistentFlags().Bool("quiet", false, "Suppress informational output")

	viper.BindPFlag("dirs", rootCmd.PersistentFlags().Lookup("dir"))
	viper.BindPFlag("threshold", rootCmd.PersistentFlags().Lookup("threshold"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(composeCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
