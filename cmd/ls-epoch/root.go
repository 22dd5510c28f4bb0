package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/litescript/ls-epoch/internal/config"
	"github.com/litescript/ls-epoch/internal/logging"
	"github.com/litescript/ls-epoch/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "ls-epoch",
	Short:         "Time scale conversion and Earth orientation data",
	Long:          "ls-epoch converts instants between TAI, TT, GPS, UTC and UT1 using an Earth orientation table for leap seconds and UT1-UTC.",
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// configErr holds a config file read failure until a command asks for config.
var configErr error

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+err.Error())
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default "+config.FileName+")")
	flags.String("log-level", "", "log level ("+strings.Join(logging.Levels, ", ")+")")
	flags.String("data", "", "Earth orientation CSV file")

	_ = viper.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("data_file", flags.Lookup("data"))
}

func initConfig() {
	configErr = nil
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(strings.TrimSuffix(config.FileName, ".toml"))
		viper.SetConfigType("toml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.AutomaticEnv()

	// No config file is fine; a broken one is reported by loadConfig.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			configErr = fmt.Errorf("read config: %w", err)
		}
	}
}

// loadConfig returns the validated settings for the running command.
func loadConfig() (config.Config, error) {
	if configErr != nil {
		return config.Config{}, configErr
	}
	return config.Load(viper.GetViper())
}

// newLogger writes to stderr so stdout stays clean for command output.
func newLogger(cfg config.Config) *zap.Logger {
	return logging.New(logging.ParseLevel(cfg.LogLevel), os.Stderr)
}

// dataPath picks the table file from the first argument or the config.
func dataPath(cfg config.Config, args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if cfg.DataFile != "" {
		return cfg.DataFile, nil
	}
	return "", errors.New("no data file: pass one as an argument, with --data, or set data_file")
}
