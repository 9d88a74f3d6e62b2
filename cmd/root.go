package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bimmerbailey/cmpctrej/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "cmpctrej",
	Short: "Explain why compact blocks needed transactions from peers",
	Long: `Cmpctrej reads a bitcoind debug.log and correlates compact block
reconstructions with mempool rejections.

For every transaction a reconstructed block had to request from a peer, it
looks up whether the local mempool rejected that transaction earlier and
why, then counts the rejection reasons.

The node must log the cmpctblock and mempoolrej categories
(-debug=cmpctblock -debug=mempoolrej).

Examples:
  cmpctrej report
  cmpctrej report ~/.bitcoin/signet/debug.log
  cmpctrej report --since 24h --format table
  cmpctrej watch --debounce 2s`,
	SilenceUsage: true,
}

// Execute is called by main.main(). It runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.cmpctrej.yaml)")
	rootCmd.PersistentFlags().String("log-file", config.DefaultLogFile, "bitcoind debug.log to analyze")
	rootCmd.PersistentFlags().StringP("format", "f", "text", "output format (text, table, json, yaml)")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto, always, never)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")

	_ = viper.BindPFlag("log_file", rootCmd.PersistentFlags().Lookup("log-file"))
	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("color", rootCmd.PersistentFlags().Lookup("color"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	// A missing .env is the normal case.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "Error loading .env:", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".cmpctrej")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("CMPCTREJ")
	viper.AutomaticEnv()

	config.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else if cfgFile != "" {
		fmt.Fprintln(os.Stderr, "Error reading config file:", err)
		os.Exit(1)
	}
}

// newLogger returns a text logger on w; debug records are emitted only in
// verbose mode.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
