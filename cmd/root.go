package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/akashicode/grade/internal/config"
	"github.com/akashicode/grade/internal/display"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "grade",
	Short: "Extract course curricula from catalog PDFs",
	Long: `Grade reads course-catalog documents (PDF or plain text), recognizes the
curriculum layout they use and prints the subjects, semesters and workloads
as structured data. Extracted curricula can be stored per course and served
over HTTP.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		return setupLogging(cfg.Log)
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		display.ErrorMsg(err.Error())
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.grade/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("store", "", "catalog driver (graph, sqlite, memory)")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("store.driver", rootCmd.PersistentFlags().Lookup("store"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "warning: could not determine home directory:", err)
			return
		}
		viper.AddConfigPath(filepath.Join(home, ".grade"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	config.BindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		// config.yaml is optional; defaults and GRADE_* variables still apply
		if cfgFile != "" {
			fmt.Fprintln(os.Stderr, "warning: could not read config file:", err)
		}
	}
}

func setupLogging(c config.LogConfig) error {
	level, err := zerolog.ParseLevel(strings.ToLower(c.Level))
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", c.Level, err)
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if c.Format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return nil
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	return nil
}
