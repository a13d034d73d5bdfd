package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// appName is the name of the application used in CLI usage output
const appName = "rankprobe"

// k holds flag and config values for whichever subcommand is running
var k *koanf.Koanf

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "search visibility scanner that scores domains and surfaces keyword opportunities",
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		cobra.CheckErr(bindFlags(cmd))
	},
}

func init() {
	k = koanf.New(".")
	cobra.OnInitialize(initialize)

	rootCmd.PersistentFlags().Bool("pretty", false, "enable pretty (human readable) logging output")
	rootCmd.PersistentFlags().Bool("debug", false, "debug logging output")
}

// Execute runs the selected subcommand under a context that ends on SIGINT or
// SIGTERM, so every command shares the same shutdown path.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutdown signal received")
	}()

	cobra.CheckErr(rootCmd.ExecuteContext(ctx))
}

// initialize binds the root flags and applies the logging settings before any
// subcommand runs
func initialize() {
	if err := bindFlags(rootCmd); err != nil {
		log.Fatal().Err(err).Msg("error loading config")
	}

	setupLogging()
}

// bindFlags loads the command's flag set into the koanf instance
func bindFlags(cmd *cobra.Command) error {
	return k.Load(posflag.Provider(cmd.Flags(), k.Delim(), k), nil)
}

// setupLogging configures zerolog from the debug and pretty flags
func setupLogging() {
	zerolog.SetGlobalLevel(logLevel())

	if k.Bool("pretty") {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// logLevel maps the debug flag onto the global log level
func logLevel() zerolog.Level {
	if k.Bool("debug") {
		return zerolog.DebugLevel
	}

	return zerolog.InfoLevel
}
