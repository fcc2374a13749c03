package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hexlade/multiworld"
	"github.com/hexlade/multiworld/engine"
	"github.com/hexlade/multiworld/system"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		log.Fatal().Msgf("command failed: %s", eris.ToString(err, true))
	}
}

func rootCmd() *cobra.Command {
	var prettyLog bool

	root := &cobra.Command{
		Use:           "multiworld",
		Short:         "Role-partitioned world bootstrap for distributed simulations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&prettyLog, "pretty-log", false, "human-readable console logging")

	start := &cobra.Command{
		Use:   "start",
		Short: "Resolve the role configuration and run the hosted worlds",
		RunE: func(cmd *cobra.Command, args []string) error {
			if prettyLog {
				log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
			}
			return runStart()
		},
	}
	root.AddCommand(start)
	return root
}

func runStart() error {
	runtime := engine.NewRuntime(system.DefaultRegistry())

	b, err := multiworld.NewBootstrap(multiworld.WithEngine(runtime))
	if err != nil {
		return err
	}

	if level, err := zerolog.ParseLevel(b.Config().LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	if err := b.Orchestrate(); err != nil {
		return err
	}
	if err := runtime.Start(); err != nil {
		return err
	}

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)
	sig := <-signalChannel
	log.Info().Str("signal", sig.String()).Msg("Shutting down.")

	runtime.Shutdown()
	return b.Shutdown()
}
