package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	server "github.com/echenim/batchex/cmd/server/app"
	"github.com/echenim/batchex/internal/config"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string
	v := viper.New()

	cmd := &cobra.Command{
		Use:           "batchex",
		Short:         "In-memory batch auction exchange for front-end testing",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.Load(v, configFile)
			if err != nil {
				logrus.WithError(err).Error("load config")
				return err
			}
			conf.ConfigureLogging()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := server.StartServer(ctx, conf); err != nil {
				logrus.WithError(err).Error("server stopped")
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "path to a config file (yaml, toml or json)")
	cmd.Flags().String("listen", ":3000", "address to listen on")
	cmd.Flags().String("log-level", "info", "log level")
	_ = v.BindPFlag("listen_addr", cmd.Flags().Lookup("listen"))
	_ = v.BindPFlag("log_level", cmd.Flags().Lookup("log-level"))

	return cmd
}
