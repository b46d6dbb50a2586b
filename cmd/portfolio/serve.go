package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"

	"github.com/eringen/portfolio"
	"github.com/eringen/portfolio/notify"
	"github.com/eringen/portfolio/views"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	app := portfolio.New(settings.Site, views.Funcs(), portfolio.WithStaticDir(settings.StaticDir))
	app.Echo.HideBanner = true
	app.Echo.Logger.SetLevel(log.INFO)

	if amqpCfg := app.Config.AMQP; amqpCfg.URL != "" {
		n, err := notify.NewRabbitMQ(notify.Config{
			URL:        amqpCfg.URL,
			Exchange:   amqpCfg.Exchange,
			RoutingKey: amqpCfg.RoutingKey,
			QueueName:  amqpCfg.QueueName,
		}, app.Echo.Logger)
		if err != nil {
			return err
		}
		app.Notifier = n
	}

	if err := app.Init(); err != nil {
		app.Close()
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Start()
	}()

	select {
	case err := <-errCh:
		app.Close()
		return err
	case <-ctx.Done():
	}

	app.Echo.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return app.Shutdown(shutdownCtx)
}
