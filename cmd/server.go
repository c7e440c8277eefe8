package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"lendpool/config"
	"lendpool/handler"
	"lendpool/service/bank"
	"lendpool/worker"
	"lendpool/worker/accrual"
	"lendpool/worker/liquidator"

	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "run the lending pool api server and its keepers",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		database := provideDatabase()
		defer database.Close()

		e, err := provideEngine(ctx, database)
		if err != nil {
			log.WithError(err).Fatalln("restore pool")
		}

		e.bank.OnTransfer(func(ctx context.Context, t *bank.Transfer) error {
			logger.FromContext(ctx).Debugf("transfer %s %s from %s to %s", t.Amount, t.Token, t.From, t.To)
			return nil
		})

		if err := e.pool.Bootstrap(ctx); err != nil {
			log.WithError(err).Fatalln("bootstrap")
		}

		if err := e.setupVaults(ctx); err != nil {
			log.WithError(err).Fatalln("setup vaults")
		}

		port, _ := cmd.Flags().GetInt("port")
		if port == 0 {
			port = cfg.Server.Port
		}
		addr := fmt.Sprintf(":%d", port)

		server := &http.Server{
			Addr: addr,
			Handler: handler.New(handler.Config{
				Version:      rootCmd.Version,
				AccessTokens: cfg.Server.Tokens,
			}, e.pool, e.tokens, e.pauser, e.events, e.clock, e.metrics).Handler(),
		}

		loc, err := time.LoadLocation(cfg.App.Location)
		if err != nil {
			loc = time.UTC
		}

		workers := []worker.Worker{
			accrual.New(e.pool, accrual.Config{
				Interval: config.Duration(cfg.Worker.AccrualInterval, time.Minute),
				Location: loc,
			}),
			liquidator.New(e.pool, e.metrics, liquidator.Config{
				Keeper:   cfg.Worker.Keeper,
				Parallel: int64(cfg.Worker.Parallel),
				Interval: config.Duration(cfg.Worker.LiquidatorInterval, 15*time.Second),
			}),
		}

		ctx, quit := context.WithCancel(ctx)
		g, gctx := errgroup.WithContext(ctx)
		for _, w := range workers {
			w := w
			g.Go(func() error {
				return w.Run(gctx)
			})
		}

		done := make(chan struct{}, 1)
		signal.WithContextFunc(ctx, func() {
			quit()

			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				logrus.WithError(err).Error("graceful shutdown server failed")
			}

			close(done)
		})

		logrus.Infoln("serve at", addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("server aborted")
		}

		<-done
		_ = g.Wait()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().IntP("port", "p", 0, "server port, server.port of the config by default")
}
