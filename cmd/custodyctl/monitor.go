package main

import (
	"context"
	"fmt"

	"github.com/nspcc-dev/custody-contract/monitor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMonitorCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Follow Custody contract notifications",
		Long: `Subscribe to the Custody contract notifications over WebSocket RPC, log
them and serve Prometheus metrics until interrupted. RPC endpoint must be
a WebSocket one (ws://host:port/ws).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.Contract == "" {
				return errMissingContract
			}

			contract, err := parseHash160(a.cfg.Contract)
			if err != nil {
				return fmt.Errorf("contract address: %w", err)
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			ws, err := rpcclient.NewWS(ctx, a.cfg.RPC.Endpoint, rpcclient.WSOptions{
				Options: rpcclient.Options{
					DialTimeout:    a.cfg.RPC.Timeout,
					RequestTimeout: a.cfg.RPC.Timeout,
				},
			})
			if err != nil {
				return fmt.Errorf("WebSocket RPC client dial: %w", err)
			}
			defer ws.Close()

			err = ws.Init()
			if err != nil {
				return fmt.Errorf("WebSocket RPC client init: %w", err)
			}

			reg := prometheus.NewRegistry()

			m, err := monitor.New(monitor.Prm{
				Logger:     a.log,
				Subscriber: ws,
				Contract:   contract,
				Metrics:    monitor.NewMetrics(reg),
			})
			if err != nil {
				return err
			}

			metricsErr := make(chan error, 1)
			go func() {
				err := monitor.ServeMetrics(ctx, a.log, a.cfg.Metrics.Address, reg)
				if err != nil {
					cancel()
				}
				metricsErr <- err
			}()

			a.log.Info("monitoring Custody contract",
				zap.Stringer("contract", contract), zap.String("metrics", a.cfg.Metrics.Address))

			err = m.Run(ctx)
			cancel()

			if mErr := <-metricsErr; mErr != nil && err == nil {
				err = mErr
			}

			return err
		},
	}

	cmd.Flags().String("metrics", "", "Prometheus metrics listen address")
	err := a.v.BindPFlag("metrics.address", cmd.Flags().Lookup("metrics"))
	if err != nil {
		panic(fmt.Sprintf("bind flag metrics: %v", err))
	}

	return cmd
}
