package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// app is the state shared by all commands, it is filled before any command
// runs.
type app struct {
	v   *viper.Viper
	cfg Config
	log *zap.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	var configPath string

	root := &cobra.Command{
		Use:           "custodyctl",
		Short:         "Custody contract operator tool",
		Long:          "custodyctl deploys the Custody contract, sends deposits, pre-informs, withdrawals and trades and follows contract notifications.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error

			a.cfg, err = loadConfig(a.v, configPath)
			if err != nil {
				return err
			}

			a.log, err = newLogger(a.cfg.Log)
			if err != nil {
				return err
			}

			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "path to YAML configuration file")
	pf.StringP("rpc", "r", "", "Neo RPC endpoint")
	pf.StringP("wallet", "w", "", "path to NEP-6 wallet")
	pf.StringP("address", "a", "", "wallet account address, default account if empty")
	pf.String("contract", "", "Custody contract address or script hash")
	pf.String("log-level", "", "log level (debug, info, warn, error)")

	for key, flag := range map[string]string{
		"rpc.endpoint":   "rpc",
		"wallet.path":    "wallet",
		"wallet.address": "address",
		"contract":       "contract",
		"log.level":      "log-level",
	} {
		err := a.v.BindPFlag(key, pf.Lookup(flag))
		if err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", flag, err))
		}
	}

	root.AddCommand(
		newDeployCommand(a),
		newDepositCommand(a),
		newPreInformCommand(a),
		newWithdrawCommand(a),
		newTradeCommand(a),
		newInfoCommand(a),
		newAccountsCommand(a),
		newStatusCommand(a),
		newMonitorCommand(a),
	)

	return root
}
