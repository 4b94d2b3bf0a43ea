package main

import (
	"fmt"
	"os"
	"time"

	"github.com/nspcc-dev/custody-contract/contracts"
	"github.com/nspcc-dev/custody-contract/deploy"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newDeployCommand(a *app) *cobra.Command {
	var (
		contractsDir  string
		principal     string
		target        string
		epochDuration time.Duration
		epochStart    string
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy Custody contract",
		Long: `Deploy compiled Custody contract on behalf of the wallet account.
The contract is read from <contracts-dir>/custody/{contract.nef,manifest.json}.
Nothing is sent if the contract is already deployed by the account.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctr, err := contracts.GetCustody(os.DirFS(contractsDir))
			if err != nil {
				return err
			}

			principalToken, err := parseHash160(principal)
			if err != nil {
				return fmt.Errorf("principal token: %w", err)
			}

			targetToken, err := parseHash160(target)
			if err != nil {
				return fmt.Errorf("target token: %w", err)
			}

			start, err := time.Parse(time.RFC3339, epochStart)
			if err != nil {
				return fmt.Errorf("epoch start: %w", err)
			}

			acc, err := openAccount(a.cfg.Wallet)
			if err != nil {
				return err
			}

			c, err := dialRPC(cmd.Context(), a.cfg.RPC)
			if err != nil {
				return err
			}
			defer c.Close()

			addr, err := deploy.Custody(cmd.Context(), deploy.Prm{
				Logger:       a.log,
				Blockchain:   c,
				LocalAccount: acc,
				CustodyContract: deploy.CustodyContractPrm{
					Common: deploy.CommonDeployPrm{
						NEF:      ctr.NEF,
						Manifest: ctr.Manifest,
					},
					PrincipalToken: principalToken,
					TargetToken:    targetToken,
					EpochDuration:  epochDuration,
					EpochStart:     start,
				},
			})
			if err != nil {
				return err
			}

			a.log.Info("Custody contract is ready", zap.String("hash", addr.StringLE()))
			fmt.Fprintln(cmd.OutOrStdout(), addr.StringLE())

			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&contractsDir, "contracts-dir", "contracts", "directory with compiled contracts")
	f.StringVar(&principal, "principal", "", "principal NEP-17 token address or script hash")
	f.StringVar(&target, "target", "", "target NEP-17 token address or script hash")
	f.DurationVar(&epochDuration, "epoch-duration", 7*24*time.Hour, "epoch duration")
	f.StringVar(&epochStart, "epoch-start", "", "first epoch start, RFC3339")

	for _, name := range []string{"principal", "target", "epoch-start"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}
