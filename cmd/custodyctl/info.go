package main

import (
	"fmt"
	"io"
	"time"

	"github.com/nspcc-dev/custody-contract/contracts/custody/epoch"
	"github.com/nspcc-dev/custody-contract/rpc/custody"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/spf13/cobra"
)

func newInfoCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info [account]",
		Short: "Print ledger record of the account",
		Long:  "Print ledger record of the account, the wallet account is used if none given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), a.cfg, len(args) == 0)
			if err != nil {
				return err
			}
			defer s.close()

			account := s.acc.ScriptHash()
			if len(args) > 0 {
				account, err = parseHash160(args[0])
				if err != nil {
					return fmt.Errorf("account: %w", err)
				}
			}

			ok, err := s.custody.IsRegistered(account)
			if err != nil {
				return fmt.Errorf("check registration: %w", err)
			}

			w := cmd.OutOrStdout()
			if !ok {
				fmt.Fprintf(w, "%s is not registered\n", address.Uint160ToString(account))
				return nil
			}

			info, err := s.custody.InfoOf(account)
			if err != nil {
				return fmt.Errorf("get account info: %w", err)
			}

			printInfo(w, account, info)

			return nil
		},
	}
}

func printInfo(w io.Writer, account util.Uint160, info *custody.Info) {
	fmt.Fprintf(w, "Account:          %s\n", address.Uint160ToString(account))
	fmt.Fprintf(w, "Deposit:          %s\n", info.DepositAmount)
	fmt.Fprintf(w, "Pre-informed:     %s\n", info.PreinformedAmount)
	fmt.Fprintf(w, "Last pre-inform:  %s\n", msToTime(info.LastPreinformedTime.Int64()))
}

func newStatusCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print contract configuration and epoch gate state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), a.cfg, false)
			if err != nil {
				return err
			}
			defer s.close()

			cfg, err := s.custody.Config()
			if err != nil {
				return fmt.Errorf("get contract config: %w", err)
			}

			open, err := s.custody.IsPreinformable()
			if err != nil {
				return fmt.Errorf("check epoch gate: %w", err)
			}

			boundary, err := s.custody.NextEpochBoundary()
			if err != nil {
				return fmt.Errorf("get next epoch boundary: %w", err)
			}

			printStatus(cmd.OutOrStdout(), cfg, open, boundary.Int64(), time.Now())

			return nil
		},
	}
}

func printStatus(w io.Writer, cfg *custody.LedgerConfig, open bool, boundary int64, now time.Time) {
	var (
		start    = cfg.EpochStart.Int64()
		duration = cfg.EpochDuration.Int64()
	)

	fmt.Fprintf(w, "Principal token:  %s\n", cfg.PrincipalToken.StringLE())
	fmt.Fprintf(w, "Target token:     %s\n", cfg.TargetToken.StringLE())
	fmt.Fprintf(w, "Epoch start:      %s\n", msToTime(start))
	fmt.Fprintf(w, "Epoch duration:   %s\n", time.Duration(duration)*time.Millisecond)
	fmt.Fprintf(w, "Next boundary:    %s\n", msToTime(boundary))
	fmt.Fprintf(w, "Pre-inform open:  %t\n", open)

	ms := now.UnixMilli()
	if ms < start {
		fmt.Fprintf(w, "Schedule starts in %s\n", time.Duration(start-ms)*time.Millisecond)
		return
	}

	// Local clock may differ from the last block timestamp.
	next := epoch.NextBoundary(int(ms), int(start), int(duration))
	if epoch.IsPreinformable(int(ms), int(start), int(duration), epoch.QuietPeriod) {
		fmt.Fprintf(w, "Pre-inform closes in %s\n", time.Duration(next-epoch.QuietPeriod-int(ms))*time.Millisecond)
	} else {
		fmt.Fprintf(w, "Pre-inform opens in %s\n", time.Duration(next-int(ms))*time.Millisecond)
	}
}

func msToTime(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}
