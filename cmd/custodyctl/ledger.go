package main

import (
	"fmt"

	"github.com/nspcc-dev/custody-contract/rpc/custody"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/nep17"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newDepositCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "deposit <amount>",
		Short: "Deposit principal token",
		Long:  "Transfer amount of principal token to the Custody contract with deposit action message.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), a.cfg, true)
			if err != nil {
				return err
			}
			defer s.close()

			cfg, err := s.custody.Config()
			if err != nil {
				return fmt.Errorf("get contract config: %w", err)
			}

			amount, err := parseAmount(s.act, cfg.PrincipalToken, args[0])
			if err != nil {
				return err
			}

			msg, err := custody.NewDepositMessage(amount)
			if err != nil {
				return err
			}

			res, err := s.wait(nep17.New(s.act, cfg.PrincipalToken).Transfer(s.acc.ScriptHash(), s.contract, amount, msg))
			if err != nil {
				return fmt.Errorf("deposit: %w", err)
			}

			events, err := custody.DepositEventsFromApplicationLog(appLog(res))
			if err != nil {
				return err
			}

			for _, e := range events {
				a.log.Info("deposited",
					zap.Stringer("account", e.Account), zap.Stringer("amount", e.Amount), zap.Stringer("total", e.Total))
			}

			return nil
		},
	}
}

func newPreInformCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pre-inform <amount>",
		Short: "Declare deposit part eligible for withdrawal",
		Long:  "Pre-inform is allowed until three days before the next epoch boundary.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), a.cfg, true)
			if err != nil {
				return err
			}
			defer s.close()

			cfg, err := s.custody.Config()
			if err != nil {
				return fmt.Errorf("get contract config: %w", err)
			}

			amount, err := parseAmount(s.act, cfg.PrincipalToken, args[0])
			if err != nil {
				return err
			}

			res, err := s.wait(s.custody.PreInform(s.acc.ScriptHash(), amount))
			if err != nil {
				return fmt.Errorf("pre-inform: %w", err)
			}

			events, err := custody.PreInformEventsFromApplicationLog(appLog(res))
			if err != nil {
				return err
			}

			for _, e := range events {
				a.log.Info("pre-informed",
					zap.Stringer("account", e.Account), zap.Stringer("amount", e.Amount), zap.Stringer("pre-informed", e.Preinformed))
			}

			return nil
		},
	}
}

func newWithdrawCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw <amount>",
		Short: "Withdraw pre-informed principal token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), a.cfg, true)
			if err != nil {
				return err
			}
			defer s.close()

			cfg, err := s.custody.Config()
			if err != nil {
				return fmt.Errorf("get contract config: %w", err)
			}

			amount, err := parseAmount(s.act, cfg.PrincipalToken, args[0])
			if err != nil {
				return err
			}

			res, err := s.wait(s.custody.Withdraw(s.acc.ScriptHash(), cfg.PrincipalToken, amount))
			if err != nil {
				return fmt.Errorf("withdraw: %w", err)
			}

			events, err := custody.WithdrawEventsFromApplicationLog(appLog(res))
			if err != nil {
				return err
			}

			for _, e := range events {
				a.log.Info("withdrawn",
					zap.Stringer("account", e.Account), zap.Stringer("asset", e.Asset), zap.Stringer("amount", e.Amount))
			}

			return nil
		},
	}
}

func newTradeCommand(a *app) *cobra.Command {
	var asset string

	cmd := &cobra.Command{
		Use:   "trade <receiver> <amount> <message>",
		Short: "Relay contract-held tokens to the receiver",
		Long: `Transfer tokens held by the Custody contract to the receiver with the message
as transfer data. Must be signed by committee, the wallet account is expected
to be the committee multisignature account. Principal token is relayed unless
--asset is set.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			receiver, err := parseHash160(args[0])
			if err != nil {
				return fmt.Errorf("receiver: %w", err)
			}

			s, err := openSession(cmd.Context(), a.cfg, true)
			if err != nil {
				return err
			}
			defer s.close()

			cfg, err := s.custody.Config()
			if err != nil {
				return fmt.Errorf("get contract config: %w", err)
			}

			token := cfg.PrincipalToken
			if asset != "" {
				token, err = parseHash160(asset)
				if err != nil {
					return fmt.Errorf("asset: %w", err)
				}
			}

			amount, err := parseAmount(s.act, token, args[1])
			if err != nil {
				return err
			}

			res, err := s.wait(s.custody.Trade(receiver, token, amount, args[2]))
			if err != nil {
				return fmt.Errorf("trade: %w", err)
			}

			events, err := custody.TradeEventsFromApplicationLog(appLog(res))
			if err != nil {
				return err
			}

			for _, e := range events {
				a.log.Info("traded",
					zap.Stringer("receiver", e.Receiver), zap.Stringer("asset", e.Asset), zap.Stringer("amount", e.Amount),
					zap.String("message", e.Message))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&asset, "asset", "", "token to relay, principal token by default")

	return cmd
}
