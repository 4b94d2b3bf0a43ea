package main

import (
	"fmt"
	"io"
	"math/big"

	"github.com/goccy/go-json"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/nep17"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// record is a ledger record dumped by accounts command.
type record struct {
	Account             string   `json:"account"`
	DepositAmount       *big.Int `json:"deposit"`
	PreinformedAmount   *big.Int `json:"preinformed"`
	LastPreinformedTime int64    `json:"lastPreinformedTime"`
}

// ledgerSummary compares ledger totals with the principal token balance of
// the contract.
type ledgerSummary struct {
	Accounts    int      `json:"accounts"`
	Deposited   *big.Int `json:"deposited"`
	Preinformed *big.Int `json:"preinformed"`
	Balance     *big.Int `json:"balance"`
}

// covered checks that the contract holds enough principal token to pay out
// every deposit. Tokens sent without deposit action or relayed by trade make
// it differ in both directions.
func (x ledgerSummary) covered() bool {
	return x.Balance.Cmp(x.Deposited) >= 0
}

func summarize(records []record, balance *big.Int) ledgerSummary {
	res := ledgerSummary{
		Accounts:    len(records),
		Deposited:   new(big.Int),
		Preinformed: new(big.Int),
		Balance:     balance,
	}

	for i := range records {
		res.Deposited.Add(res.Deposited, records[i].DepositAmount)
		res.Preinformed.Add(res.Preinformed, records[i].PreinformedAmount)
	}

	return res
}

func newAccountsCommand(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Dump all ledger records and reconcile them with contract balance",
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

			accounts, err := listAccounts(s)
			if err != nil {
				return err
			}

			records := make([]record, 0, len(accounts))
			for _, acc := range accounts {
				info, err := s.custody.InfoOf(acc)
				if err != nil {
					return fmt.Errorf("get info of %s: %w", address.Uint160ToString(acc), err)
				}

				records = append(records, record{
					Account:             address.Uint160ToString(acc),
					DepositAmount:       info.DepositAmount,
					PreinformedAmount:   info.PreinformedAmount,
					LastPreinformedTime: info.LastPreinformedTime.Int64(),
				})
			}

			balance, err := nep17.NewReader(s.act, cfg.PrincipalToken).BalanceOf(s.contract)
			if err != nil {
				return fmt.Errorf("get contract balance: %w", err)
			}

			sum := summarize(records, balance)
			if !sum.covered() {
				a.log.Warn("deposits exceed contract balance",
					zap.Stringer("deposited", sum.Deposited), zap.Stringer("balance", sum.Balance))
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), records, sum)
			}

			writeTable(cmd.OutOrStdout(), records, sum)

			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")

	return cmd
}

// listAccounts traverses accounts iterator within the RPC session.
func listAccounts(s *session) ([]util.Uint160, error) {
	sess, iter, err := s.custody.Accounts()
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer func() { _ = s.act.TerminateSession(sess) }()

	var res []util.Uint160
	items, err := s.act.TraverseIterator(sess, &iter, 0)
	for ; err == nil && len(items) > 0; items, err = s.act.TraverseIterator(sess, &iter, 0) {
		for _, item := range items {
			b, err := item.TryBytes()
			if err != nil {
				return nil, fmt.Errorf("account is not a byte string: %w", err)
			}

			h, err := util.Uint160DecodeBytesBE(b)
			if err != nil {
				return nil, fmt.Errorf("decode account: %w", err)
			}

			res = append(res, h)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("traverse accounts: %w", err)
	}

	return res, nil
}

func writeJSON(w io.Writer, records []record, sum ledgerSummary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(struct {
		Records []record      `json:"records"`
		Summary ledgerSummary `json:"summary"`
		Covered bool          `json:"covered"`
	}{records, sum, sum.covered()})
}

func writeTable(w io.Writer, records []record, sum ledgerSummary) {
	for _, r := range records {
		fmt.Fprintf(w, "%s\tdeposit %s\tpre-informed %s\tlast %s\n",
			r.Account, r.DepositAmount, r.PreinformedAmount, msToTime(r.LastPreinformedTime))
	}

	fmt.Fprintf(w, "Accounts:         %d\n", sum.Accounts)
	fmt.Fprintf(w, "Deposited:        %s\n", sum.Deposited)
	fmt.Fprintf(w, "Pre-informed:     %s\n", sum.Preinformed)
	fmt.Fprintf(w, "Contract balance: %s\n", sum.Balance)
	fmt.Fprintf(w, "Covered:          %t\n", sum.covered())
}
