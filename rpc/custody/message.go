package custody

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/goccy/go-json"
	"github.com/nspcc-dev/custody-contract/contracts/custody/custodyconst"
)

// ErrWrongMessageFormat is returned when transfer data is not an action
// message the contract accepts.
var ErrWrongMessageFormat = errors.New(custodyconst.ErrWrongMessageFormat)

type (
	// ActionMessage is a data of NEP-17 transfers to the contract.
	ActionMessage struct {
		Action *Action `json:"action"`
	}

	// Action describes what the contract does with the transferred tokens.
	Action struct {
		Type string `json:"type"`
		// Amount is informational, the contract uses the transferred amount.
		// Decimal digits, empty if omitted.
		Amount string `json:"amount,omitempty"`
	}
)

// NewDepositMessage returns transfer data crediting the transferred tokens
// to the sender. Amount can be nil.
func NewDepositMessage(amount *big.Int) (string, error) {
	return newActionMessage(custodyconst.ActionDeposit, amount)
}

// NewSettleMessage returns transfer data returning target tokens of a trade
// to the contract. Amount can be nil.
func NewSettleMessage(amount *big.Int) (string, error) {
	return newActionMessage(custodyconst.ActionSettle, amount)
}

func newActionMessage(typ string, amount *big.Int) (string, error) {
	a := &Action{Type: typ}
	if amount != nil {
		if amount.Sign() < 0 {
			return "", fmt.Errorf("negative amount %s", amount)
		}
		a.Amount = amount.String()
	}

	data, err := json.Marshal(ActionMessage{Action: a})
	if err != nil {
		return "", fmt.Errorf("encode %s message: %w", typ, err)
	}

	return string(data), nil
}

// ParseActionMessage decodes transfer data and checks it the way the
// contract does.
func ParseActionMessage(data []byte) (*ActionMessage, error) {
	var msg ActionMessage

	err := json.Unmarshal(data, &msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWrongMessageFormat, err)
	}

	if msg.Action == nil {
		return nil, fmt.Errorf("%w: missing %q", ErrWrongMessageFormat, custodyconst.MessageActionKey)
	}

	switch msg.Action.Type {
	case custodyconst.ActionDeposit, custodyconst.ActionSettle:
	case "":
		return nil, fmt.Errorf("%w: missing %q", ErrWrongMessageFormat, custodyconst.MessageTypeKey)
	default:
		return nil, fmt.Errorf("%w: unknown action %q", ErrWrongMessageFormat, msg.Action.Type)
	}

	if msg.Action.Amount != "" && !isDecimal(msg.Action.Amount) {
		return nil, fmt.Errorf("%w: invalid %q %q", ErrWrongMessageFormat, custodyconst.MessageAmountKey, msg.Action.Amount)
	}

	return &msg, nil
}

// AmountInt returns the declared amount, nil if it is omitted.
func (x *Action) AmountInt() *big.Int {
	if x.Amount == "" {
		return nil
	}

	n, _ := new(big.Int).SetString(x.Amount, 10)

	return n
}

func isDecimal(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return len(s) > 0
}
