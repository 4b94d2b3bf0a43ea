/*
Package custodyconst contains constants shared by the Custody contract and its
off-chain clients: abort messages, action message keys and notification names.
*/
package custodyconst

// Abort messages of the Custody contract. Every failure faults the whole
// transaction, clients match them as substrings of the fault exception.
const (
	ErrAccountNotRegistered          = "account not registered"
	ErrAmountExceedsDeposit          = "amount exceeds deposit"
	ErrInsufficientPreinformedAmount = "insufficient pre-informed amount"
	ErrEpochNotOpen                  = "not time for pre-inform"
	ErrWrongAsset                    = "wrong asset"
	ErrWrongMessageFormat            = "wrong message format"
	ErrArithmeticOverflow            = "arithmetic overflow"
	ErrArithmeticUnderflow           = "arithmetic underflow"
	ErrTransferFailed                = "transfer failed"
	ErrInvalidConfig                 = "invalid configuration"
)

// Keys of the JSON action message attached to inbound NEP-17 transfers:
//
//	{"action":{"type":"deposit","amount":"100"}}
//
// The amount field is optional and informational, the transferred amount is
// always taken from the transfer itself. It is a string of decimal digits.
const (
	MessageActionKey = "action"
	MessageTypeKey   = "type"
	MessageAmountKey = "amount"

	// ActionDeposit credits the transferred principal token to the sender.
	ActionDeposit = "deposit"
	// ActionSettle accepts target token returned for a trade, the ledger is
	// not changed.
	ActionSettle = "settle"
)

// Notification names.
const (
	DepositEvent   = "Deposit"
	PreInformEvent = "PreInform"
	WithdrawEvent  = "Withdraw"
	TradeEvent     = "Trade"
)

// MaxAmount is the decimal form of the largest amount the ledger accepts,
// 2^128-1.
const MaxAmount = "340282366920938463463374607431768211455"
