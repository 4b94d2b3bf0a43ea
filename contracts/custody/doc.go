/*
Package custody implements Custody contract which is deployed to N3 chain.

Custody contract keeps a ledger of principal token deposits. Users deposit
by transferring the principal NEP-17 token to the contract with a JSON action
message as transfer data:

	{"action":{"type":"deposit"}}

Deposited tokens can be withdrawn only after being pre-informed. Time is split
into epochs of the duration set on deploy, pre-informing is open until three
days before every epoch boundary. Withdrawal decreases both deposited and
pre-informed amounts and transfers principal or target tokens back to the
user.

Committee can relay tokens held by the contract to any receiver with Trade
method, the ledger is not affected by that. Target tokens come back with
settle action message:

	{"action":{"type":"settle"}}

# Contract notifications

Deposit notification. This notification is produced when principal tokens are
credited to the account.

	Deposit:
	  - name: account
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: total
	    type: Integer

PreInform notification. This notification is produced when a part of the
deposit becomes eligible for withdrawal.

	PreInform:
	  - name: account
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: preinformed
	    type: Integer

Withdraw notification. This notification is produced when tokens are
transferred back to the account.

	Withdraw:
	  - name: account
	    type: Hash160
	  - name: asset
	    type: Hash160
	  - name: amount
	    type: Integer

Trade notification. This notification is produced when committee relays
tokens to a third party.

	Trade:
	  - name: receiver
	    type: Hash160
	  - name: asset
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: message
	    type: String
*/
package custody

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'c' -> std.Serialize(LedgerConfig)
   principal and target tokens, epoch duration and start, written once on deploy
 - i<interop.Hash160> -> std.Serialize(Info)
   ledger records of all accounts that have ever deposited

# Ledger
Records are never deleted, an account that withdrew everything keeps a record
with zero amounts.
*/
