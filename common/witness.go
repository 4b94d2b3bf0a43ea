package common

import "github.com/nspcc-dev/neo-go/pkg/interop/runtime"

const (
	// ErrWitnessFailed appears when the method must be called on behalf of
	// the account it operates on but was not.
	ErrWitnessFailed = "witness check failed"
	// ErrOperatorWitnessFailed appears when the method must be called by the
	// committee but was not.
	ErrOperatorWitnessFailed = "operator witness check failed"
)

// CheckWitness checks witness of the passed account.
// It panics with ErrWitnessFailed message on fail.
func CheckWitness(account []byte) {
	checkWitnessWithPanic(account, ErrWitnessFailed)
}

// CheckOperatorWitness checks committee witness.
// It panics with ErrOperatorWitnessFailed message on fail.
func CheckOperatorWitness() {
	checkWitnessWithPanic(CommitteeAddress(), ErrOperatorWitnessFailed)
}

func checkWitnessWithPanic(caller []byte, panicMsg string) {
	if !runtime.CheckWitness(caller) {
		panic(panicMsg)
	}
}
