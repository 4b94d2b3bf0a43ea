/*
Package epoch implements the epoch gate of the Custody contract.

Time is split into epochs of equal duration starting from a fixed moment.
Pre-informing is allowed only while the next epoch boundary is at least
QuietPeriod away, so the last three days of every epoch are closed.

The package has no dependencies and is compiled both into the contract and
into off-chain tools, all values are milliseconds.
*/
package epoch

const (
	// QuietPeriod is the time before an epoch boundary during which
	// pre-informing is closed.
	QuietPeriod = 3 * 24 * 60 * 60 * 1000

	// ErrNonPositiveDuration is thrown when epoch duration is zero or negative.
	ErrNonPositiveDuration = "epoch duration must be positive"
	// ErrNotStarted is thrown when the current time precedes epoch start.
	ErrNotStarted = "epoch schedule has not started"
	// ErrBoundaryOverflow is thrown when the next boundary is not representable.
	ErrBoundaryOverflow = "epoch boundary overflow"

	maxTime = 1<<63 - 1
)

// NextBoundary returns the first epoch boundary strictly after now.
func NextBoundary(now, start, duration int) int {
	if duration <= 0 {
		panic(ErrNonPositiveDuration)
	}
	if now < start {
		panic(ErrNotStarted)
	}

	n := (now-start)/duration + 1
	if n > (maxTime-start)/duration {
		panic(ErrBoundaryOverflow)
	}

	return n*duration + start
}

// ToNextBoundary returns the time left until the next epoch boundary.
func ToNextBoundary(now, start, duration int) int {
	return NextBoundary(now, start, duration) - now
}

// IsPreinformable checks whether the next boundary is at least quiet away.
func IsPreinformable(now, start, duration, quiet int) bool {
	return ToNextBoundary(now, start, duration) >= quiet
}
