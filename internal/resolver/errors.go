// Package resolver drives the iterative referral walk from the root name
// server down to an authoritative answer.
package resolver

import "errors"

var (
	// ErrUpstreamTimeout is returned when a name server does not reply
	// within the per-attempt deadline.
	ErrUpstreamTimeout = errors.New("resolver: upstream timeout")

	// ErrReferralLoop is returned when the iteration bound on a referral
	// chain is exceeded, or when a response offers no way forward (no
	// glue, no authority section, or a dead-end NS lookup).
	ErrReferralLoop = errors.New("resolver: referral chain did not terminate")
)
