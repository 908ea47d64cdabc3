package book

import "github.com/rs/zerolog/log"

// invariant aborts the process when cond is false. It guards internal
// bookkeeping that a correct caller can never violate through the public
// API (index/queue desync, a level holding an order for the wrong side) —
// these are programming errors, not user-observable failures, so they are
// logged at fatal level rather than returned as an error.
func invariant(cond bool, msg string) {
	if !cond {
		log.Fatal().Msg("book: invariant violation: " + msg)
	}
}
