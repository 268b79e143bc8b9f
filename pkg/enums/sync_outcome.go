package enums

// SyncOutcome describes how a background cart resync ended. Modelling the
// outcome explicitly lets callers and tests assert on skipped or swallowed
// syncs instead of guessing from the absence of an error.
type SyncOutcome string

const (
	SyncOutcomeSynced         SyncOutcome = "synced"
	SyncOutcomeCoalesced      SyncOutcome = "coalesced"
	SyncOutcomeCancelled      SyncOutcome = "cancelled"
	SyncOutcomeThrottled      SyncOutcome = "throttled"
	SyncOutcomeSkippedNoToken SyncOutcome = "skipped_no_token"
	SyncOutcomeStaleDiscarded SyncOutcome = "stale_discarded"
	SyncOutcomeRateLimited    SyncOutcome = "rate_limited"
	SyncOutcomeAuthExpired    SyncOutcome = "auth_expired"
	SyncOutcomeFailed         SyncOutcome = "failed"
)

// String implements fmt.Stringer.
func (s SyncOutcome) String() string {
	return string(s)
}

// Applied reports whether the sync landed fresh server state in the store.
func (s SyncOutcome) Applied() bool {
	return s == SyncOutcomeSynced
}
