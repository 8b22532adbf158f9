package contracts

import "context"

// SlotLedger is the single source of truth for taken slots. TryClaim must be
// atomic per (resourceID, date, timeLabel): of any number of concurrent
// claims for one triple, exactly one succeeds. Release is idempotent.
type SlotLedger interface {
	// TryClaim returns nil on a successful claim, ErrSlotUnavailable when
	// the slot is already taken, and ErrSlotLedgerUnavailable when the
	// store cannot be reached (fails closed, nothing is claimed).
	TryClaim(ctx context.Context, resourceID, date, timeLabel string) error
	Release(ctx context.Context, resourceID, date, timeLabel string) error
	ListTaken(ctx context.Context, resourceID string) (map[string][]string, error)
}
