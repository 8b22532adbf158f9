package contracts

import (
	"context"
	"time"
)

// LockerService is a redis-backed TTL lock. It is contention hygiene around
// reservation transitions; correctness rests on the conditional store
// updates, not on holding the lock.
type LockerService interface {
	TryLock(ctx context.Context, key string, expiration time.Duration) (acquired bool, lockValue string, err error)
	Unlock(ctx context.Context, key, lockValue string) error
}
