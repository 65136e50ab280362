package capacity

import (
	"context"

	"github.com/google/uuid"

	shared "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/domain"
)

// Cache is a read-through cache for day snapshots. Implementations must be
// safe to fail: a miss or an error only means the snapshot is recomputed.
type Cache interface {
	// Get returns the cached snapshot, or ok=false on a miss or any error.
	Get(ctx context.Context, premisesID uuid.UUID, day shared.Date) (PremisesDayCapacity, bool)

	// Set stores the snapshot. Errors are swallowed; caching is advisory.
	Set(ctx context.Context, snapshot PremisesDayCapacity)
}

// NoopCache disables caching.
type NoopCache struct{}

func (NoopCache) Get(ctx context.Context, premisesID uuid.UUID, day shared.Date) (PremisesDayCapacity, bool) {
	return PremisesDayCapacity{}, false
}

func (NoopCache) Set(ctx context.Context, snapshot PremisesDayCapacity) {}
