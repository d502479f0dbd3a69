package services

import (
	"context"
	"time"

	"github.com/urlcut/urlcut-backend/pkg/logger"

	"github.com/urlcut/urlcut-backend/internal/database"
	"github.com/urlcut/urlcut-backend/internal/store"
)

const (
	reaperLockName = "cleanup_mappings"
	reaperLockTTL  = 2 * time.Minute

	// notifyTimeout bounds each per-owner dispatch so one slow mail server
	// cannot stall the remaining groups.
	notifyTimeout = 15 * time.Second
)

// ownerGroup collects one owner's expired mappings for a single notification.
type ownerGroup struct {
	recipient Recipient
	mappings  []ExpiredMapping
}

// ExpiryReaper purges expired mappings and notifies their owners,
// one message per owner. Ownerless mappings are deleted silently.
type ExpiryReaper struct {
	Store      *store.MappingStore
	Dispatcher Dispatcher
}

func NewExpiryReaper(s *store.MappingStore, d Dispatcher) *ExpiryReaper {
	return &ExpiryReaper{Store: s, Dispatcher: d}
}

// Run executes one cleanup pass and returns the number of deleted mappings.
// Scan and delete failures abort the run; notification failures are logged
// per owner group and never undo the deletion.
func (r *ExpiryReaper) Run(ctx context.Context) (int64, error) {
	if !database.AcquireLock(reaperLockName, reaperLockTTL) {
		logger.Warn().Msg("Cleanup already running elsewhere, skipping this tick")
		return 0, nil
	}
	defer database.ReleaseLock(reaperLockName)

	expired, err := r.Store.ListExpired()
	if err != nil {
		return 0, err
	}
	if len(expired) == 0 {
		return 0, nil
	}

	// Snapshot the data needed for the notifications before deleting;
	// the rows will not exist afterwards.
	keys := make([]string, 0, len(expired))
	groups := make(map[string]*ownerGroup)
	for _, m := range expired {
		keys = append(keys, m.Key)
		if m.UserID == nil || m.User == nil {
			// Guest mappings expire without notification.
			continue
		}
		g, ok := groups[*m.UserID]
		if !ok {
			g = &ownerGroup{recipient: Recipient{Name: m.User.Name, Email: m.User.Email}}
			groups[*m.UserID] = g
		}
		g.mappings = append(g.mappings, ExpiredMapping{
			Key:    m.Key,
			Target: m.Target,
			Visits: m.Visits,
		})
	}

	deleted, err := r.Store.DeleteMany(keys)
	if err != nil {
		return 0, err
	}
	logger.Info().Int64("count", deleted).Msg("Deleted expired mappings")

	if err := database.InvalidateTargets(keys); err != nil {
		logger.Warn().Err(err).Msg("Failed to invalidate resolve cache for deleted keys")
	}

	for userID, group := range groups {
		sendCtx, cancel := context.WithTimeout(ctx, notifyTimeout)
		err := r.Dispatcher.Send(sendCtx, group.recipient, group.mappings)
		cancel()
		if err != nil {
			// Isolated per group: deletion stands and the remaining owners
			// still get their notifications.
			logger.Error().Err(err).Str("user_id", userID).Msg("Failed to send expiry notification")
		}
	}

	return deleted, nil
}
