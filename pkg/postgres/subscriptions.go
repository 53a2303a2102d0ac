package postgres

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/jakechorley/relief-camps/pkg/db"
)

// Notification channels fed by the triggers in migrations/002_change_notify.sql
const (
	CampChannel          = "camp_changes"
	CampSelectionChannel = "camp_selection_changes"
)

// SubscribeToCamps registers a handler for camp changes
func (d *DB) SubscribeToCamps(ctx context.Context, handler db.ChangeHandler) (db.Unsubscribe, error) {
	return d.listen(ctx, CampChannel, handler)
}

// SubscribeToCampSelections registers a handler for camp selection changes
func (d *DB) SubscribeToCampSelections(ctx context.Context, handler db.ChangeHandler) (db.Unsubscribe, error) {
	return d.listen(ctx, CampSelectionChannel, handler)
}

// listen takes a connection out of the pool for the lifetime of the
// subscription and delivers each notification to handler on its own goroutine.
// The subscription ends on unsubscribe, when ctx is done or when the DB is closed.
func (d *DB) listen(ctx context.Context, channel string, handler db.ChangeHandler) (db.Unsubscribe, error) {
	pooled, err := d.pool.Acquire(ctx)
	if err != nil {
		return nil, db.BackendError("failed to acquire listener connection", err)
	}
	conn := pooled.Hijack()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{channel}.Sanitize()); err != nil {
		conn.Close(context.Background())
		return nil, mapError("failed to listen on "+channel, err)
	}

	listenCtx, cancel := context.WithCancel(ctx)
	stopOnClose := context.AfterFunc(d.closed, cancel)

	logger := d.logger.With(zap.String("channel", channel))
	logger.Debug("Subscription started")

	go func() {
		defer stopOnClose()
		defer conn.Close(context.Background())

		for {
			n, err := conn.WaitForNotification(listenCtx)
			if err != nil {
				if listenCtx.Err() == nil {
					logger.Warn("Subscription ended", zap.Error(err))
				} else {
					logger.Debug("Subscription closed")
				}
				return
			}

			var ev db.ChangeEvent
			if err := json.Unmarshal([]byte(n.Payload), &ev); err != nil {
				logger.Warn("Skipping malformed notification", zap.String("payload", n.Payload), zap.Error(err))
				continue
			}
			handler(ev)
		}
	}()

	var once sync.Once
	return func() { once.Do(cancel) }, nil
}
