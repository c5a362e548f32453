package wizard

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"trip-guide/internal/client"
)

// RevertRecorder counts reorders rolled back after a failed save.
type RevertRecorder interface {
	RecordReorderRevert()
}

// UpdatesBoard holds a trip's updates in display order and applies
// reorders optimistically.
type UpdatesBoard struct {
	mu       sync.Mutex
	tripID   int64
	items    []client.TripUpdate
	src      UpdatesSource
	logger   *zap.Logger
	recorder RevertRecorder
}

func NewUpdatesBoard(tripID int64, src UpdatesSource, logger *zap.Logger, recorder RevertRecorder) *UpdatesBoard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UpdatesBoard{tripID: tripID, src: src, logger: logger, recorder: recorder}
}

// Load replaces the local list with the CMS list.
func (b *UpdatesBoard) Load(ctx context.Context) error {
	items, err := b.src.Updates(ctx, b.tripID)
	if err != nil {
		return fmt.Errorf("load updates for trip %d: %w", b.tripID, err)
	}
	b.mu.Lock()
	b.items = items
	b.mu.Unlock()
	return nil
}

// Items returns a copy of the current order.
func (b *UpdatesBoard) Items() []client.TripUpdate {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]client.TripUpdate(nil), b.items...)
}

// Move shifts the update at position from to position to and sends the full
// order to the CMS. When the CMS rejects it the local list is replaced by a
// fresh fetch, or restored if that fetch fails too, and the CMS error is
// returned unchanged.
func (b *UpdatesBoard) Move(ctx context.Context, from, to int) error {
	b.mu.Lock()
	n := len(b.items)
	if from < 0 || from >= n || to < 0 || to >= n {
		b.mu.Unlock()
		return fmt.Errorf("%w: move %d to %d of %d", ErrOutOfRange, from, to, n)
	}
	previous := append([]client.TripUpdate(nil), b.items...)
	b.items = moveItem(b.items, from, to)
	order := make([]client.UpdateOrder, len(b.items))
	for i := range b.items {
		b.items[i].OrderIndex = i
		order[i] = client.UpdateOrder{ID: b.items[i].ID, OrderIndex: i}
	}
	b.mu.Unlock()

	err := b.src.ReorderUpdates(ctx, b.tripID, order)
	if err == nil {
		return nil
	}

	b.logger.Warn("reorder rejected, reverting", zap.Int64("trip_id", b.tripID), zap.Error(err))
	if b.recorder != nil {
		b.recorder.RecordReorderRevert()
	}
	fresh, fetchErr := b.src.Updates(ctx, b.tripID)
	b.mu.Lock()
	if fetchErr != nil {
		b.logger.Warn("refetch after failed reorder failed", zap.Int64("trip_id", b.tripID), zap.Error(fetchErr))
		b.items = previous
	} else {
		b.items = fresh
	}
	b.mu.Unlock()
	return err
}

// Delete removes an update. The list refresh afterwards is best effort: a
// failed refresh is logged and the update is dropped locally instead.
func (b *UpdatesBoard) Delete(ctx context.Context, id int64) error {
	if err := b.src.DeleteUpdate(ctx, id); err != nil {
		return err
	}
	if err := b.Load(ctx); err != nil {
		b.logger.Warn("refresh after delete failed", zap.Int64("update_id", id), zap.Error(err))
		b.mu.Lock()
		kept := b.items[:0:0]
		for _, u := range b.items {
			if u.ID != id {
				kept = append(kept, u)
			}
		}
		b.items = kept
		b.mu.Unlock()
	}
	return nil
}

func moveItem(items []client.TripUpdate, from, to int) []client.TripUpdate {
	out := make([]client.TripUpdate, 0, len(items))
	moved := items[from]
	for i, it := range items {
		if i != from {
			out = append(out, it)
		}
	}
	out = append(out[:to], append([]client.TripUpdate{moved}, out[to:]...)...)
	return out
}
