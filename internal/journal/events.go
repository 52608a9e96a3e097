package journal

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/roach88/gantry/internal/model"
	"github.com/roach88/gantry/internal/store"
)

// Record is one journaled store notification.
type Record struct {
	Seq         int64             `json:"seq"`
	Type        store.EventType   `json:"type"`
	WorkOrderID string            `json:"work_order_id,omitempty"`
	OrderCount  int               `json:"order_count"`
	WorkOrders  []model.WorkOrder `json:"work_orders"`
}

// Append writes ev as the next event and returns its sequence number.
// The snapshot is stored as canonical JSON.
func (j *Journal) Append(ctx context.Context, ev store.Event) (int64, error) {
	orders := ev.WorkOrders
	if orders == nil {
		orders = []model.WorkOrder{}
	}
	snapshot, err := MarshalCanonical(orders)
	if err != nil {
		return 0, fmt.Errorf("append event: %w", err)
	}

	seq := j.seq + 1
	_, err = j.db.ExecContext(ctx, `
		INSERT INTO events (seq, type, work_order_id, order_count, snapshot)
		VALUES (?, ?, ?, ?, ?)
	`,
		seq,
		string(ev.Type),
		ev.WorkOrderID,
		len(orders),
		string(snapshot),
	)
	if err != nil {
		return 0, fmt.Errorf("append event: %w", err)
	}
	j.seq = seq

	j.logger.Debug("journaled event", "seq", seq, "type", string(ev.Type), "work_order", ev.WorkOrderID)
	return seq, nil
}

// Events returns every journaled event ordered by seq.
// Returns an empty slice (not nil) for an empty journal.
func (j *Journal) Events(ctx context.Context) ([]Record, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT seq, type, work_order_id, order_count, snapshot
		FROM events
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var (
			r        Record
			typ      string
			snapshot string
		)
		if err := rows.Scan(&r.Seq, &typ, &r.WorkOrderID, &r.OrderCount, &snapshot); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		r.Type = store.EventType(typ)
		if err := json.Unmarshal([]byte(snapshot), &r.WorkOrders); err != nil {
			return nil, fmt.Errorf("decode snapshot for seq %d: %w", r.Seq, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return records, nil
}

// CountEvents returns the number of journaled events, optionally limited
// to one event type ("" counts all).
func (j *Journal) CountEvents(ctx context.Context, typ store.EventType) (int, error) {
	var n int
	err := j.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM events WHERE ? = '' OR type = ?
	`, string(typ), string(typ)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

// Recorder journals every notification of one store.
//
// Store observers cannot return errors, so the first write failure is
// kept and reported by Err; later events are dropped.
type Recorder struct {
	journal     *Journal
	ctx         context.Context
	unsubscribe func()
	err         error
	recorded    int
}

// Record subscribes a Recorder to s. The store's current state is
// journaled immediately as a snapshot event.
func (j *Journal) Record(ctx context.Context, s *store.Store) *Recorder {
	r := &Recorder{journal: j, ctx: ctx}
	r.unsubscribe = s.Subscribe(r.observe)
	return r
}

func (r *Recorder) observe(ev store.Event) {
	if r.err != nil {
		return
	}
	if _, err := r.journal.Append(r.ctx, ev); err != nil {
		r.err = err
		r.journal.logger.Warn("journal write failed", "error", err)
		return
	}
	r.recorded++
}

// Err returns the first write error, if any.
func (r *Recorder) Err() error {
	return r.err
}

// Recorded returns how many events were written.
func (r *Recorder) Recorded() int {
	return r.recorded
}

// Stop unsubscribes from the store. Safe to call more than once.
func (r *Recorder) Stop() {
	r.unsubscribe()
}
