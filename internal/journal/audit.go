package journal

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/gantry/internal/calendar"
	"github.com/roach88/gantry/internal/model"
)

// Conflict is a pair of work orders on one work center whose intervals
// overlap. A sorts before B by id.
type Conflict struct {
	WorkCenterID string        `json:"work_center_id"`
	A            string        `json:"a"`
	B            string        `json:"b"`
	From         calendar.Date `json:"from"`
	To           calendar.Date `json:"to"`
}

// CenterLoad is the booking of one work center within a window.
type CenterLoad struct {
	WorkCenterID string `json:"work_center_id"`
	Name         string `json:"name"`
	Orders       int    `json:"orders"`
	Days         int    `json:"days"`
}

// LoadSnapshot replaces the audited schedule with centers and orders.
// Positions follow slice order.
func (j *Journal) LoadSnapshot(ctx context.Context, centers []model.WorkCenter, orders []model.WorkOrder) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{"DELETE FROM work_orders", "DELETE FROM work_centers"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("load snapshot: %w", err)
		}
	}

	if err := insertCenters(ctx, tx, centers); err != nil {
		return err
	}
	if err := insertOrders(ctx, tx, orders); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	return nil
}

func insertCenters(ctx context.Context, tx *sql.Tx, centers []model.WorkCenter) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO work_centers (id, name, position) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name
	`)
	if err != nil {
		return fmt.Errorf("prepare work center insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range centers {
		if _, err := stmt.ExecContext(ctx, c.ID, c.Name, i); err != nil {
			return fmt.Errorf("insert work center %s: %w", c.ID, err)
		}
	}
	return nil
}

func insertOrders(ctx context.Context, tx *sql.Tx, orders []model.WorkOrder) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO work_orders (id, work_center_id, name, status, start_date, end_date, position)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare work order insert: %w", err)
	}
	defer stmt.Close()

	for i, o := range orders {
		_, err := stmt.ExecContext(ctx,
			o.ID,
			o.WorkCenterID,
			o.Name,
			string(o.Status),
			o.StartDate.String(),
			o.EndDate.String(),
			i,
		)
		if err != nil {
			return fmt.Errorf("insert work order %s: %w", o.ID, err)
		}
	}
	return nil
}

// Overlaps returns every pair of loaded orders that share a work center
// and overlap on the half-open interval [start, end). Orders that merely
// touch are not reported.
func (j *Journal) Overlaps(ctx context.Context) ([]Conflict, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT a.work_center_id, a.id, b.id,
		       MAX(a.start_date, b.start_date),
		       MIN(a.end_date, b.end_date)
		FROM work_orders a
		JOIN work_orders b
		  ON a.work_center_id = b.work_center_id
		 AND a.id < b.id
		WHERE a.start_date < b.end_date
		  AND a.end_date > b.start_date
		ORDER BY a.work_center_id COLLATE BINARY ASC, a.id COLLATE BINARY ASC, b.id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query overlaps: %w", err)
	}
	defer rows.Close()

	conflicts := []Conflict{}
	for rows.Next() {
		var (
			c        Conflict
			from, to string
		)
		if err := rows.Scan(&c.WorkCenterID, &c.A, &c.B, &from, &to); err != nil {
			return nil, fmt.Errorf("scan overlap: %w", err)
		}
		if c.From, err = calendar.Parse(from); err != nil {
			return nil, fmt.Errorf("overlap %s/%s: %w", c.A, c.B, err)
		}
		if c.To, err = calendar.Parse(to); err != nil {
			return nil, fmt.Errorf("overlap %s/%s: %w", c.A, c.B, err)
		}
		conflicts = append(conflicts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate overlaps: %w", err)
	}
	return conflicts, nil
}

// Load returns, for every loaded work center in position order, how many
// orders intersect [start, end) and how many of their days fall inside it.
func (j *Journal) Load(ctx context.Context, start, end calendar.Date) ([]CenterLoad, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT c.id, c.name, COUNT(o.id),
		       COALESCE(SUM(CAST(ROUND(julianday(MIN(o.end_date, ?2)) - julianday(MAX(o.start_date, ?1))) AS INTEGER)), 0)
		FROM work_centers c
		LEFT JOIN work_orders o
		  ON o.work_center_id = c.id
		 AND o.start_date < ?2
		 AND o.end_date > ?1
		GROUP BY c.id, c.name, c.position
		ORDER BY c.position ASC
	`, start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("query load: %w", err)
	}
	defer rows.Close()

	loads := []CenterLoad{}
	for rows.Next() {
		var l CenterLoad
		if err := rows.Scan(&l.WorkCenterID, &l.Name, &l.Orders, &l.Days); err != nil {
			return nil, fmt.Errorf("scan load: %w", err)
		}
		loads = append(loads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate load: %w", err)
	}
	return loads, nil
}
