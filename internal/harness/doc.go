// Package harness runs scheduling scenarios against the editor and
// compares their journaled traces with golden files.
//
// # Scenario Format
//
//	name: reschedule
//	description: "Move an order into a gap"
//	today: 2024-03-01
//	work_centers:
//	  - {id: wc-1, name: Extrusion}
//	work_orders:
//	  - {id: wo-1, name: Frame, work_center: wc-1, status: open, start: today, end: +5d}
//	steps:
//	  - action: create
//	    work_center: wc-1
//	    name: Paint
//	    status: open
//	    start: +3d
//	    end: +8d
//	    expect: {error: OVERLAP}
//	  - action: edit
//	    id: wo-1
//	    end: +3d
//	assertions:
//	  - {type: order_count, count: 1}
//	  - {type: rejected, code: OVERLAP, count: 1}
//
// A scenario may name a seed file (seed: ../seeds/plant.yaml) instead of
// listing work centers and orders inline.
//
// A create step with at_x (and optionally zoom) is a click on an empty grid
// cell: the start date is the day under x in the initial view, the end is a
// week later and the status is open, unless the step sets those fields.
//
// # Assertion Types
//
//   - order_count: number of orders, optionally on one work center
//   - order_exists: an order exists, optionally with given fields
//   - order_absent: an order does not exist
//   - overlap: the conflicts of a candidate interval
//   - event_count: number of journaled notifications of a type
//   - rejected: number of rejections with a code
//
// # Deterministic Testing
//
// Every run uses a fresh in-memory journal, sequential work order ids and
// a fixed today, so the trace of a scenario is reproducible byte for byte.
package harness
