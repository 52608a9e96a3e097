// Package journal keeps an SQLite event log of store notifications and
// answers audit queries over a snapshot of the schedule.
//
// The journal is a diagnostic record, not persistence: the CLI and the
// scenario harness open it at ":memory:" and it is never read back to
// rebuild a store.
//
// Two kinds of data live in the database:
//
//   - events: one row per store notification, stamped with a logical
//     sequence number (never wall time, so two runs of one session number
//     their events alike; a reopened file continues after its last event)
//     and carrying a canonical JSON copy of the work order collection
//     after the change.
//   - work_centers / work_orders: a snapshot loaded with LoadSnapshot,
//     queried by Overlaps (standing conflicts) and Load (booked days per
//     work center within a window).
//
// Reads are ordered deterministically (seq ASC, or position ASC) so their
// output can be compared against golden files.
package journal
