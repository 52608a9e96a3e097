// Package store holds the in-memory scheduling state: work centers, work
// orders, and the observers that re-render when orders change.
//
// The store exposes reads, three mutations (Create, Update, Delete) and the
// overlap check used when a submission is validated:
//
//   - Reads return copies; callers can never alias the store's state.
//   - Mutations never fail. Update and Delete on an unknown id are silent
//     no-ops, and no validation is performed; the editor package does that.
//   - HasOverlap uses the half-open test newStart < end && newEnd > start,
//     so orders that merely touch do not conflict.
//
// # Notification
//
// Every state change publishes an Event carrying a fresh snapshot of the
// work orders to all observers, synchronously, before the mutating call
// returns. A mutation issued by an observer while an event is being
// delivered is queued and applied once that delivery finishes, still
// before the outermost mutating call returns. Observers therefore always
// see events in the order the changes were applied.
//
// # Thread-safety
//
// A Store is owned by a single goroutine (the UI or CLI loop). It performs
// no locking and must not be shared between goroutines without external
// synchronisation.
package store
