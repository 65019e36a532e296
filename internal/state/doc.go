// Package state holds the data shared between background work and the
// terminal browser.
//
// # Overview
//
// Two producers write to a Store:
//
//	list poller          deep-link dispatcher / detail lookups
//	     │                          │
//	UpdateList(list, err)     RecordLoad(result)
//	     └──────────┐   ┌───────────┘
//	                Store ── Snapshot() ──→ UI render loop
//
// The UI reads a Snapshot on every tick and never blocks the producers for
// longer than a copy.
//
// # Update Semantics
//
// UpdateList replaces the list on success and resets the failure counter.
// On error the previous list stays visible, the error is recorded and
// ConsecutiveFailures grows; two failures in a row mark the snapshot
// offline.
//
// RecordLoad follows the same rule for the loaded showroom: a failed load
// records LoadErr and keeps the previously loaded details.
//
// # Snapshots
//
// Snapshot copies every slice and wraps stored errors, so callers may keep
// or modify the result freely.
package state
