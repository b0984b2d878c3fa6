// Package native provides the untyped observable list store that typed
// list stores are built on.
//
// A [ListStore] holds an ordered sequence of untyped objects that must all
// be assignable to the item type given at construction. Every mutation is
// expressed as a splice (remove N items at a position, insert M items in
// their place) and produces exactly one [ItemsChanged] notification, so
// observers such as list views never see a partially applied change.
//
// Stores are reference counted. [New] returns a store holding one
// reference; [ListStore.Ref] adds an owner and [ListStore.Unref] drops one.
// When the last reference is dropped the store is finalized: its items and
// listeners are released and any further use panics. [ListStore.Downgrade]
// returns a [WeakRef] that does not keep the store alive and can be
// upgraded back to a strong reference only while the store is alive.
//
// ListStore is NOT thread-safe. Like the rest of the UI state it must only
// be touched from the UI thread.
package native
