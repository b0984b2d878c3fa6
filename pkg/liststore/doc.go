// Package liststore provides typed list stores for observable list views.
//
// A [ListStore] wraps a [native.ListStore] and restores the element type
// that the native store erases. Elements are upcast to untyped objects on
// the way in and narrowed back with a checked type assertion on the way
// out, so a read never returns a value of the wrong type.
//
// Mutations are either direct (Insert, Remove, Extend, ReplaceAll) or
// expressed as a [Diff]:
//
//	rows := liststore.New[*Row]()
//	rows.Update(liststore.Set(a, b, c))
//	rows.Update(liststore.Append(d))
//	rows.Update(liststore.MoveUp[*Row](1)) // b, a, c, d
//
// Extend, ReplaceAll and the moves each apply a single splice, so list
// views observing the store see one change per call.
//
// # Ownership
//
// Copies made with [ListStore.Clone] share the same native store. The
// native store lives until every copy has been released. A
// [WeakListStore] obtained with [ListStore.Downgrade] does not keep the
// store alive, which makes it suitable for callbacks stored inside the
// store's owner:
//
//	weak := rows.Downgrade()
//	button.OnTap = func() {
//	    if rows, ok := weak.Upgrade(); ok {
//	        defer rows.Release()
//	        rows.Update(liststore.MoveDown[*Row](0))
//	    }
//	}
//
// # Errors
//
// Contract violations are reported as [*errors.ListError]. Insert, Remove
// and At return them. Get, All, the unchecked moves and Update panic with
// them, since their callers have already guaranteed the indices are valid.
//
// ListStore is NOT thread-safe and must only be used from the UI thread.
package liststore
