// Package records holds the in-memory model of a membership card file.
//
// # Overview
//
// A card file is a flat list of records. Every record has the same six
// fields, addressed by Column:
//
//	Date, Number, People, Signature, Flags, ID
//
// Store keeps the records in file order and hands out a Handle per row. A
// handle keeps pointing at its row for as long as the store lives, no matter
// how many rows are appended after it.
//
// View projects a store through a Predicate. The grid in the UI shows view
// positions, while every edit targets the store, so ToStoreHandle translates
// the former into the latter:
//
//	view position 0 ──┐
//	view position 1 ──┼─> ToStoreHandle ─> Handle ─> Store.SetField
//	view position 2 ──┘
//
// Membership of a view only changes on Refresh. Positions obtained before the
// predicate changed must not be translated until the view has been refreshed.
//
// # Blank records
//
// A record whose People field is empty is considered blank. It stays visible
// and editable, but it is dropped the next time the file is saved. Clearing
// the People cell is how a row gets deleted.
//
// # Concurrency
//
// Nothing in this package is safe for concurrent use. A store and its views
// belong to one document and are driven from the UI event loop.
package records
