// Package document ties one card file to the state the UI edits.
//
// A Document owns a records.Store, the records.View the grid displays, the
// search.Engine driving that view and the unsaved-changes flag. Nothing else
// holds references to the store, so every mutation goes through a Document
// method and the dirty flag can't drift from the data.
//
// # Dirty flag
//
//	Load        → clean
//	UpdateColumn with new text, SetField, InsertRow → dirty
//	UpdateColumn with identical text → unchanged
//	Save / SaveAs → clean
//
// # Edits through the filtered view
//
// The grid addresses rows by view position. UpdateColumn translates that
// position with View.ToStoreHandle before touching the store. Edits don't
// refresh the view: a row stays on screen until the needle changes, even when
// the edit means it no longer matches.
//
// # External changes
//
// Load and Save remember a checksum of the bytes read or written.
// ChangedOnDisk compares it against the current file so a watcher can tell
// the document's own saves apart from edits made by other programs.
package document
