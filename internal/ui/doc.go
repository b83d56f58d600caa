// Package ui provides the Bubble Tea terminal interface for Tesserama.
//
// # Layout
//
// The screen is a single editable grid of membership cards:
//
//   - Header: file name (prefixed with '*' while unsaved), its directory,
//     MODIFIED and SEARCH badges and the card count
//   - Column titles: No., People, Signature, ID, Flags, Date
//   - Rows: the document's filtered view, one card per line
//   - Search bar: shown while searching
//   - Status line: the last message, or key hints
//
// # State
//
// Model is a value type; every Update returns the next Model. The Document it
// edits is shared by pointer, as are the dialog and the file watcher, because
// they hold state that must survive the copies.
//
// # Editing
//
// Cell edits go through document.UpdateColumn with the cursor's view
// position, so the grid never touches the record store directly. Adding a
// card is disabled while the search bar is open; after adding, the editor
// opens on the new card's People cell.
//
// # Dialogs
//
// Confirmation and file path prompts are huh forms embedded in the model.
// Leaving a document with unsaved changes (quit, open, reload) asks first.
//
// # External changes
//
// When watching is enabled, an fsnotify watch on the open file posts a
// message to the program. The checksum of the file is compared with the one
// recorded at the last load or save, so the grid's own saves stay silent.
package ui
