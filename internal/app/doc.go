// Package app is the composition root of Tesserama.
//
// Run loads the configuration and preferences, opens the log file, opens the
// card file named on the command line (or the most recent one) and hands the
// document to the terminal UI:
//
//	Run()
//	  ├─> config.Load()      ~/.config/tesserama/config.toml
//	  ├─> OpenLogFile()      slog text records, never the terminal
//	  ├─> prefs.Load()       theme and recent files
//	  ├─> document.Open()    card file, or an empty document
//	  └─> ui.Run()           blocks until quit
//
// Search, Insert and Export are the headless commands. They work on the same
// Document type and save through the same atomic writer as the UI.
package app
