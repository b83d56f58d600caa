// Package config loads Tesserama's application settings.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/tesserama/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// The CLI also accepts the path through the TESSERAMA_CONFIG environment
// variable.
//
// # TOML Format
//
//	log_file = "~/.local/state/tesserama/tesserama.log"
//	log_level = "info"        # debug, info, warn or error
//	date_format = "02/01/06"  # Go time layout for new rows (DD/MM/YY)
//	watch = true              # warn when the open file changes on disk
//
// Every field is optional. Tilde expansion is performed on log_file.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors
//   - Validation failures, such as an unknown log level
package config
