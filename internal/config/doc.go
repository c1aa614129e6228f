// Package config loads roster's TOML configuration and runtime preferences.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/roster/config.toml
//  3. If the config file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing or blank, use defaults per field
//
// # TOML Format
//
//	[api]
//	base_url = "https://moringa-school-portal-backend.onrender.com"
//	timeout = "10s"
//
//	[store]
//	backend = "file"        # file, redis or memory
//	path = "~/.local/share/roster/students.json"
//	redis_addr = "127.0.0.1:6379"
//	key = "students"
//
//	[log]
//	file = "~/.local/state/roster/roster.log"
//	level = "info"
//
//	[ui]
//	theme = "Nightfox"
//
// Every field is optional. Values are trimmed and paths get tilde expansion.
// The access token is deliberately absent; see package credentials.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist, TOML syntax errors, a timeout that is not a positive
// duration, and an unknown store backend. Missing files are not an error.
//
// # Preferences
//
// Prefs live in a separate file (~/.config/roster/prefs.toml) because the
// TUI rewrites it when the theme is cycled. LoadPrefs never fails; a missing
// or broken file yields the configured theme.
package config
