// Package app is the composition root for roster.
//
// Open turns Options into Services:
//
//	config.Load()          read ~/.config/roster/config.toml (defaults if missing)
//	logging.New()          logrus logger writing to the log file
//	credentials.Resolve()  --token, ROSTER_ACCESS_TOKEN (+ .env), token file
//	localstore.Open()      file, redis or memory backend for the list
//	roster.New()           local collection, loaded once from the store
//	remote.NewClient()     students API client carrying the token
//
// Run opens Services, reads the saved theme and starts the TUI. The CLI
// commands in cmd/roster use Open directly.
//
// Only startup problems are returned as errors: a bad config file, an
// unusable log path, an unknown store backend or an invalid API URL. A
// missing token is logged and requests go out without credentials.
package app
