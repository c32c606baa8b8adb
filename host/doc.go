// Package host is a small automation runtime for connectors. It routes HTTP
// delegate paths through echo and binds event ids to go-command handlers.
//
// Any runtime that implements core.Host can stand in for it.
package host
