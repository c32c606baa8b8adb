// Package transport holds the HTTP adapter the Teamwork API client sends
// requests through.
package transport
