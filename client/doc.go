// Package client provides the Teamwork Projects API handle returned by the
// connector's SDK accessor. It authenticates with the account API key over
// HTTP basic auth and resolves paths against the tenant subdomain.
package client
