// Package inbound converts HTTP deliveries into core.InboundRequest values
// and writes core.InboundResult values back out. Bodies are read once,
// bounded, and decoded as JSON when possible; they are never verified.
package inbound
