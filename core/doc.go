// Package core contains the Teamwork connector: the subscription registry,
// webhook dispatch, configuration, and the contracts a host runtime and an
// API client must satisfy. Transport and host packages depend on core, never
// the other way around.
package core
