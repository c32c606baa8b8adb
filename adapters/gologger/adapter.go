// Package gologger resolves go-logger loggers for the Teamwork packages.
package gologger

import glog "github.com/goliatone/go-logger/glog"

// Resolve uses deterministic precedence provider > logger > nop.
func Resolve(name string, provider glog.LoggerProvider, logger glog.Logger) (glog.LoggerProvider, glog.Logger) {
	return glog.Resolve(name, provider, logger)
}

// Named resolves and returns a logger for a dotted sub-component name such
// as "teamwork.host". The provider is asked first.
func Named(component string, provider glog.LoggerProvider, logger glog.Logger) glog.Logger {
	resolvedProvider, resolved := Resolve(component, provider, logger)
	if resolvedProvider != nil {
		if named := resolvedProvider.GetLogger(component); named != nil {
			return named
		}
	}
	return glog.Ensure(resolved)
}
