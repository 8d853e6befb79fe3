// Package obslog centralizes the ambient logging setup shared by the CLI,
// the LSP server, and the REPL: a single named commonlog logger, configured
// once at process startup.
package obslog

import "github.com/tliron/commonlog"

// Name is the logger name every tool in this module logs under.
const Name = "moveorder"

// Configure sets the global commonlog verbosity (see commonlog.Configure's
// level semantics: 0 disables logging, higher numbers are more verbose) and
// returns the named logger every component should use. Call this once, at
// process startup (cmd/moveorder does; cmd/moveorder-lsp calls
// commonlog.Configure directly) — it reconfigures
// commonlog's global state, which would clobber the caller's chosen
// verbosity if a library package called it again from an init path.
func Configure(verbosity int) commonlog.Logger {
	commonlog.Configure(verbosity, nil)
	return commonlog.GetLogger(Name)
}

// Logger fetches the shared named logger without touching global verbosity.
// Library packages (internal/reorder, internal/lsp) that want to log
// something use this instead of Configure, so they don't fight whatever
// verbosity the entry point already set.
func Logger() commonlog.Logger {
	return commonlog.GetLogger(Name)
}
