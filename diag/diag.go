// Package diag is the module's cold-path logging helper: a thin branch
// over log.Printf/log.Print so every error-drop site in the build and CLI
// tools reads the same way, without pulling a structured-logging
// dependency into a library whose hot path (queries) never logs at all.
package diag

import "log"

// DropError logs prefix and, if err is non-nil, err's message alongside
// it. Used for setup and build-time diagnostics, never on the query path.
func DropError(prefix string, err error) {
	if err != nil {
		log.Printf("%s: %v", prefix, err)
	} else {
		log.Print(prefix)
	}
}

// DropMessage logs a plain prefixed message, for state-change notices
// that aren't themselves errors (e.g. "rebuilding stale index").
func DropMessage(prefix, message string) {
	log.Printf("%s: %s", prefix, message)
}
