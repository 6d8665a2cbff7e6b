package cvode

import "github.com/rs/zerolog"

// Teardown failures and callback panics have no recovery path, so they are
// logged rather than escalated. Logging is off unless the host wires it up.
var logger = zerolog.Nop()

// SetLogger routes the package's diagnostic output to l.
func SetLogger(l zerolog.Logger) {
	logger = l
}
