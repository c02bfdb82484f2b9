package routing

import "github.com/btcsuite/btclog"

// log is the package-wide logger for the routing engine. It is disabled
// until UseLogger wires in a real backend.
var log = btclog.Disabled

// UseLogger sets the logger used by the routing package.
func UseLogger(logger btclog.Logger) {
	log = logger
}
