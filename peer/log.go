package peer

import "github.com/btcsuite/btclog"

// log is the package-wide logger for the channel protocol engine. It is
// disabled until UseLogger wires in a real backend.
var log = btclog.Disabled

// UseLogger sets the logger used by the peer package.
func UseLogger(logger btclog.Logger) {
	log = logger
}
