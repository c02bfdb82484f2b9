package lnwallet

import "github.com/btcsuite/btclog"

// log is the package-wide logger for the channel-state and commitment
// construction primitives. Disabled until UseLogger wires in a backend.
var log = btclog.Disabled

// UseLogger sets the logger used by the lnwallet package.
func UseLogger(logger btclog.Logger) {
	log = logger
}
