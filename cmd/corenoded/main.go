// Command corenoded parses the channel protocol engine's policy
// configuration from the command line. It does not run a network
// daemon; wiring a Session up to a transport is left to the caller
// embedding this core.
package main

import (
	"fmt"
	"os"

	flags "github.com/jessevdk/go-flags"

	"github.com/lnpayflow/corenode/peer"
)

func main() {
	cfg := peer.DefaultConfig()

	parser := flags.NewParser(cfg, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("corenode policy: rel-locktime-max=%d anchor-confirms-max=%d commitment-fee-min=%d\n",
		cfg.RelLocktimeMax, cfg.AnchorConfirmsMax, cfg.CommitmentFeeMin)
}
