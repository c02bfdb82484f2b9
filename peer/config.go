package peer

// Config carries the policy knobs the channel protocol engine consumes
// when validating an inbound open proposal. It is populated from the
// node's configuration file/flags the same way the rest of this core's
// ambient stack is: tags readable by go-flags.
type Config struct {
	// RelLocktimeMax is the maximum relative locktime, in seconds, a
	// peer-proposed open may carry.
	RelLocktimeMax uint32 `long:"rel-locktime-max" description:"maximum accepted peer-proposed relative locktime, in seconds"`

	// AnchorConfirmsMax is the maximum min_depth a peer-proposed open
	// may carry.
	AnchorConfirmsMax uint32 `long:"anchor-confirms-max" description:"maximum accepted peer-proposed anchor confirmation depth"`

	// CommitmentFeeMin is the minimum commitment fee, in satoshis, a
	// peer-proposed open may carry.
	CommitmentFeeMin uint64 `long:"commitment-fee-min" description:"minimum accepted peer-proposed commitment fee"`

	// DeclineInsteadOfTerminate controls what happens when an inbound
	// update_add_htlc cannot be afforded: by default the session is
	// torn down with a peer-reportable error; when set,
	// AcceptUpdateAddHtlc instead returns an UpdateFailHtlc and the
	// session continues.
	DeclineInsteadOfTerminate bool `long:"decline-unaffordable-htlc" description:"decline unaffordable HTLCs instead of terminating the session"`
}

// CommitFee combines both sides' proposed commitment fees under the
// commit_fee(a,b) = max(a,b) policy.
func CommitFee(ours, theirs uint64) uint64 {
	if ours > theirs {
		return ours
	}
	return theirs
}

// DefaultConfig returns policy defaults suitable for tests and for a
// freshly initialized node before its config file is parsed.
func DefaultConfig() *Config {
	return &Config{
		RelLocktimeMax:    14 * 24 * 60 * 60, // two weeks, in seconds, generous
		AnchorConfirmsMax: 10,
		CommitmentFeeMin:  1,
	}
}
