package lnwire

import (
	"strconv"

	"github.com/btcsuite/btcd/btcutil"
)

// MilliSatoshi is the unit used to express the value of a channel balance
// or an HTLC, one thousandth of a satoshi. Balances and fees within the
// channel protocol are always expressed in this unit so that fractional
// satoshi fee rates don't lose precision.
type MilliSatoshi uint64

// ToSatoshis converts the amount down to satoshis, truncating any
// sub-satoshi remainder.
func (m MilliSatoshi) ToSatoshis() btcutil.Amount {
	return btcutil.Amount(m / 1000)
}

// String returns the string representation of the monetary value.
func (m MilliSatoshi) String() string {
	return strconv.FormatUint(uint64(m), 10) + " mSAT"
}
