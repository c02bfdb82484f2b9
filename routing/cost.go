package routing

// fee computes the cost of routing amount msat over edge c:
// base_fee + proportional_fee * amount / 1_000_000. If the multiplication
// would overflow an int64, the edge is treated as unusable at this
// amount and Infinite is returned.
func fee(c *NodeConnection, amount int64) int64 {
	base := int64(c.BaseFee)
	prop := int64(c.ProportionalFee)

	if prop == 0 || amount == 0 {
		return base
	}

	product := prop * amount
	if product/prop != amount {
		return Infinite
	}

	total := base + product/1_000_000
	if total >= Infinite {
		return Infinite
	}
	return total
}

// risk computes the time-lock risk premium for routing amount msat
// across an edge with the given delay, under risk factor r.
// Amounts below zero (we are being paid to route) carry a flat risk
// of 1, matching the constant nudge applied to every other path so
// that shorter equal-cost paths still win ties.
func risk(amount int64, delay uint32, r float64) int64 {
	if amount < 0 {
		return 1
	}
	premium := float64(amount) * float64(delay) * r / float64(BlocksPerYear) / 10000
	return 1 + int64(premium)
}
