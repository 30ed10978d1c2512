package schedule

// Package schedule computes time-ordered charging plans for a single
// vehicle. A plan starts with a mandatory direct charge up to the
// configured threshold, then spreads the remaining need over the
// cheapest tariff windows before the departure deadline, and finally
// fills the uncovered spans with non-charging intervals so the result
// covers the whole stay without gaps.
