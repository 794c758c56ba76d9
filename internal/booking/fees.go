package booking

// Amounts is the charge breakdown recorded on a booking.  All values
// are integer cents; Total is what the buyer pays.
type Amounts struct {
	BaseCents     uint32
	FeesCents     uint32
	TaxCents      uint32
	DiscountCents uint32
	TotalCents    uint32
}

// FeePolicy turns the seats' base total into the final charge
// breakdown.  Policies must be pure: same inputs, same amounts.
type FeePolicy interface {
	Apply(baseCents uint32, seatCount int) Amounts
}

// FlatFee charges a fixed service fee per booking regardless of seat
// count, with no tax or discount.  The default policy.
type FlatFee struct {
	PerBookingCents uint32
}

// Apply implements FeePolicy.
func (f FlatFee) Apply(baseCents uint32, seatCount int) Amounts {
	return Amounts{
		BaseCents:  baseCents,
		FeesCents:  f.PerBookingCents,
		TotalCents: baseCents + f.PerBookingCents,
	}
}
