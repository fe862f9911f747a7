package bps

// Quote is the cost breakdown of buying a share of a listing.
type Quote struct {
	Bps       uint16
	Principal uint64 // share of the sale price
	Fee       uint64 // share of the custody fee
	Total     uint64 // Principal + Fee, the amount actually paid
}

// CustodyFee returns price * feeBps / 10000.
func CustodyFee(price uint64, feeBps uint16) (uint64, error) {
	return Share(price, feeBps)
}

// TotalRaise returns the custody fee for price and price + fee.
func TotalRaise(price uint64, feeBps uint16) (fee, total uint64, err error) {
	fee, err = CustodyFee(price, feeBps)
	if err != nil {
		return 0, 0, err
	}
	total, err = Add(price, fee)
	if err != nil {
		return 0, 0, err
	}
	return fee, total, nil
}

// QuoteShare splits the cost of b basis points of a listing with the given
// price and custody fee.
func QuoteShare(price, custodyFee uint64, b uint16) (Quote, error) {
	principal, err := Share(price, b)
	if err != nil {
		return Quote{}, err
	}
	fee, err := Share(custodyFee, b)
	if err != nil {
		return Quote{}, err
	}
	total, err := Add(principal, fee)
	if err != nil {
		return Quote{}, err
	}
	return Quote{Bps: b, Principal: principal, Fee: fee, Total: total}, nil
}
