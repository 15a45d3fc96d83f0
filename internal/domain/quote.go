package domain

// The outcome of a single quote request.
// Price is set if and only if DistanceKm is set. DistanceSource always
// records how the distance was obtained, or SourceUnavailable.
type QuoteResult struct {
	Origin         string
	Destination    string
	DistanceKm     *float64
	DurationMin    *float64
	Price          *float64
	Currency       string
	DistanceSource string
	ContactMessage string
	ContactURL     string
}

// HasPrice reports whether a distance was resolved and priced.
func (r *QuoteResult) HasPrice() bool {
	return r.DistanceKm != nil && r.Price != nil
}
