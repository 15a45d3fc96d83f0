package services

import (
	"fmt"
	"net/url"
	"ride-quote-service/internal/domain"
	"strconv"
	"strings"
)

const contactBaseURL = "https://wa.me/"

// ContactMessage builds the pre-filled message for the driver. Priced
// quotes confirm the fare; unpriced ones ask for address or distance.
func ContactMessage(r *domain.QuoteResult) string {
	var b strings.Builder

	if !r.HasPrice() {
		b.WriteString("Hello! I saw your QR code and would like a quote.\n")
		b.WriteString("I couldn't calculate the route automatically right now.\n")
		fmt.Fprintf(&b, "Origin: %s\n", r.Origin)
		fmt.Fprintf(&b, "Destination: %s\n", r.Destination)
		b.WriteString("Could you confirm the full address or tell me the approximate km?")
		return b.String()
	}

	b.WriteString("Hello! I saw your QR code and would like to confirm the fare.\n")
	fmt.Fprintf(&b, "Origin: %s\n", r.Origin)
	fmt.Fprintf(&b, "Destination: %s\n", r.Destination)
	fmt.Fprintf(&b, "Distance: %s km (%s)\n", strconv.FormatFloat(*r.DistanceKm, 'f', -1, 64), r.DistanceSource)
	fmt.Fprintf(&b, "Estimate: %s %.2f\n", r.Currency, *r.Price)
	b.WriteString("Pickup time: ")
	return b.String()
}

// ContactURL returns a wa.me link with msg percent-encoded (spaces as %20).
func ContactURL(number, msg string) string {
	text := strings.ReplaceAll(url.QueryEscape(msg), "+", "%20")
	return contactBaseURL + number + "?text=" + text
}
