package catalog

import (
	"fmt"
	"net/url"
	"strings"

	"autovia-backend/internal/domain"
)

// ContactLink builds a WhatsApp deep link with a prefilled message for a
// listing: title, year, and the last six VIN characters upper-cased when a
// VIN is present. Returns "" when no phone number is configured; callers
// treat that as "no contact action available", never as an error.
func ContactLink(l *domain.Listing, phone string) string {
	if phone == "" {
		return ""
	}
	msg := fmt.Sprintf("Hola, me interesa el %s %d", l.Title, l.Year)
	if l.VIN != "" {
		vin := strings.ToUpper(l.VIN)
		if len(vin) > 6 {
			vin = vin[len(vin)-6:]
		}
		msg += fmt.Sprintf(" (VIN %s)", vin)
	}
	// Percent-encode, including spaces (QueryEscape would emit '+').
	escaped := strings.ReplaceAll(url.QueryEscape(msg), "+", "%20")
	return "https://wa.me/" + phone + "?text=" + escaped
}
