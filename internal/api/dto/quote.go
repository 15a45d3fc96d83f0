package dto

import (
	"encoding/json"
	"strings"
)

// ManualDistance accepts either a JSON string ("12,5") or a JSON number (12.5).
// Form values bind to it as plain strings.
type ManualDistance string

func (m *ManualDistance) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*m = ""
		return nil
	}

	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*m = ManualDistance(v)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*m = ManualDistance(n.String())
	return nil
}

type QuoteRequest struct {
	Origin      string         `form:"origin" json:"origin" binding:"required"`
	Destination string         `form:"destination" json:"destination" binding:"required"`
	DistanceKm  ManualDistance `form:"distance_km" json:"distance_km"`
}

type QuoteResponse struct {
	Origin         string   `json:"origin"`
	Destination    string   `json:"destination"`
	DistanceKm     *float64 `json:"distance_km"`
	DurationMin    *float64 `json:"duration_min"`
	Price          *float64 `json:"price"`
	Currency       string   `json:"currency"`
	DistanceSource string   `json:"distance_source"`
	ContactMessage string   `json:"contact_message"`
	ContactURL     string   `json:"contact_url"`
}
