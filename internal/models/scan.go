package models

import "time"

// Scan type discriminators.
const (
	ScanTypeLeaf = "leaf"
	ScanTypeSkin = "skin"
)

// ScanRecord is one immutable prediction log entry. Leaf scans carry
// uses/diseases, skin scans carry a recommendation; the other fields are
// empty for the opposite type.
type ScanRecord struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	UserEmail      string    `json:"userEmail,omitempty"`
	Label          string    `json:"label"`
	Confidence     float64   `json:"confidence"`
	Uses           string    `json:"uses,omitempty"`
	Diseases       []string  `json:"diseases,omitempty"`
	Recommendation string    `json:"recommendation,omitempty"`
	Filename       string    `json:"filename"`
	SavedName      string    `json:"savedName"`
	CreatedAt      time.Time `json:"createdAt"`
}
