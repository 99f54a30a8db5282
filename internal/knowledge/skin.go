package knowledge

import (
	"bufio"
	"os"
	"strings"
)

var recommendations = map[string]string{
	"acne":      "Neem leaves act as a natural antibacterial agent. Crush fresh neem leaves into a paste and apply to the affected area.",
	"eczema":    "Aloe vera and neem leaves help calm itching. Apply aloe vera gel directly to soothe the inflamed skin.",
	"psoriasis": "Neem and aloe vera leaves reduce scaling. A turmeric paste can also ease the inflammation.",
	"ringworm":  "Basil (Tulsi) and neem leaves possess antifungal properties. Apply a paste of crushed leaves to the patch.",
	"unknown":   "No recommendation.",
}

// Recommendation returns the advisory text for a skin condition label.
func Recommendation(label string) string {
	if rec, ok := recommendations[label]; ok {
		return rec
	}
	return "No recommendation"
}

// LoadClasses reads an ordered class-name list from a text file, one name
// per line, skipping blanks. The skin model's output index maps into the
// returned slice.
func LoadClasses(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var classes []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			classes = append(classes, line)
		}
	}
	return classes, scanner.Err()
}
