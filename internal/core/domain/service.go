package domain

import (
	"regexp"
	"strings"
)

// Service is a sellable offering in the catalog.
type Service struct {
	ID              string   `json:"_id"`
	Name            string   `json:"name"`
	Slug            string   `json:"slug"`
	Description     string   `json:"description"`
	FullDescription string   `json:"fullDescription,omitempty"`
	Category        string   `json:"category"`
	Price           float64  `json:"price"`
	DeliveryTime    string   `json:"deliveryTime"`
	Features        []string `json:"features"`
	Tags            []string `json:"tags"`
}

// ServiceCategories are the catalog filters offered on the services page.
var ServiceCategories = []string{
	"development",
	"design",
	"security",
	"optimization",
	"maintenance",
}

// DefaultDeliveryTime is used when an admin leaves the field blank.
const DefaultDeliveryTime = "2-4 weeks"

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe slug from a service name.
func Slugify(name string) string {
	s := nonSlug.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

// SplitList turns a comma separated form value into a trimmed list without
// empty entries.
func SplitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
