package store

import (
	"cmp"
	"slices"
	"strings"

	"github.com/modifikasi/partsdesk/models"
)

// matchesAll reports whether a category/unit selector means "no filter"
func matchesAll(selector string) bool {
	s := strings.ToLower(strings.TrimSpace(selector))
	return s == "" || s == "all" || s == "all categories" || s == "all units"
}

// NormalizeUnit strips the " V2" variant suffix used by the customized-parts view
func NormalizeUnit(unit string) string {
	return strings.TrimSuffix(unit, " V2")
}

// MatchPart applies search, category and unit to a single part.
// Search is a case-insensitive substring of model or brand.
func MatchPart(p models.Part, f models.PartFilter) bool {
	if s := strings.ToLower(strings.TrimSpace(f.Search)); s != "" {
		if !strings.Contains(strings.ToLower(p.Model), s) && !strings.Contains(strings.ToLower(p.Brand), s) {
			return false
		}
	}
	if !matchesAll(f.Category) && p.Category != f.Category {
		return false
	}
	if !matchesAll(f.Unit) && p.Unit != f.Unit {
		return false
	}
	return true
}

// FilterParts returns the parts matching f, preserving order
func FilterParts(parts []models.Part, f models.PartFilter) []models.Part {
	out := make([]models.Part, 0, len(parts))
	for _, p := range parts {
		if MatchPart(p, f) {
			out = append(out, p)
		}
	}
	return out
}

// SortParts orders parts in place. Unknown fields sort by model;
// string fields compare case-insensitively and ties fall back to id.
func SortParts(parts []models.Part, field, order string) {
	desc := strings.EqualFold(order, "desc")

	compare := func(a, b models.Part) int {
		switch field {
		case "brand":
			return cmp.Compare(strings.ToLower(a.Brand), strings.ToLower(b.Brand))
		case "category":
			return cmp.Compare(strings.ToLower(a.Category), strings.ToLower(b.Category))
		case "price":
			return a.Price.Cmp(b.Price)
		case "availability":
			return cmp.Compare(a.Availability, b.Availability)
		case "sold":
			return cmp.Compare(a.SoldQuantity, b.SoldQuantity)
		case "views":
			return cmp.Compare(a.PartViews, b.PartViews)
		case "modified":
			return a.UpdatedAt.Compare(b.UpdatedAt)
		case "created":
			return a.CreatedAt.Compare(b.CreatedAt)
		default:
			return cmp.Compare(strings.ToLower(a.Model), strings.ToLower(b.Model))
		}
	}

	slices.SortStableFunc(parts, func(a, b models.Part) int {
		c := compare(a, b)
		if desc {
			c = -c
		}
		if c == 0 {
			return cmp.Compare(a.ID, b.ID)
		}
		return c
	})
}
