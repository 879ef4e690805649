package store

import (
	"testing"
	"time"

	"github.com/modifikasi/partsdesk/models"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func sampleParts() []models.Part {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return []models.Part{
		{ID: 1, Brand: "Yamaha", Model: "nmax brake pad", Category: "Brakes", Unit: "NMAX", Price: decimal.NewFromInt(450), Availability: 3, PartViews: 9, UpdatedAt: base},
		{ID: 2, Brand: "Honda", Model: "Click CVT Belt", Category: "Engine", Unit: "Click", Price: decimal.NewFromInt(900), Availability: 10, PartViews: 2, UpdatedAt: base.Add(time.Hour)},
		{ID: 3, Brand: "RCB", Model: "Aerox Caliper", Category: "Brakes", Unit: "Aerox", Price: decimal.NewFromInt(3200), Availability: 0, PartViews: 15, UpdatedAt: base.Add(2 * time.Hour)},
		{ID: 4, Brand: "Yamaha", Model: "Aerox Air Filter", Category: "Engine", Unit: "Aerox", Price: decimal.NewFromInt(300), Availability: 7, PartViews: 4, UpdatedAt: base.Add(3 * time.Hour)},
	}
}

func ids(parts []models.Part) []uint {
	out := make([]uint, 0, len(parts))
	for _, p := range parts {
		out = append(out, p.ID)
	}
	return out
}

func TestFilterParts(t *testing.T) {
	tests := []struct {
		name   string
		filter models.PartFilter
		want   []uint
	}{
		{"no filter", models.PartFilter{}, []uint{1, 2, 3, 4}},
		{"All selectors", models.PartFilter{Category: "All", Unit: "All"}, []uint{1, 2, 3, 4}},
		{"search model case-insensitive", models.PartFilter{Search: "AEROX"}, []uint{3, 4}},
		{"search brand", models.PartFilter{Search: "yama"}, []uint{1, 4}},
		{"search trims spaces", models.PartFilter{Search: "  belt "}, []uint{2}},
		{"category", models.PartFilter{Category: "Brakes"}, []uint{1, 3}},
		{"unit", models.PartFilter{Unit: "Aerox"}, []uint{3, 4}},
		{"combined", models.PartFilter{Search: "yamaha", Category: "Engine", Unit: "Aerox"}, []uint{4}},
		{"category is exact", models.PartFilter{Category: "brakes"}, []uint{}},
		{"no match", models.PartFilter{Search: "exhaust"}, []uint{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(FilterParts(sampleParts(), tt.filter))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FilterParts() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSortParts(t *testing.T) {
	tests := []struct {
		field, order string
		want         []uint
	}{
		{"", "", []uint{4, 3, 2, 1}}, // model, case-insensitive
		{"model", "desc", []uint{1, 2, 3, 4}},
		{"brand", "asc", []uint{2, 3, 1, 4}},
		{"price", "asc", []uint{4, 1, 2, 3}},
		{"availability", "desc", []uint{2, 4, 1, 3}},
		{"views", "desc", []uint{3, 1, 4, 2}},
		{"modified", "desc", []uint{4, 3, 2, 1}},
		{"bogus", "asc", []uint{4, 3, 2, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.field+"/"+tt.order, func(t *testing.T) {
			parts := sampleParts()
			SortParts(parts, tt.field, tt.order)
			if diff := cmp.Diff(tt.want, ids(parts)); diff != "" {
				t.Errorf("SortParts() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeUnit(t *testing.T) {
	assert.Equal(t, "NMAX", NormalizeUnit("NMAX V2"))
	assert.Equal(t, "NMAX", NormalizeUnit("NMAX"))
	assert.Equal(t, "V2 Aerox", NormalizeUnit("V2 Aerox"))
}
