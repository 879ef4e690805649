package store

import (
	"context"
	"fmt"
	"time"

	"github.com/modifikasi/partsdesk/models"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ReportLimit is how many bars the dashboards chart
const ReportLimit = 10

// PartStat is one bar of a dashboard chart
type PartStat struct {
	ID       uint   `json:"id"`
	Brand    string `json:"brand"`
	Model    string `json:"model"`
	Category string `json:"category"`
	Unit     string `json:"unit"`
	Views    int    `json:"part_views"`
}

func statOf(p models.Part, views int) PartStat {
	return PartStat{
		ID:       p.ID,
		Brand:    p.Brand,
		Model:    p.Model,
		Category: p.Category,
		Unit:     p.Unit,
		Views:    views,
	}
}

func filterStats(stats []PartStat, category, unit string) []PartStat {
	out := make([]PartStat, 0, len(stats))
	for _, st := range stats {
		if !matchesAll(category) && st.Category != category {
			continue
		}
		if !matchesAll(unit) && st.Unit != unit {
			continue
		}
		out = append(out, st)
	}
	return out
}

// PopularParts returns the most viewed parts by lifetime counter. The
// category/unit filters apply after the top-N cut, as on the dashboards.
func (s *Store) PopularParts(ctx context.Context, category, unit string) ([]PartStat, error) {
	var parts []models.Part
	err := s.db.WithContext(ctx).
		Order("part_views DESC").Order("id ASC").
		Limit(ReportLimit).
		Find(&parts).Error
	if err != nil {
		return nil, fmt.Errorf("popular parts: %w", err)
	}

	stats := make([]PartStat, 0, len(parts))
	for _, p := range parts {
		stats = append(stats, statOf(p, p.PartViews))
	}
	return filterStats(stats, category, unit), nil
}

// PopularPartsSince ranks parts by view interactions logged after since
func (s *Store) PopularPartsSince(ctx context.Context, since time.Time, category, unit string) ([]PartStat, error) {
	var rows []struct {
		PartID uint
		Views  int
	}
	err := s.db.WithContext(ctx).Model(&models.PartInteraction{}).
		Select("part_id, COUNT(*) AS views").
		Where("interaction_type = ? AND created_at >= ?", models.InteractionView, since.UTC()).
		Group("part_id").
		Order("views DESC").Order("part_id ASC").
		Limit(ReportLimit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("popular parts since: %w", err)
	}
	if len(rows) == 0 {
		return []PartStat{}, nil
	}

	ids := make([]uint, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.PartID)
	}
	var parts []models.Part
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&parts).Error; err != nil {
		return nil, fmt.Errorf("load popular parts: %w", err)
	}
	byID := make(map[uint]models.Part, len(parts))
	for _, p := range parts {
		byID[p.ID] = p
	}

	stats := make([]PartStat, 0, len(rows))
	for _, r := range rows {
		if p, ok := byID[r.PartID]; ok {
			stats = append(stats, statOf(p, r.Views))
		}
	}
	return filterStats(stats, category, unit), nil
}

// CustomizedParts lists the first parts by brand for the customization
// view. A " V2" suffix on the requested unit is ignored.
func (s *Store) CustomizedParts(ctx context.Context, category, unit string) ([]PartStat, error) {
	var parts []models.Part
	err := s.db.WithContext(ctx).
		Order("brand ASC").Order("id ASC").
		Limit(ReportLimit).
		Find(&parts).Error
	if err != nil {
		return nil, fmt.Errorf("customized parts: %w", err)
	}

	stats := make([]PartStat, 0, len(parts))
	for _, p := range parts {
		stats = append(stats, statOf(p, p.PartViews))
	}
	return filterStats(stats, category, NormalizeUnit(unit)), nil
}

// Summary is the headline numbers of the dashboard
type Summary struct {
	ActiveParts   int64           `json:"active_parts"`
	ArchivedParts int64           `json:"archived_parts"`
	UnitsInStock  int64           `json:"units_in_stock"`
	UnitsSold     int64           `json:"units_sold"`
	Revenue       decimal.Decimal `json:"revenue"`
	LowStock      int64           `json:"low_stock"`
}

// Summary computes the dashboard totals; the independent queries run concurrently
func (s *Store) Summary(ctx context.Context, lowStockThreshold int) (*Summary, error) {
	var sum Summary
	g, ctx := errgroup.WithContext(ctx)
	db := s.db.WithContext(ctx)

	g.Go(func() error {
		return db.Model(&models.Part{}).Where("is_archived = ?", false).Count(&sum.ActiveParts).Error
	})
	g.Go(func() error {
		return db.Model(&models.Part{}).Where("is_archived = ?", true).Count(&sum.ArchivedParts).Error
	})
	g.Go(func() error {
		return db.Model(&models.Part{}).
			Where("is_archived = ? AND availability <= ?", false, lowStockThreshold).
			Count(&sum.LowStock).Error
	})
	g.Go(func() error {
		var totals struct {
			InStock int64
			Sold    int64
		}
		err := db.Model(&models.Part{}).
			Select("COALESCE(SUM(availability), 0) AS in_stock, COALESCE(SUM(sold_quantity), 0) AS sold").
			Where("is_archived = ?", false).
			Scan(&totals).Error
		sum.UnitsInStock = totals.InStock
		sum.UnitsSold = totals.Sold
		return err
	})
	g.Go(func() error {
		var sales []models.SaleRecord
		if err := db.Select("quantity", "unit_price").Find(&sales).Error; err != nil {
			return err
		}
		sum.Revenue = Revenue(sales)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	return &sum, nil
}
