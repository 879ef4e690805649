package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/modifikasi/partsdesk/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ListParts loads parts by archive state, then applies search, category,
// unit and ordering in memory
func (s *Store) ListParts(ctx context.Context, f models.PartFilter) ([]models.Part, error) {
	q := s.db.WithContext(ctx).Model(&models.Part{})
	switch strings.ToLower(f.Archived) {
	case models.ArchivedAll:
	case models.ArchivedOnly:
		q = q.Where("is_archived = ?", true)
	default:
		q = q.Where("is_archived = ?", false)
	}

	var parts []models.Part
	if err := q.Find(&parts).Error; err != nil {
		return nil, fmt.Errorf("list parts: %w", err)
	}

	parts = FilterParts(parts, f)
	SortParts(parts, f.Sort, f.Order)
	return parts, nil
}

// GetPart retrieves a part by id
func (s *Store) GetPart(ctx context.Context, id uint) (*models.Part, error) {
	var part models.Part
	if err := s.db.WithContext(ctx).First(&part, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &part, nil
}

// ViewPart bumps the view counter and records a view interaction
func (s *Store) ViewPart(ctx context.Context, id uint, customerID string) (*models.Part, error) {
	var part models.Part
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Part{}).Where("id = ?", id).
			UpdateColumn("part_views", gorm.Expr("part_views + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		view := models.PartInteraction{
			PartID:          id,
			CustomerID:      customerID,
			InteractionType: models.InteractionView,
			CreatedAt:       s.timestamp(),
		}
		if err := tx.Create(&view).Error; err != nil {
			return err
		}
		return tx.First(&part, id).Error
	})
	if err != nil {
		return nil, notFound(err)
	}
	return &part, nil
}

func validatePartInput(input models.PartInput) error {
	for field, v := range map[string]string{
		"brand":    input.Brand,
		"model":    input.Model,
		"category": input.Category,
		"unit":     input.Unit,
	} {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidPart, field)
		}
	}
	if input.Availability == nil || *input.Availability < 0 {
		return fmt.Errorf("%w: availability must be zero or more", ErrInvalidPart)
	}
	if input.Price == nil || input.Price.IsNegative() {
		return fmt.Errorf("%w: price must be zero or more", ErrInvalidPart)
	}
	return nil
}

// CreatePart adds a new part; its opening availability counts as added stock
func (s *Store) CreatePart(ctx context.Context, input models.PartInput) (*models.Part, error) {
	if err := validatePartInput(input); err != nil {
		return nil, err
	}

	part := models.Part{
		Brand:         strings.TrimSpace(input.Brand),
		Model:         strings.TrimSpace(input.Model),
		Category:      strings.TrimSpace(input.Category),
		Unit:          strings.TrimSpace(input.Unit),
		Price:         input.Price.Round(2),
		Availability:  *input.Availability,
		AddedQuantity: *input.Availability,
	}
	if err := s.db.WithContext(ctx).Create(&part).Error; err != nil {
		return nil, fmt.Errorf("create part: %w", err)
	}
	return &part, nil
}

// UpdatePart overwrites the editable fields. A direct availability edit is
// folded into AddedQuantity so availability = added - sold keeps holding.
func (s *Store) UpdatePart(ctx context.Context, id uint, input models.PartInput) (*models.Part, error) {
	if err := validatePartInput(input); err != nil {
		return nil, err
	}

	var part models.Part
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&part, id).Error; err != nil {
			return err
		}

		part.Brand = strings.TrimSpace(input.Brand)
		part.Model = strings.TrimSpace(input.Model)
		part.Category = strings.TrimSpace(input.Category)
		part.Unit = strings.TrimSpace(input.Unit)
		part.Price = input.Price.Round(2)
		part.Availability = *input.Availability
		part.AddedQuantity = part.Availability + part.SoldQuantity

		return tx.Save(&part).Error
	})
	if err != nil {
		return nil, notFound(err)
	}
	return &part, nil
}

// classifyStockMiss explains why a conditional stock update touched no rows
func classifyStockMiss(tx *gorm.DB, id uint) error {
	var part models.Part
	if err := tx.First(&part, id).Error; err != nil {
		return err
	}
	if part.IsArchived {
		return ErrArchived
	}
	return ErrInsufficientStock
}

// AddStock increases availability and the added total by qty
func (s *Store) AddStock(ctx context.Context, id uint, qty int) (*models.Part, error) {
	if qty < 1 {
		return nil, ErrInvalidQuantity
	}

	var part models.Part
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Part{}).
			Where("id = ? AND is_archived = ?", id, false).
			Updates(map[string]interface{}{
				"availability":   gorm.Expr("availability + ?", qty),
				"added_quantity": gorm.Expr("added_quantity + ?", qty),
				"updated_at":     s.timestamp(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return classifyStockMiss(tx, id)
		}
		return tx.First(&part, id).Error
	})
	if err != nil {
		return nil, notFound(err)
	}
	return &part, nil
}

// MarkSold moves qty units from availability to sold and appends a sale
// record, all in one transaction. qty may not exceed availability.
func (s *Store) MarkSold(ctx context.Context, id uint, qty int, soldBy uint) (*models.Part, *models.SaleRecord, error) {
	if qty < 1 {
		return nil, nil, ErrInvalidQuantity
	}

	var (
		part models.Part
		sale models.SaleRecord
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Part{}).
			Where("id = ? AND is_archived = ? AND availability >= ?", id, false, qty).
			Updates(map[string]interface{}{
				"availability":  gorm.Expr("availability - ?", qty),
				"sold_quantity": gorm.Expr("sold_quantity + ?", qty),
				"updated_at":    s.timestamp(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return classifyStockMiss(tx, id)
		}
		if err := tx.First(&part, id).Error; err != nil {
			return err
		}

		sale = models.SaleRecord{
			PartID:    id,
			Quantity:  qty,
			UnitPrice: part.Price,
			SoldBy:    soldBy,
			CreatedAt: s.timestamp(),
		}
		return tx.Create(&sale).Error
	})
	if err != nil {
		return nil, nil, notFound(err)
	}
	return &part, &sale, nil
}

// SetArchived archives or restores the selected parts and returns how many changed
func (s *Store) SetArchived(ctx context.Context, ids []uint, archived bool) (int64, error) {
	if len(ids) == 0 {
		return 0, ErrNoSelection
	}

	res := s.db.WithContext(ctx).Model(&models.Part{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"is_archived": archived,
			"updated_at":  s.timestamp(),
		})
	if res.Error != nil {
		return 0, fmt.Errorf("archive parts: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// DeleteParts removes parts together with their sales and interactions
func (s *Store) DeleteParts(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, ErrNoSelection
	}

	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("part_id IN ?", ids).Delete(&models.SaleRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("part_id IN ?", ids).Delete(&models.PartInteraction{}).Error; err != nil {
			return err
		}
		res := tx.Where("id IN ?", ids).Delete(&models.Part{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete parts: %w", err)
	}
	return deleted, nil
}

// LogInteraction records a customer interaction with a part
func (s *Store) LogInteraction(ctx context.Context, partID uint, input models.InteractionInput) (*models.PartInteraction, error) {
	if _, err := s.GetPart(ctx, partID); err != nil {
		return nil, err
	}

	interaction := models.PartInteraction{
		PartID:          partID,
		CustomerID:      input.CustomerID,
		InteractionType: strings.ToLower(strings.TrimSpace(input.InteractionType)),
		CreatedAt:       s.timestamp(),
	}
	if err := s.db.WithContext(ctx).Create(&interaction).Error; err != nil {
		return nil, fmt.Errorf("log interaction: %w", err)
	}
	return &interaction, nil
}

// ListSales returns the sales history, newest first
func (s *Store) ListSales(ctx context.Context, f models.SaleFilter) ([]models.SaleRecord, error) {
	q := s.db.WithContext(ctx).Preload("Part").Order("created_at DESC").Order("id DESC")
	if f.PartID != 0 {
		q = q.Where("part_id = ?", f.PartID)
	}
	if !f.From.IsZero() {
		q = q.Where("created_at >= ?", f.From.UTC())
	}
	if !f.To.IsZero() {
		// inclusive of the whole "to" day
		q = q.Where("created_at < ?", f.To.AddDate(0, 0, 1).UTC())
	}

	var sales []models.SaleRecord
	if err := q.Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return sales, nil
}

// Revenue sums quantity x unit price across sales
func Revenue(sales []models.SaleRecord) decimal.Decimal {
	total := decimal.Zero
	for _, sale := range sales {
		total = total.Add(sale.Total())
	}
	return total
}
