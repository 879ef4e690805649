package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/modifikasi/partsdesk/initializers"
	"github.com/modifikasi/partsdesk/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), initializers.GormConfig(logger.Discard))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return New(db)
}

func partInput(brand, model, category, unit string, availability int, price string) models.PartInput {
	p := decimal.RequireFromString(price)
	return models.PartInput{
		Brand:        brand,
		Model:        model,
		Category:     category,
		Unit:         unit,
		Availability: &availability,
		Price:        &p,
	}
}

func mustCreatePart(t *testing.T, s *Store, in models.PartInput) *models.Part {
	t.Helper()
	part, err := s.CreatePart(context.Background(), in)
	require.NoError(t, err)
	return part
}

func mustCreateUser(t *testing.T, s *Store, email, role, status string) *models.User {
	t.Helper()
	user := &models.User{Email: email, FullName: email, Password: "x", Role: role, Status: status}
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

// fixedClock pins Store.now for time-dependent tests
func fixedClock(s *Store, at time.Time) {
	s.now = func() time.Time { return at }
}
