package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/modifikasi/partsdesk/models"
	"github.com/modifikasi/partsdesk/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issueCode(t *testing.T, s *Store, email, code string) {
	t.Helper()
	hash, err := utils.HashSecret(code)
	require.NoError(t, err)
	_, err = s.CreateResetCode(context.Background(), email, hash, 15*time.Minute)
	require.NoError(t, err)
}

func TestVerifyResetCode(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	issueCode(t, s, "Owner@shop.ph", "123456")

	_, err := s.VerifyResetCode(ctx, "owner@shop.ph", "000000", 5)
	assert.ErrorIs(t, err, ErrInvalidCode)

	got, err := s.VerifyResetCode(ctx, "OWNER@shop.ph", "123456", 5)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Attempts)
	assert.Nil(t, got.UsedAt)

	_, err = s.VerifyResetCode(ctx, "nobody@shop.ph", "123456", 5)
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestVerifyResetCode_NewestCodeWins(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	issueCode(t, s, "owner@shop.ph", "111111")
	issueCode(t, s, "owner@shop.ph", "222222")

	_, err := s.VerifyResetCode(ctx, "owner@shop.ph", "111111", 5)
	assert.ErrorIs(t, err, ErrInvalidCode)

	_, err = s.VerifyResetCode(ctx, "owner@shop.ph", "222222", 5)
	assert.NoError(t, err)
}

func TestVerifyResetCode_Expired(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	issued := time.Now()
	fixedClock(s, issued)
	issueCode(t, s, "owner@shop.ph", "123456")

	fixedClock(s, issued.Add(16*time.Minute))
	_, err := s.VerifyResetCode(ctx, "owner@shop.ph", "123456", 5)
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestVerifyResetCode_AttemptLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	issueCode(t, s, "owner@shop.ph", "123456")

	_, err := s.VerifyResetCode(ctx, "owner@shop.ph", "000001", 3)
	assert.ErrorIs(t, err, ErrInvalidCode)
	_, err = s.VerifyResetCode(ctx, "owner@shop.ph", "000002", 3)
	assert.ErrorIs(t, err, ErrInvalidCode)
	_, err = s.VerifyResetCode(ctx, "owner@shop.ph", "000003", 3)
	assert.ErrorIs(t, err, ErrTooManyAttempts)

	// even the right code is refused now
	_, err = s.VerifyResetCode(ctx, "owner@shop.ph", "123456", 3)
	assert.ErrorIs(t, err, ErrTooManyAttempts)
}

func TestVerifyResetCode_ConcurrentGuessesRespectLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	issueCode(t, s, "owner@shop.ph", "123456")

	const (
		guesses     = 20
		maxAttempts = 5
	)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		invalid  int
		tooMany  int
		unexpect []error
	)
	for i := 0; i < guesses; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.VerifyResetCode(ctx, "owner@shop.ph", "000000", maxAttempts)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, ErrInvalidCode):
				invalid++
			case errors.Is(err, ErrTooManyAttempts):
				tooMany++
			default:
				unexpect = append(unexpect, err)
			}
		}()
	}
	wg.Wait()

	require.Empty(t, unexpect)
	assert.Equal(t, guesses, invalid+tooMany)
	assert.LessOrEqual(t, invalid, maxAttempts-1)

	var stored models.PasswordResetCode
	require.NoError(t, s.db.Where("email = ?", "owner@shop.ph").First(&stored).Error)
	assert.Equal(t, maxAttempts, stored.Attempts)

	_, err := s.VerifyResetCode(ctx, "owner@shop.ph", "123456", maxAttempts)
	assert.ErrorIs(t, err, ErrTooManyAttempts)
}

func TestVerifyResetCode_MatchDoesNotSpendAttempt(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	issueCode(t, s, "owner@shop.ph", "123456")

	for i := 0; i < 4; i++ {
		_, err := s.VerifyResetCode(ctx, "owner@shop.ph", "123456", 2)
		require.NoError(t, err)
	}

	var stored models.PasswordResetCode
	require.NoError(t, s.db.Where("email = ?", "owner@shop.ph").First(&stored).Error)
	assert.Equal(t, 0, stored.Attempts)
}

func TestConsumeResetCode(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := mustCreateUser(t, s, "owner@shop.ph", models.RoleOwner, models.StatusActive)
	issueCode(t, s, "owner@shop.ph", "654321")

	newHash, err := utils.HashSecret("new-secret")
	require.NoError(t, err)

	require.NoError(t, s.ConsumeResetCode(ctx, "owner@shop.ph", "654321", 5, newHash))

	got, err := s.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, utils.CheckSecret(got.Password, "new-secret"))

	// single use
	err = s.ConsumeResetCode(ctx, "owner@shop.ph", "654321", 5, newHash)
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestRevokedTokens(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	revoked, err := s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, s.RevokeToken(ctx, "jti-1", time.Now().Add(time.Hour)))
	// revoking twice is harmless
	require.NoError(t, s.RevokeToken(ctx, "jti-1", time.Now().Add(time.Hour)))

	revoked, err = s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	require.NoError(t, s.RevokeToken(ctx, "jti-old", time.Now().Add(-time.Hour)))
	issueCode(t, s, "owner@shop.ph", "123456")

	fixedClock(s, time.Now().Add(20*time.Minute))
	purged, err := s.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), purged)

	revoked, err = s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}
