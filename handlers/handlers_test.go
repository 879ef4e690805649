package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/modifikasi/partsdesk/initializers"
	"github.com/modifikasi/partsdesk/models"
	"github.com/modifikasi/partsdesk/storage"
	"github.com/modifikasi/partsdesk/store"
	"github.com/modifikasi/partsdesk/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPassword = "secret123"

func init() {
	gin.SetMode(gin.TestMode)
}

// recordingSender keeps the last code sent to each address
type recordingSender struct {
	mu    sync.Mutex
	codes map[string]string
	err   error
}

func (r *recordingSender) SendResetCode(_ context.Context, email, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.codes[email] = code
	return nil
}

func (r *recordingSender) failWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *recordingSender) last(email string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	code, ok := r.codes[email]
	return code, ok
}

type testEnv struct {
	router   *gin.Engine
	store    *store.Store
	codes    *recordingSender
	mediaDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), initializers.GormConfig(logger.Discard))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	mediaDir := t.TempDir()
	avatars, err := storage.NewFSBucket(mediaDir, "avatars", "http://media.test/media")
	require.NoError(t, err)

	codes := &recordingSender{codes: map[string]string{}}
	h := &Handler{
		Store:   store.New(db),
		JWT:     utils.NewJWTManager("test-secret-0123456789", time.Hour),
		Avatars: avatars,
		Codes:   codes,
		Log:     zap.NewNop(),
		Opts: Options{
			ResetCodeTTL:      15 * time.Minute,
			ResetMaxAttempts:  3,
			MaxUploadBytes:    1 << 20,
			LowStockThreshold: 5,
		},
	}

	return &testEnv{
		router:   NewRouter(h, RouterOptions{MediaDir: mediaDir}),
		store:    h.Store,
		codes:    codes,
		mediaDir: mediaDir,
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

// createUser inserts an account directly, bypassing approval
func (e *testEnv) createUser(t *testing.T, email, role, status string) *models.User {
	t.Helper()
	hash, err := utils.HashSecret(testPassword)
	require.NoError(t, err)
	user := &models.User{Email: email, FullName: email, Password: hash, Role: role, Status: status}
	require.NoError(t, e.store.CreateUser(context.Background(), user))
	return user
}

func (e *testEnv) signIn(t *testing.T, login, password string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/auth/signin", "", gin.H{"login": login, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	decode(t, w, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// staff returns tokens for an active owner and an active admin
func (e *testEnv) staff(t *testing.T) (owner, admin string) {
	t.Helper()
	e.createUser(t, "owner@shop.test", models.RoleOwner, models.StatusActive)
	e.createUser(t, "admin@shop.test", models.RoleAdmin, models.StatusActive)
	return e.signIn(t, "owner@shop.test", testPassword), e.signIn(t, "admin@shop.test", testPassword)
}

func (e *testEnv) createPart(t *testing.T, token, brand, model string, availability int, price string) models.Part {
	t.Helper()
	w := e.do(t, http.MethodPost, "/parts", token, gin.H{
		"brand":        brand,
		"model":        model,
		"category":     "Processor",
		"unit":         "Unit 1",
		"availability": availability,
		"price":        price,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Part models.Part `json:"part"`
	}
	decode(t, w, &resp)
	return resp.Part
}
