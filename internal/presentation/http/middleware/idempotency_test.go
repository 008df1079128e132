package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rxledger/pharmacy-api/internal/domain/entity"
	infraRepo "github.com/rxledger/pharmacy-api/internal/infrastructure/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newIdempotencyRouter builds a POST route behind the idempotency middleware.
// The handler counts invocations so replays are observable.
func newIdempotencyRouter(t *testing.T, calls *int64) (*gin.Engine, uuid.UUID) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.IdempotencyKey{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	repo := infraRepo.NewIdempotencyRepository(db)
	userID := uuid.New()

	router := gin.New()
	router.POST("/bills", func(c *gin.Context) {
		// Stand-in for the auth and tenant middleware pair
		c.Set("user_id", userID)
		if tenant := c.GetHeader("X-Test-Tenant"); tenant != "" {
			pharmacyID := uuid.MustParse(tenant)
			c.Set("pharmacy_id", pharmacyID)
			ctx := infraRepo.WithTenant(c.Request.Context(), pharmacyID)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}, IdempotencyRequired(repo), func(c *gin.Context) {
		n := atomic.AddInt64(calls, 1)
		c.JSON(http.StatusCreated, gin.H{"call": strconv.FormatInt(n, 10)})
	})
	return router, userID
}

func postBill(router *gin.Engine, key string, tenant uuid.UUID) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/bills", nil)
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	req.Header.Set("X-Test-Tenant", tenant.String())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIdempotencyRequired_MissingKey(t *testing.T) {
	var calls int64
	router, _ := newIdempotencyRouter(t, &calls)

	w := postBill(router, "", uuid.New())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, int64(0), calls)
}

func TestIdempotencyRequired_ReplaysStoredResponse(t *testing.T) {
	var calls int64
	router, _ := newIdempotencyRouter(t, &calls)
	tenant := uuid.New()

	first := postBill(router, "key-1", tenant)
	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Empty(t, first.Header().Get("X-Idempotency-Replayed"))

	second := postBill(router, "key-1", tenant)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Replayed"))
	assert.Equal(t, first.Body.String(), second.Body.String())

	// the handler ran exactly once
	assert.Equal(t, int64(1), calls)
}

func TestIdempotencyRequired_KeysScopedPerPharmacy(t *testing.T) {
	var calls int64
	router, _ := newIdempotencyRouter(t, &calls)

	first := postBill(router, "shared-key", uuid.New())
	assert.Equal(t, http.StatusCreated, first.Code)

	// the same key from another pharmacy must not replay the first response
	second := postBill(router, "shared-key", uuid.New())
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Empty(t, second.Header().Get("X-Idempotency-Replayed"))
	assert.Equal(t, int64(2), calls)
}
