package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairprice/fairprice-backend/internal/i18n"
	"github.com/fairprice/fairprice-backend/internal/models"
)

func TestDateOf(t *testing.T) {
	ist := time.FixedZone("IST", 19800)

	// 20:00 UTC is already the next day in IST
	instant := time.Date(2026, 10, 17, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC), DateOf(instant, ist))
	assert.Equal(t, time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC), DateOf(instant, nil))

	parsed, err := ParseDate("2026-10-18")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, parsed.Location())
	assert.Equal(t, "2026-10-11", AddDays(parsed, -7).Format(DateLayout))

	_, err = ParseDate("18/10/2026")
	assert.Error(t, err)
}

func TestJWTRoundTrip(t *testing.T) {
	SetJWTSecret("utils-test-secret")
	userID := uuid.New()

	token, err := GenerateJWT(userID, "Asha Patil", string(models.RoleVendor), 5)
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "vendor", claims.Role)

	SetJWTSecret("another-secret")
	_, err = ValidateJWT(token)
	assert.Error(t, err)

	expired, err := GenerateJWT(userID, "Asha Patil", "vendor", -1)
	require.NoError(t, err)
	_, err = ValidateJWT(expired)
	assert.Error(t, err)
}

func TestServiceErrorResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	require.NoError(t, i18n.Initialize("en"))

	tests := []struct {
		err    error
		status int
		code   string
	}{
		{models.NewValidationError("price_per_unit", "must be greater than 0"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{models.ErrUnauthorized, http.StatusForbidden, "FORBIDDEN"},
		{models.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{models.ErrNotFoundOrNotEditable, http.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("%w: approved", models.ErrInvalidTransition), http.StatusConflict, "CONFLICT"},
		{models.ErrAlreadyExists, http.StatusConflict, "CONFLICT"},
		{models.ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED"},
		{models.ErrInactiveAccount, http.StatusForbidden, "FORBIDDEN"},
		{fmt.Errorf("connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/prices", nil)

			ServiceErrorResponse(c, tt.err, "price.not_found")

			assert.Equal(t, tt.status, w.Code)
			var resp APIResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestPagination(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?page=3&limit=500", nil)

	params := GetPaginationParams(c)
	assert.Equal(t, 3, params.Page)
	assert.Equal(t, 50, params.Limit)
	assert.Equal(t, 100, params.Offset())

	result := CreatePaginationResult([]int{}, 101, params)
	assert.Equal(t, 3, result.TotalPages)
}
