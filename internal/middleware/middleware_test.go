package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/fairprice/fairprice-backend/internal/config"
	"github.com/fairprice/fairprice-backend/internal/models"
	"github.com/fairprice/fairprice-backend/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(r *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequiredAndRequireRole(t *testing.T) {
	utils.SetJWTSecret("middleware-test")
	r := gin.New()
	r.Use(I18nMiddleware("en"))
	r.GET("/admin", AuthRequired(), RequireRole(models.RoleAdmin), func(c *gin.Context) {
		role, _ := utils.GetRoleFromContext(c)
		c.String(http.StatusOK, string(role))
	})

	w := perform(r, http.MethodGet, "/admin", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = perform(r, http.MethodGet, "/admin", map[string]string{"Authorization": "Token abc"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = perform(r, http.MethodGet, "/admin", map[string]string{"Authorization": "Bearer not-a-jwt"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	vendorToken, err := utils.GenerateJWT(uuid.New(), "Vendor", string(models.RoleVendor), 5)
	require.NoError(t, err)
	w = perform(r, http.MethodGet, "/admin", map[string]string{"Authorization": "Bearer " + vendorToken})
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminToken, err := utils.GenerateJWT(uuid.New(), "Admin", string(models.RoleAdmin), 5)
	require.NoError(t, err)
	w = perform(r, http.MethodGet, "/admin", map[string]string{"Authorization": "Bearer " + adminToken})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", w.Body.String())
}

func TestI18nMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(I18nMiddleware("en"))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, utils.GetLangFromContext(c)) })

	assert.Equal(t, "mr", perform(r, http.MethodGet, "/", map[string]string{"Accept-Language": "mr-IN,mr;q=0.9"}).Body.String())
	assert.Equal(t, "en", perform(r, http.MethodGet, "/", map[string]string{"Accept-Language": "fr-FR"}).Body.String())
	assert.Equal(t, "en", perform(r, http.MethodGet, "/", nil).Body.String())
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(rate.Limit(0.001), 2)
	defer limiter.Stop()

	r := gin.New()
	r.GET("/", limiter.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/", nil).Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, perform(r, http.MethodGet, "/", nil).Code)
}

func TestExtractResource(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, "prices", extractResourceType("/api/v1/prices/"+id.String()))
	assert.Equal(t, "prices", extractResourceType("/api/v1/admin/prices/"+id.String()+"/review"))
	assert.Equal(t, "health", extractResourceType("/health"))

	got := extractResourceID("/api/v1/admin/prices/" + id.String() + "/review")
	require.NotNil(t, got)
	assert.Equal(t, id, *got)
	assert.Nil(t, extractResourceID("/api/v1/prices"))
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS(config.CORSConfig{AllowedOrigins: []string{"https://fairprice.in"}}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := perform(r, http.MethodGet, "/", map[string]string{"Origin": "https://fairprice.in"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://fairprice.in", w.Header().Get("Access-Control-Allow-Origin"))

	w = perform(r, http.MethodGet, "/", map[string]string{"Origin": "https://evil.example"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}
