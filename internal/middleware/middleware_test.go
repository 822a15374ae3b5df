package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Haswanth2005/wissen/internal/utils"
)

const testSecret = "test-secret"

func protectedEcho(mw ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	g := e.Group("/v1", mw...)
	g.GET("/ping", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"user_id": c.Get("user_id"),
			"role":    c.Get("role"),
			"batch":   c.Get("batch"),
		})
	})
	return e
}

func doGet(e *echo.Echo, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthRejectsMissingToken(t *testing.T) {
	e := protectedEcho(JWTAuth(testSecret))
	rec := doGet(e, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsBadToken(t *testing.T) {
	e := protectedEcho(JWTAuth(testSecret))
	rec := doGet(e, "not-a-jwt")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Signed with a different secret.
	tok, err := utils.NewAccessToken("other-secret", 7, "EMPLOYEE", "A", 1)
	require.NoError(t, err)
	rec = doGet(e, tok.Token)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthInjectsClaims(t *testing.T) {
	e := protectedEcho(JWTAuth(testSecret))
	tok, err := utils.NewAccessToken(testSecret, 7, "EMPLOYEE", "A", 1)
	require.NoError(t, err)

	rec := doGet(e, tok.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"role":"EMPLOYEE"`)
	require.Contains(t, rec.Body.String(), `"batch":"A"`)
}

func TestRequireRole(t *testing.T) {
	e := protectedEcho(JWTAuth(testSecret), RequireRole("ADMIN"))

	employee, err := utils.NewAccessToken(testSecret, 7, "EMPLOYEE", "A", 1)
	require.NoError(t, err)
	rec := doGet(e, employee.Token)
	require.Equal(t, http.StatusForbidden, rec.Code)

	admin, err := utils.NewAccessToken(testSecret, 1, "ADMIN", "NONE", 1)
	require.NoError(t, err)
	rec = doGet(e, admin.Token)
	require.Equal(t, http.StatusOK, rec.Code)
}
