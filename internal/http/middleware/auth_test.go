package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"backend/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubParser struct {
	userID   int64
	username string
	err      error
}

func (p stubParser) ParseToken(string) (int64, string, error) {
	return p.userID, p.username, p.err
}

func newAuthTestRouter(parser TokenParser) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", RequireAuth(parser), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":  GetUserID(c),
			"username": GetUsername(c),
		})
	})
	return r
}

func TestRequireAuthMissingHeader(t *testing.T) {
	r := newAuthTestRouter(stubParser{userID: 1})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthInvalidToken(t *testing.T) {
	r := newAuthTestRouter(stubParser{err: domain.UnauthenticatedError{Msg: "invalid"}})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthSetsIdentity(t *testing.T) {
	r := newAuthTestRouter(stubParser{userID: 9, username: "alice"})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":9`)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)
}
