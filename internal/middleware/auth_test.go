package middleware

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/util"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func router(roles ...model.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := []gin.HandlerFunc{AuthMiddleware(secret)}
	if len(roles) > 0 {
		handlers = append(handlers, RoleMiddleware(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.String(http.StatusOK, util.GetUserFromContext(c).Username)
	})
	r.GET("/private", handlers...)
	return r
}

func bearer(t *testing.T, role model.UserRole, ttl time.Duration) string {
	t.Helper()
	token, err := util.GenerateJWT(&model.User{BaseModel: model.BaseModel{ID: 7}, Username: "asha", Role: role}, secret, ttl)
	require.NoError(t, err)
	return "Bearer " + token
}

func do(r *gin.Engine, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := router()

	assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "Bearer nonsense").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, bearer(t, model.Student, -time.Minute)).Code)

	w := do(r, bearer(t, model.Student, time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "asha", w.Body.String())
}

func TestRoleMiddleware(t *testing.T) {
	r := router(model.Instructor)

	assert.Equal(t, http.StatusForbidden, do(r, bearer(t, model.Student, time.Hour)).Code)
	assert.Equal(t, http.StatusOK, do(r, bearer(t, model.Instructor, time.Hour)).Code)
	assert.Equal(t, http.StatusOK, do(r, bearer(t, model.Admin, time.Hour)).Code)
}
