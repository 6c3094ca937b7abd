//go:build unit

package middleware_test

import (
	"net/http"
	"testing"

	"clinic-scheduler/internal/domain/user"
	"clinic-scheduler/internal/handler/middleware"
	"clinic-scheduler/internal/pkg/jwt"
	"clinic-scheduler/internal/usecase/commands"
	"clinic-scheduler/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeValidator map[string]commands.Actor

func (f fakeValidator) ValidateToken(token string) (commands.Actor, error) {
	actor, ok := f[token]
	if !ok {
		return commands.Actor{}, jwt.ErrExpiredToken
	}
	return actor, nil
}

func newAuthRouter(validator fakeValidator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	auth := middleware.NewAuthMiddleware(validator)

	whoami := func(c *gin.Context) {
		actor, ok := middleware.GetActor(c)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"role": ""})
			return
		}
		c.JSON(http.StatusOK, gin.H{"role": actor.Role.String(), "userId": actor.UserID.String()})
	}

	r.GET("/private", auth.RequireAuth(), whoami)
	r.GET("/public", auth.OptionalAuth(), whoami)
	r.GET("/staff", auth.RequireAuth(), auth.RequireRoleAtLeast(user.RoleStaff), whoami)
	r.GET("/misconfigured", auth.RequireRoleAtLeast(user.RoleStaff), whoami)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	clientID := uuid.New()
	r := newAuthRouter(fakeValidator{
		"client": {UserID: clientID, Role: user.RoleClient},
		"staff":  {UserID: uuid.New(), Role: user.RoleStaff},
		"admin":  {UserID: uuid.New(), Role: user.RoleAdmin},
	})

	t.Run("RequireAuth", func(t *testing.T) {
		rec := httptest.PerformRequest(t, r, http.MethodGet, "/private", nil, "client")
		var body map[string]string
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &body)
		assert.Equal(t, "client", body["role"])
		assert.Equal(t, clientID.String(), body["userId"])

		rec = httptest.PerformRequest(t, r, http.MethodGet, "/private", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Access token required")

		rec = httptest.PerformRequest(t, r, http.MethodGet, "/private", nil, "stale")
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Invalid or expired token")
	})

	t.Run("OptionalAuth never aborts", func(t *testing.T) {
		for token, want := range map[string]string{"": "", "stale": "", "staff": "staff"} {
			rec := httptest.PerformRequest(t, r, http.MethodGet, "/public", nil, token)
			var body map[string]string
			httptest.AssertSuccessResponse(t, rec, http.StatusOK, &body)
			assert.Equal(t, want, body["role"], "token %q", token)
		}
	})

	t.Run("RequireRoleAtLeast", func(t *testing.T) {
		cases := map[string]int{
			"client": http.StatusForbidden,
			"staff":  http.StatusOK,
			"admin":  http.StatusOK,
		}
		for token, status := range cases {
			rec := httptest.PerformRequest(t, r, http.MethodGet, "/staff", nil, token)
			assert.Equal(t, status, rec.Code, "token %q", token)
		}

		rec := httptest.PerformRequest(t, r, http.MethodGet, "/misconfigured", nil, "staff")
		httptest.AssertErrorResponse(t, rec, http.StatusInternalServerError, "Internal server error")
	})
}
