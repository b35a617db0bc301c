package middleware

import (
	"college_chatbot_backend/internal/model"
	"college_chatbot_backend/internal/util"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeAuth map[string]*util.Claims

func (f fakeAuth) Authenticate(_ context.Context, token string) (*util.Claims, error) {
	if c, ok := f[token]; ok {
		return c, nil
	}
	return nil, errors.New("unknown token")
}

func newRouter(auth Authenticator, roles ...model.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(auth), RoleMiddleware(roles...), func(c *gin.Context) {
		c.String(http.StatusOK, util.GetUserFromContext(c).Email)
	})
	return r
}

func TestTokenFromRequestOrder(t *testing.T) {
	gin.SetMode(gin.TestMode)

	req := httptest.NewRequest(http.MethodGet, "/?token=query", nil)
	req.Header.Set(util.SessionHeader, "header")
	req.Header.Set("Authorization", "Bearer bearer")
	req.AddCookie(&http.Cookie{Name: util.SessionCookie, Value: "cookie"})

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	assert.Equal(t, "header", TokenFromRequest(c))

	req.Header.Del(util.SessionHeader)
	assert.Equal(t, "bearer", TokenFromRequest(c))

	req.Header.Del("Authorization")
	assert.Equal(t, "query", TokenFromRequest(c))

	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.AddCookie(&http.Cookie{Name: util.SessionCookie, Value: "cookie"})
	assert.Equal(t, "cookie", TokenFromRequest(c))
}

func TestAuthAndRoleMiddleware(t *testing.T) {
	auth := fakeAuth{
		"admin":   {Email: "admin@mmec.edu", Role: model.Admin},
		"student": {Email: "s@example.com", Role: model.Student},
	}
	r := newRouter(auth, model.Student)

	cases := []struct {
		name  string
		token string
		code  int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"bad token", "nope", http.StatusUnauthorized},
		{"student", "student", http.StatusOK},
		{"admin always admitted", "admin", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.code, w.Code)
		})
	}
}

func TestRoleMiddlewareForbids(t *testing.T) {
	r := newRouter(fakeAuth{"student": {Email: "s@example.com", Role: model.Student}}, model.Admin)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(util.SessionHeader, "student")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
