package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"speed-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type stubParser map[string]domain.RequestContext

func (p stubParser) ParseToken(raw string) (domain.RequestContext, error) {
	rc, ok := p[raw]
	if !ok {
		return domain.RequestContext{}, errors.New("bad token")
	}
	return rc, nil
}

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	parser := stubParser{
		"driver-token":    {UserID: 7, UserType: domain.UserTypeDriver},
		"passenger-token": {UserID: 8, UserType: domain.UserTypePassenger},
	}
	r.GET("/driver", RequireAuth(parser), RequireUserType(domain.UserTypeDriver), func(c *gin.Context) {
		rc, _ := CurrentUser(c)
		c.JSON(http.StatusOK, rc)
	})
	return r
}

func TestRequireAuthAndUserType(t *testing.T) {
	r := newTestEngine()
	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing token", "", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"passenger", "Bearer passenger-token", http.StatusForbidden},
		{"driver", "Bearer driver-token", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/driver", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Fatalf("got %d want %d: %s", w.Code, tc.want, w.Body.String())
			}
			if w.Header().Get("X-Request-ID") == "" {
				t.Fatalf("missing X-Request-ID header")
			}
		})
	}
}

func TestRequestIDKeepsIncomingHeader(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != "abc-123" {
		t.Fatalf("got %q", w.Body.String())
	}
}
