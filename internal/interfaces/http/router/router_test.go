package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	engine := gin.New()

	t.Run("default version", func(t *testing.T) {
		r := NewRouter(engine)
		assert.Equal(t, "v1", r.apiVersion)
	})

	t.Run("custom version", func(t *testing.T) {
		r := NewRouter(engine, WithAPIVersion("v2"))
		assert.Equal(t, "v2", r.apiVersion)
	})
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	checkout := NewDomainGroup("checkout", "/checkout")
	checkout.POST("/session", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"session_id": "cs_test_1"})
	})
	checkout.GET("/session", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"session_id": c.Query("session_id")})
	})

	webhooks := NewDomainGroup("webhooks", "/webhooks")
	webhooks.POST("/stripe", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"received": true})
	})

	r.Register(checkout).Register(webhooks)
	r.Setup()

	t.Run("registers POST route under version prefix", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/session", nil)
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "cs_test_1")
	})

	t.Run("registers GET route with query param", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout/session?session_id=cs_42", nil)
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "cs_42")
	})

	t.Run("registers second group", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/stripe", nil)
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unregistered route is 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil)
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDomainGroupMiddleware(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	called := false
	group := NewDomainGroup("system", "/system")
	group.Use(func(c *gin.Context) {
		called = true
		c.Next()
	})
	group.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	r.Register(group)
	r.Setup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/system/ping", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, called)
}

func TestDomainGroupAccessors(t *testing.T) {
	group := NewDomainGroup("checkout", "/checkout")
	assert.Equal(t, "checkout", group.Name())
	assert.Equal(t, "/checkout", group.Prefix())
}
