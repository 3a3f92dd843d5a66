package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	env "github.com/Netflix/go-env"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mrled/suns/msgsvc/internal/config"
	"github.com/mrled/suns/msgsvc/internal/logger"
)

func TestNew_TestProfile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg, err := config.FromEnvSet(env.EnvSet{"ENV_NAME": "test", "API_PREFIX": "/api/v9"})
	require.NoError(t, err)

	a, err := New(context.Background(), cfg, logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, a.Close()) })

	w := httptest.NewRecorder()
	a.Server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v9/messages", strings.NewReader(`{"content":"wow"}`)))
	require.Equal(t, http.StatusCreated, w.Code)

	all, err := a.Messages.All(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestNew_WithAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg, err := config.FromEnvSet(env.EnvSet{"ENV_NAME": "test", "AUTH_JWT_SECRET": "s3cret"})
	require.NoError(t, err)

	a, err := New(context.Background(), cfg, logger.Discard())
	require.NoError(t, err)

	w := httptest.NewRecorder()
	a.Server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/messages", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNew_SQLiteFromDevProfile(t *testing.T) {
	cfg, err := config.FromEnvSet(env.EnvSet{"ENV_NAME": "dev", "SQLITE_PATH": t.TempDir() + "/app.db"})
	require.NoError(t, err)

	svc, closeFn, err := NewService(context.Background(), cfg, logger.Discard())
	require.NoError(t, err)
	defer closeFn()

	msg, err := svc.Create(context.Background(), "level")
	require.NoError(t, err)
	require.True(t, msg.Properties.Palindrome)
}
