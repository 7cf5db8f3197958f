package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xelaConnect/configs"
)

func newTestApp(t *testing.T, baseURL string) *App {
	t.Helper()
	v := viper.New()
	configs.SetDefaults(v)
	v.Set("api.base_url", baseURL)
	v.Set("storage.path", filepath.Join(t.TempDir(), "storage.yaml"))
	v.Set("log.level", "disabled")
	return New(&configs.Config{Viper: v})
}

func TestApp_LoginStoresTokenAndViewer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"user":{"id":"u1","name":"Alex Rivera"},"token":"t1"}}`))
	}))
	defer server.Close()
	application := newTestApp(t, server.URL)

	response, err := application.Login(context.Background(), "alex@xela.app", "secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", response.User.ID)

	token, err := application.Credentials().Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "t1", token)

	viewer, err := application.Storage().Get("viewer_id")
	require.NoError(t, err)
	assert.Equal(t, "u1", viewer)

	require.NoError(t, application.Logout())
	token, err = application.Credentials().Token(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestApp_LoginRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"errors":["wrong password"]}`))
	}))
	defer server.Close()
	application := newTestApp(t, server.URL)

	_, err := application.Login(context.Background(), "alex@xela.app", "nope")
	require.Error(t, err)

	token, err := application.Storage().Token(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestApp_ConfiguredTokenWins(t *testing.T) {
	application := newTestApp(t, "http://localhost:1")
	require.NoError(t, application.Storage().SetToken("stored"))
	application.Config().Viper.Set("api.token", "configured")

	token, err := application.Credentials().Token(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "configured", token)
}
