package africastalking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientValidatesURL(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "relative/path"}, zerolog.Nop())
	assert.Error(t, err)
}

func TestClient_Send(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "secret", r.Header.Get("apikey"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "sandbox", r.PostForm.Get("username"))
		assert.Equal(t, "+254712345678", r.PostForm.Get("to"))
		assert.Equal(t, "Your loan was approved", r.PostForm.Get("message"))
		assert.Equal(t, "ADASTE", r.PostForm.Get("from"))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL, Username: "sandbox", APIKey: "secret", SenderID: "ADASTE"}, zerolog.Nop())
	require.NoError(t, err)

	assert.NoError(t, c.Send(context.Background(), "+254712345678", "Your loan was approved"))
}

func TestClient_Send_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "The supplied authentication is invalid", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL}, zerolog.Nop())
	require.NoError(t, err)

	assert.Error(t, c.Send(context.Background(), "+254700000000", "hi"))
}
