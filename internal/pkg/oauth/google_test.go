package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestGenerateState_Unique(t *testing.T) {
	g := NewGoogleService("id", "secret", "http://localhost/cb", nil)

	a, err := g.GenerateState()
	require.NoError(t, err)
	b, err := g.GenerateState()
	require.NoError(t, err)

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestRedirectURL_CarriesState(t *testing.T) {
	g := NewGoogleService("client-123", "secret", "http://localhost/cb", nil)

	u, err := url.Parse(g.RedirectURL("abc"))
	require.NoError(t, err)
	assert.Equal(t, "abc", u.Query().Get("state"))
	assert.Equal(t, "client-123", u.Query().Get("client_id"))
}

func TestVerifyUser(t *testing.T) {
	t.Run("verified email", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"g-1","email":"jane@example.com","name":"Jane","verified_email":true}`))
		}))
		defer srv.Close()

		g := NewGoogleService("id", "secret", "http://localhost/cb", nil)
		g.userInfoURL = srv.URL

		info, err := g.VerifyUser(context.Background(), &oauth2.Token{AccessToken: "tok", TokenType: "Bearer"})
		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", info.Email)
		assert.Equal(t, "Jane", info.Name)
	})

	t.Run("unverified email", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id":"g-1","email":"jane@example.com","verified_email":false}`))
		}))
		defer srv.Close()

		g := NewGoogleService("id", "secret", "http://localhost/cb", nil)
		g.userInfoURL = srv.URL

		_, err := g.VerifyUser(context.Background(), &oauth2.Token{AccessToken: "tok"})
		assert.ErrorIs(t, err, ErrEmailNotVerified)
	})

	t.Run("upstream failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		g := NewGoogleService("id", "secret", "http://localhost/cb", nil)
		g.userInfoURL = srv.URL

		_, err := g.VerifyUser(context.Background(), &oauth2.Token{AccessToken: "tok"})
		assert.Error(t, err)
	})
}
