package http

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFrontendURL = "http://localhost:3000"

type fakeAuthService struct {
	auth.AuthService

	register        func(req auth.RegisterRequest) (auth.TokenResponse, error)
	login           func(req auth.LoginRequest) (auth.TokenResponse, error)
	googleAuthURL   func() (string, string, error)
	loginWithGoogle func(code string) (auth.TokenResponse, error)
}

func (f *fakeAuthService) Register(_ context.Context, req auth.RegisterRequest) (auth.TokenResponse, error) {
	return f.register(req)
}

func (f *fakeAuthService) Login(_ context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	return f.login(req)
}

func (f *fakeAuthService) GoogleAuthURL() (string, string, error) {
	return f.googleAuthURL()
}

func (f *fakeAuthService) LoginWithGoogle(_ context.Context, code string) (auth.TokenResponse, error) {
	return f.loginWithGoogle(code)
}

func tokenFor(role user.Role) auth.TokenResponse {
	return auth.TokenResponse{
		Token:     "signed-token",
		ExpiresAt: time.Now().Add(time.Hour),
		User:      user.UserResponse{ID: "u-1", Email: "jane@example.com", Role: role, IsActive: true},
	}
}

func newTestAuthHandler(svc auth.AuthService) AuthHandler {
	return NewAuthHandler(jwt.NewJWTService("handler-test-secret", time.Hour, false), svc, testFrontendURL, false)
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuthHandler_Register(t *testing.T) {
	svc := &fakeAuthService{
		register: func(req auth.RegisterRequest) (auth.TokenResponse, error) {
			if req.Role == user.RoleAdmin {
				return auth.TokenResponse{}, auth.ErrAdminSelfRegistration
			}
			return tokenFor(req.Role), nil
		},
	}
	h := newTestAuthHandler(svc)

	t.Run("created with cookie", func(t *testing.T) {
		rec := serve(h.Register, newRequest(t, http.MethodPost, "/api/auth/register", `{"name":"Jane","email":"jane@example.com","password":"secret1"}`))

		require.Equal(t, http.StatusCreated, rec.Code)
		cookie := findCookie(rec.Result().Cookies(), jwt.CookieName)
		require.NotNil(t, cookie)
		assert.Equal(t, "signed-token", cookie.Value)
		assert.True(t, cookie.HttpOnly)
		assert.Contains(t, string(decodeEnvelope(t, rec).Data), `"role":"staff"`)
	})

	t.Run("short password", func(t *testing.T) {
		rec := serve(h.Register, newRequest(t, http.MethodPost, "/api/auth/register", `{"name":"Jane","email":"jane@example.com","password":"123"}`))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeEnvelope(t, rec).Error.Details, "password")
	})

	t.Run("admin is refused", func(t *testing.T) {
		rec := serve(h.Register, newRequest(t, http.MethodPost, "/api/auth/register", `{"name":"Root","email":"root@example.com","password":"secret1","role":"admin"}`))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := serve(h.Register, newRequest(t, http.MethodPost, "/api/auth/register", `{`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid request format", decodeEnvelope(t, rec).Message)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	svc := &fakeAuthService{
		login: func(req auth.LoginRequest) (auth.TokenResponse, error) {
			if req.Password != "secret1" {
				return auth.TokenResponse{}, auth.ErrInvalidCredentials
			}
			return tokenFor(user.RoleCompany), nil
		},
	}
	h := newTestAuthHandler(svc)

	rec := serve(h.Login, newRequest(t, http.MethodPost, "/api/auth/login", `{"email":"jane@example.com","password":"secret1"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, findCookie(rec.Result().Cookies(), jwt.CookieName))
	assert.Contains(t, string(decodeEnvelope(t, rec).Data), `"token":"signed-token"`)

	rec = serve(h.Login, newRequest(t, http.MethodPost, "/api/auth/login", `{"email":"jane@example.com","password":"wrong"}`))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password", decodeEnvelope(t, rec).Message)
	assert.Nil(t, findCookie(rec.Result().Cookies(), jwt.CookieName))
}

func TestAuthHandler_Logout(t *testing.T) {
	h := newTestAuthHandler(&fakeAuthService{})

	rec := serve(h.Logout, newRequest(t, http.MethodPost, "/api/auth/logout", ""))
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := findCookie(rec.Result().Cookies(), jwt.CookieName)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestAuthHandler_LoginWithGoogle(t *testing.T) {
	t.Run("redirects with state cookie", func(t *testing.T) {
		svc := &fakeAuthService{
			googleAuthURL: func() (string, string, error) {
				return "https://accounts.google.com/o/oauth2/auth?state=state-123", "state-123", nil
			},
		}
		h := newTestAuthHandler(svc)

		rec := serve(h.LoginWithGoogle, newRequest(t, http.MethodGet, "/api/auth/oauth/google", ""))
		require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
		assert.Contains(t, rec.Header().Get("Location"), "accounts.google.com")
		state := findCookie(rec.Result().Cookies(), oauthStateCookie)
		require.NotNil(t, state)
		assert.Equal(t, "state-123", state.Value)
	})

	t.Run("disabled", func(t *testing.T) {
		svc := &fakeAuthService{
			googleAuthURL: func() (string, string, error) {
				return "", "", auth.ErrOAuthDisabled
			},
		}
		rec := serve(newTestAuthHandler(svc).LoginWithGoogle, newRequest(t, http.MethodGet, "/api/auth/oauth/google", ""))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAuthHandler_OAuthCallbackGoogle(t *testing.T) {
	callback := func(t *testing.T, svc auth.AuthService, query string, state string) (*http.Response, *url.URL) {
		t.Helper()
		req := newRequest(t, http.MethodGet, oauthCallbackURL+"?"+query, "")
		if state != "" {
			req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: state})
		}
		rec := serve(newTestAuthHandler(svc).OAuthCallbackGoogle, req)
		require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
		location, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		return rec.Result(), location
	}

	t.Run("success lands on role home", func(t *testing.T) {
		var gotCode string
		svc := &fakeAuthService{
			loginWithGoogle: func(code string) (auth.TokenResponse, error) {
				gotCode = code
				return tokenFor(user.RoleCompany), nil
			},
		}
		res, location := callback(t, svc, "state=abc&code=xyz", "abc")

		assert.Equal(t, "xyz", gotCode)
		assert.Equal(t, "/company", location.Path)
		require.NotNil(t, findCookie(res.Cookies(), jwt.CookieName))
	})

	t.Run("state mismatch", func(t *testing.T) {
		_, location := callback(t, &fakeAuthService{}, "state=abc&code=xyz", "other")
		assert.Equal(t, "/login", location.Path)
		assert.Equal(t, "state_mismatch", location.Query().Get("error"))
	})

	t.Run("missing state cookie", func(t *testing.T) {
		_, location := callback(t, &fakeAuthService{}, "state=abc&code=xyz", "")
		assert.Equal(t, "state_mismatch", location.Query().Get("error"))
	})

	t.Run("provider error", func(t *testing.T) {
		_, location := callback(t, &fakeAuthService{}, "error=access_denied", "abc")
		assert.Equal(t, "access_denied", location.Query().Get("error"))
	})

	t.Run("unknown account", func(t *testing.T) {
		svc := &fakeAuthService{
			loginWithGoogle: func(string) (auth.TokenResponse, error) {
				return auth.TokenResponse{}, auth.ErrOAuthAccountNotFound
			},
		}
		res, location := callback(t, svc, "state=abc&code=xyz", "abc")
		assert.Equal(t, "account_not_found", location.Query().Get("error"))
		assert.Nil(t, findCookie(res.Cookies(), jwt.CookieName))
	})
}
