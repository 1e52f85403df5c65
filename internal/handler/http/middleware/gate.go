package middleware

import (
	"net/http"
	"path"
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

const (
	LoginPage = "/login"
	HomePage  = "/"
)

var publicPaths = map[string]struct{}{
	"/":                               {},
	"/login":                          {},
	"/register":                       {},
	"/api/auth/login":                 {},
	"/api/auth/register":              {},
	"/api/auth/oauth/google":          {},
	"/api/auth/oauth/google/callback": {},
}

var staticPrefixes = []string{"/_next/", "/assets/", "/images/", "/favicon.ico"}

type roleRule struct {
	prefix string
	roles  []user.Role
}

// Paths not covered by a rule admit any authenticated role.
var roleRules = []roleRule{
	{"/api/admin", []user.Role{user.RoleAdmin}},
	{"/admin", []user.Role{user.RoleAdmin}},
	{"/api/company", []user.Role{user.RoleCompany, user.RoleAdmin}},
	{"/company", []user.Role{user.RoleCompany, user.RoleAdmin}},
	{"/api/staff", []user.Role{user.RoleStaff, user.RoleCompany, user.RoleAdmin}},
	{"/staff", []user.Role{user.RoleStaff, user.RoleCompany, user.RoleAdmin}},
}

// hasSegmentPrefix matches prefix only on a path segment boundary, so
// /api/admin covers /api/admin/users but not /api/administrator.
func hasSegmentPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func isPublic(path string) bool {
	if _, ok := publicPaths[path]; ok {
		return true
	}
	for _, prefix := range staticPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func isAPI(path string) bool {
	return hasSegmentPrefix(path, "/api")
}

// isCanonical reports whether p is already clean: no empty, "." or ".."
// segments. A single trailing slash is allowed.
func isCanonical(p string) bool {
	if p == "" || p[0] != '/' {
		return false
	}
	clean := path.Clean(p)
	if clean != "/" && strings.HasSuffix(p, "/") {
		clean += "/"
	}
	return clean == p
}

// RequiredRoles returns the roles allowed on path, or nil when any
// authenticated role is allowed.
func RequiredRoles(path string) []user.Role {
	for _, rule := range roleRules {
		if hasSegmentPrefix(path, rule.prefix) {
			return rule.roles
		}
	}
	return nil
}

// TokenFromCookie reads the session cookie.
func TokenFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(jwt.CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Gate authenticates and authorizes every request that is not public. The
// bearer header wins over the cookie. API paths get JSON 401/403 replies;
// page paths are redirected to the login or home page. Paths that are not
// canonical are refused with 404, so the role table always sees the path the
// router dispatches on.
func Gate(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if !isCanonical(path) {
				if isAPI(path) {
					response.NotFound(w, "Not found")
					return
				}
				http.NotFound(w, r)
				return
			}
			if isPublic(path) {
				next.ServeHTTP(w, r)
				return
			}

			token, err := jwtauth.VerifyRequest(ja, r, jwtauth.TokenFromHeader, TokenFromCookie)
			if err != nil || token == nil {
				deny(w, r, http.StatusUnauthorized)
				return
			}
			payload, err := jwt.PayloadFromClaims(token.PrivateClaims())
			if err != nil || !user.Role(payload.Role).IsValid() {
				deny(w, r, http.StatusUnauthorized)
				return
			}

			if !auth.Authorize(user.Role(payload.Role), RequiredRoles(path)...) {
				deny(w, r, http.StatusForbidden)
				return
			}

			ctx := jwtauth.NewContext(r.Context(), token, nil)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}

func deny(w http.ResponseWriter, r *http.Request, status int) {
	if isAPI(r.URL.Path) {
		if status == http.StatusForbidden {
			response.Forbidden(w, "Forbidden")
			return
		}
		response.Unauthorized(w, "Unauthorized")
		return
	}

	target := LoginPage
	if status == http.StatusForbidden {
		target = HomePage
	}
	http.Redirect(w, r, target, http.StatusFound)
}
