package jwt

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// CookieName is the cookie the gate falls back to when no bearer header is sent.
const CookieName = "token"

var ErrInvalidToken = errors.New("invalid token")

// Payload is what a session token carries.
type Payload struct {
	UserID string
	Role   string
	Email  string
}

type Service interface {
	Generate(payload Payload) (token string, expiresAt time.Time, err error)
	Verify(token string) (Payload, error)
	JWTAuth() *jwtauth.JWTAuth
	TokenCookie(token string, expiresAt time.Time) *http.Cookie
	ClearTokenCookie() *http.Cookie
}

type JWTService struct {
	expiration   time.Duration
	secureCookie bool
	tokenAuth    *jwtauth.JWTAuth
	now          func() time.Time
}

func NewJWTService(secretKey string, expiration time.Duration, secureCookie bool) *JWTService {
	return &JWTService{
		expiration:   expiration,
		secureCookie: secureCookie,
		tokenAuth:    jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:          time.Now,
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) Generate(payload Payload) (string, time.Time, error) {
	issuedAt := j.now()
	expiresAt := issuedAt.Add(j.expiration)

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": payload.UserID,
		"role":    payload.Role,
		"email":   payload.Email,
		"iat":     issuedAt.Unix(),
		"exp":     expiresAt.Unix(),
	})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, expiresAt, nil
}

// Verify checks signature and expiry. Any failure is reported as ErrInvalidToken.
func (j *JWTService) Verify(tokenString string) (Payload, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return Payload{}, ErrInvalidToken
	}
	return PayloadFromClaims(token.PrivateClaims())
}

// PayloadFromClaims extracts the session payload from decoded private claims.
func PayloadFromClaims(claims map[string]interface{}) (Payload, error) {
	userID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)
	email, _ := claims["email"].(string)
	if userID == "" || role == "" {
		return Payload{}, ErrInvalidToken
	}
	return Payload{UserID: userID, Role: role, Email: email}, nil
}

func (j *JWTService) TokenCookie(token string, expiresAt time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   j.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

func (j *JWTService) ClearTokenCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   j.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}
