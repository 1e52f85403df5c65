package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/oauth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/utils"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type AuthServiceImpl struct {
	tx database.Transactor
	user.UserRepository
	company.CompanyRepository
	jwt.Service
	google oauth.GoogleService
}

// NewAuthService wires the auth flows. google may be nil, which disables Google sign-in.
func NewAuthService(
	tx database.Transactor,
	userRepository user.UserRepository,
	companyRepository company.CompanyRepository,
	jwtService jwt.Service,
	google oauth.GoogleService,
) auth.AuthService {
	return &AuthServiceImpl{
		tx:                tx,
		UserRepository:    userRepository,
		CompanyRepository: companyRepository,
		Service:           jwtService,
		google:            google,
	}
}

func (a *AuthServiceImpl) issueToken(u user.User) (auth.TokenResponse, error) {
	token, expiresAt, err := a.Service.Generate(jwt.Payload{
		UserID: u.ID,
		Role:   string(u.Role),
		Email:  u.Email,
	})
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	return auth.TokenResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      u.ToResponse(),
	}, nil
}

// Register implements auth.AuthService.
func (a *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}
	if req.Role == user.RoleAdmin {
		return auth.TokenResponse{}, auth.ErrAdminSelfRegistration
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser := user.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		IsActive:     true,
	}

	var created user.User
	if req.Role == user.RoleCompany {
		// Company and owner account are created together or not at all.
		err = a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
			newCompany, err := a.CompanyRepository.Create(txCtx, company.Company{
				Name:          req.CompanyDetails.CompanyName,
				Address:       req.CompanyDetails.Address,
				ContactPerson: req.CompanyDetails.ContactPerson,
				Phone:         req.CompanyDetails.Phone,
				Email:         req.Email,
				IsActive:      true,
			})
			if err != nil {
				return err
			}
			newUser.CompanyID = &newCompany.ID
			created, err = a.UserRepository.Create(txCtx, newUser)
			return err
		})
	} else {
		created, err = a.UserRepository.Create(ctx, newUser)
	}
	if err != nil {
		if errors.Is(err, user.ErrUserEmailExists) || errors.Is(err, company.ErrCompanyEmailExists) {
			return auth.TokenResponse{}, err
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to register user: %w", err)
	}

	return a.issueToken(created)
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userData, err := a.UserRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user data by email: %w", err)
	}

	if !utils.CheckPassword(userData.PasswordHash, req.Password) {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if !userData.IsActive {
		return auth.TokenResponse{}, auth.ErrAccountDeactivated
	}

	return a.issueToken(userData)
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context) (user.UserResponse, error) {
	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}

	userData, err := a.UserRepository.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.UserResponse{}, err
		}
		return user.UserResponse{}, fmt.Errorf("failed to get user: %w", err)
	}
	return userData.ToResponse(), nil
}

// GoogleAuthURL implements auth.AuthService.
func (a *AuthServiceImpl) GoogleAuthURL() (string, string, error) {
	if a.google == nil {
		return "", "", auth.ErrOAuthDisabled
	}
	state, err := a.google.GenerateState()
	if err != nil {
		return "", "", err
	}
	return a.google.RedirectURL(state), state, nil
}

// LoginWithGoogle implements auth.AuthService. Only existing accounts may sign
// in; the Google identity is linked on first use.
func (a *AuthServiceImpl) LoginWithGoogle(ctx context.Context, code string) (auth.TokenResponse, error) {
	if a.google == nil {
		return auth.TokenResponse{}, auth.ErrOAuthDisabled
	}

	token, err := a.google.Exchange(ctx, code)
	if err != nil {
		return auth.TokenResponse{}, auth.ErrUnauthorized
	}
	info, err := a.google.VerifyUser(ctx, token)
	if err != nil {
		if errors.Is(err, oauth.ErrEmailNotVerified) {
			return auth.TokenResponse{}, auth.ErrUnauthorized
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to verify google user: %w", err)
	}

	userData, err := a.UserRepository.GetByEmail(ctx, validator.NormalizeEmail(info.Email))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrOAuthAccountNotFound
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user data by email: %w", err)
	}
	if !userData.IsActive {
		return auth.TokenResponse{}, auth.ErrAccountDeactivated
	}

	if userData.OAuthProviderID == nil || *userData.OAuthProviderID != info.GoogleID {
		userData, err = a.UserRepository.LinkGoogleAccount(ctx, info.GoogleID, userData.Email)
		if err != nil {
			return auth.TokenResponse{}, fmt.Errorf("failed to link google account: %w", err)
		}
	}

	return a.issueToken(userData)
}
