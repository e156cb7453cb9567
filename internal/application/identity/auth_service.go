package identity

import (
	"context"

	"go.uber.org/zap"

	"github.com/investtrack/backend/internal/domain/catalog"
	"github.com/investtrack/backend/internal/domain/identity"
	"github.com/investtrack/backend/internal/domain/shared"
	"github.com/investtrack/backend/internal/infrastructure/auth"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// Signup creates a new user account
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*SignupResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "User already exists")
	}

	user, err := identity.NewUser(
		req.FirstName,
		req.LastName,
		req.Email,
		req.Password,
		catalog.RiskLevel(req.RiskAppetite),
	)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user account created",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	return &SignupResponse{UserID: user.ID}, nil
}

// Login authenticates a user and returns a token pair
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		s.logger.Warn("login attempt for unknown email", zap.String("email", req.Email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	if !user.VerifyPassword(req.Password) {
		s.logger.Warn("login attempt with wrong password", zap.String("user_id", user.ID.String()))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	tokens, err := s.jwtService.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	user.RecordLoginSuccess()
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("failed to record login time", zap.Error(err))
	}

	return &LoginResponse{
		User:   ToUserResponse(user),
		Tokens: tokens,
	}, nil
}

// RefreshToken exchanges a valid refresh token for a new pair
func (s *AuthService) RefreshToken(ctx context.Context, req RefreshTokenRequest) (*auth.TokenPair, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Invalid or expired refresh token")
	}

	if s.blacklist != nil {
		revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, shared.NewDomainError("TOKEN_REVOKED", "Refresh token has been revoked")
		}
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Invalid or expired refresh token")
	}
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Invalid or expired refresh token")
	}

	return s.jwtService.RefreshTokenPair(req.RefreshToken)
}

// Logout revokes the presented access token for its remaining lifetime
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.jwtService.ValidateAccessToken(accessToken)
	if err != nil {
		return shared.NewDomainError("INVALID_TOKEN", "Invalid or expired token")
	}

	if s.blacklist != nil {
		if err := s.blacklist.Revoke(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
			return err
		}
	}

	s.logger.Info("user logged out", zap.String("user_id", claims.UserID))
	return nil
}
