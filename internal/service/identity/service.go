// Package identity signs accounts in through the external identity provider
// and issues the API's own session tokens.
package identity

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockbook/internal/cache"
	"github.com/mamadbah2/stockbook/internal/config"
	"github.com/mamadbah2/stockbook/internal/core/apperror"
	"github.com/mamadbah2/stockbook/internal/domain/models"
	identityclient "github.com/mamadbah2/stockbook/pkg/clients/identity"
)

const issuer = "stockbook"

// WorkspaceInitializer prepares the workspace of a freshly signed-up account.
type WorkspaceInitializer interface {
	Initialize(ctx context.Context, id models.Identity) (*models.Workspace, error)
}

// Claims are the session token claims. The registered ID is the session id
// used for revocation.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Principal is an authenticated request's account and session.
type Principal struct {
	models.Identity
	SessionID string
	ExpiresAt time.Time
}

type Service struct {
	client    identityclient.Client
	revoked   cache.RevocationStore
	workspace WorkspaceInitializer
	secret    []byte
	ttl       time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(client identityclient.Client, revoked cache.RevocationStore, workspace WorkspaceInitializer, cfg config.AuthConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client:    client,
		revoked:   revoked,
		workspace: workspace,
		secret:    []byte(cfg.JWTSecret),
		ttl:       cfg.SessionTTL,
		logger:    logger,
		now:       time.Now,
	}
}

func validateCredentials(creds models.Credentials, signUp bool) error {
	email := strings.TrimSpace(creds.Email)
	if email == "" || creds.Password == "" {
		return apperror.NewValidation("email and password are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return authError(apperror.AuthInvalidEmail)
	}
	if signUp && len(creds.Password) < 6 {
		return authError(apperror.AuthWeakPassword)
	}
	return nil
}

// SignUp registers an account, creates its empty workspace and signs it in.
func (s *Service) SignUp(ctx context.Context, creds models.Credentials) (*models.Session, error) {
	if err := validateCredentials(creds, true); err != nil {
		return nil, err
	}

	account, err := s.client.SignUp(ctx, strings.TrimSpace(creds.Email), creds.Password)
	if err != nil {
		s.logger.Info("sign-up rejected", zap.Error(err))
		return nil, mapProviderError(err)
	}
	return s.establish(ctx, account, true)
}

// SignIn authenticates with email and password.
func (s *Service) SignIn(ctx context.Context, creds models.Credentials) (*models.Session, error) {
	if err := validateCredentials(creds, false); err != nil {
		return nil, err
	}

	account, err := s.client.SignInWithPassword(ctx, strings.TrimSpace(creds.Email), creds.Password)
	if err != nil {
		s.logger.Info("sign-in rejected", zap.Error(err))
		return nil, mapProviderError(err)
	}
	return s.establish(ctx, account, false)
}

// SignInFederated exchanges a third-party credential. First-time accounts get
// an empty workspace.
func (s *Service) SignInFederated(ctx context.Context, creds models.FederatedCredentials) (*models.Session, error) {
	account, err := s.client.SignInWithIdp(ctx, identityclient.IdpRequest{
		ProviderID: creds.ProviderID,
		IDToken:    creds.IDToken,
		RequestURI: creds.RequestURI,
	})
	if err != nil {
		s.logger.Info("federated sign-in rejected", zap.String("provider", creds.ProviderID), zap.Error(err))
		return nil, mapProviderError(err)
	}
	return s.establish(ctx, account, account.IsNewUser)
}

func (s *Service) establish(ctx context.Context, account *identityclient.Account, newUser bool) (*models.Session, error) {
	id := models.Identity{UserID: account.LocalID, Email: account.Email}
	if id.UserID == "" {
		return nil, authError(apperror.AuthGeneric)
	}

	if newUser {
		if _, err := s.workspace.Initialize(ctx, id); err != nil {
			return nil, err
		}
	}

	token, expiresAt, err := s.issue(id)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	s.logger.Info("session issued", zap.String("user_id", id.UserID), zap.Bool("new_user", newUser))
	return &models.Session{AccessToken: token, ExpiresAt: expiresAt, User: id, NewUser: newUser}, nil
}

func (s *Service) issue(id models.Identity) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email: id.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt.UTC(), nil
}

func (s *Service) parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, apperror.NewUnauthorized("invalid or expired token")
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, apperror.NewUnauthorized("invalid token subject")
	}
	return claims, nil
}

// Authenticate validates a bearer token and rejects revoked sessions.
func (s *Service) Authenticate(ctx context.Context, tokenString string) (*Principal, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.logger.Error("failed to check session revocation", zap.Error(err))
		return nil, apperror.NewInternal(err)
	}
	if revoked {
		return nil, apperror.NewUnauthorized("session has been signed out")
	}

	return &Principal{
		Identity:  models.Identity{UserID: claims.Subject, Email: claims.Email},
		SessionID: claims.ID,
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}, nil
}

// SignOut revokes the session until its token would have expired anyway.
func (s *Service) SignOut(ctx context.Context, p *Principal) error {
	ttl := p.ExpiresAt.Sub(s.now())
	if err := s.revoked.Revoke(ctx, p.SessionID, ttl); err != nil {
		s.logger.Error("failed to revoke session", zap.String("user_id", p.UserID), zap.Error(err))
		return apperror.NewInternal(err)
	}
	s.logger.Info("session revoked", zap.String("user_id", p.UserID))
	return nil
}
