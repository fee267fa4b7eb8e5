package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	intdb "horizontravels/internal/db"
	"horizontravels/internal/domain"
	"horizontravels/internal/domain/models"
	"horizontravels/internal/repositories"
	"horizontravels/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var errInvalidCredentials = domain.UnauthorizedError{Msg: "invalid email/username or password"}

// TokenRevoker remembers logged-out session tokens until they expire.
type TokenRevoker interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// SessionClaims is the payload of a session token.
type SessionClaims struct {
	UserID  int64 `json:"user_id"`
	IsAdmin bool  `json:"is_admin"`
	jwt.RegisteredClaims
}

// AuthService registers users and issues, checks and revokes session tokens.
type AuthService struct {
	DB        *sql.DB
	Secret    []byte
	TTL       time.Duration
	Now       utils.Clock
	Revoker   TokenRevoker
	RequestID string
}

func (s AuthService) Register(ctx context.Context, in models.RegisterInput) (models.PublicUser, error) {
	return createUser(ctx, s.DB, s.RequestID, in, false)
}

// createUser is shared by self registration and admin user creation.
func createUser(ctx context.Context, db *sql.DB, requestID string, in models.RegisterInput, isAdmin bool) (models.PublicUser, error) {
	in.Name = utils.NormalizeSpace(in.Name)
	in.Contact = strings.TrimSpace(in.Contact)
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateInput(in); err != nil {
		return models.PublicUser{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.PublicUser{}, domain.InternalError{Msg: "could not hash password", Err: err}
	}

	var out models.User
	err = intdb.WithinTx(ctx, db, func(tx *sql.Tx) error {
		repo := repositories.UserRepository{DB: tx}
		n, err := repo.CountByEmailOrUsername(ctx, in.Email, in.Username)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.ConflictError{Resource: "user", Code: "user_exists", Msg: "email or username already registered"}
		}
		id, err := repo.Create(ctx, models.User{
			Name:         in.Name,
			Contact:      in.Contact,
			Username:     in.Username,
			Email:        in.Email,
			PasswordHash: string(hash),
			IsAdmin:      isAdmin,
		})
		if err != nil {
			return err
		}
		out, err = repo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return models.PublicUser{}, err
	}
	utils.LogEvent(requestID, "auth", "register", fmt.Sprintf("user_id=%d admin=%t", out.ID, isAdmin))
	return out.ToPublic(), nil
}

// Login checks credentials and returns a signed session token.
func (s AuthService) Login(ctx context.Context, in models.LoginInput) (string, time.Time, models.PublicUser, error) {
	if err := validateInput(in); err != nil {
		return "", time.Time{}, models.PublicUser{}, err
	}
	u, err := repositories.UserRepository{DB: s.DB}.GetByLogin(ctx, in.Email)
	if domain.IsNotFound(err) {
		return "", time.Time{}, models.PublicUser{}, errInvalidCredentials
	}
	if err != nil {
		return "", time.Time{}, models.PublicUser{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return "", time.Time{}, models.PublicUser{}, errInvalidCredentials
	}
	token, exp, err := s.IssueToken(u)
	if err != nil {
		return "", time.Time{}, models.PublicUser{}, err
	}
	utils.LogEvent(s.RequestID, "auth", "login", fmt.Sprintf("user_id=%d", u.ID))
	return token, exp, u.ToPublic(), nil
}

func (s AuthService) ttl() time.Duration {
	if s.TTL <= 0 {
		return 24 * time.Hour
	}
	return s.TTL
}

func (s AuthService) IssueToken(u models.User) (string, time.Time, error) {
	if len(s.Secret) == 0 {
		return "", time.Time{}, domain.InternalError{Msg: "session secret not configured"}
	}
	now := s.Now.Now()
	exp := now.Add(s.ttl())
	claims := SessionClaims{
		UserID:  u.ID,
		IsAdmin: u.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", u.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", time.Time{}, domain.InternalError{Msg: "could not sign session", Err: err}
	}
	return signed, exp, nil
}

func (s AuthService) parse(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.Now.Now))
	if err != nil {
		return nil, domain.UnauthorizedError{Msg: "invalid or expired session"}
	}
	return claims, nil
}

// Authenticate turns a session token into the caller's request context.
func (s AuthService) Authenticate(ctx context.Context, token string) (domain.RequestContext, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.RequestContext{}, domain.UnauthorizedError{Msg: "login required"}
	}
	claims, err := s.parse(token)
	if err != nil {
		return domain.RequestContext{}, err
	}
	if s.Revoker != nil {
		revoked, err := s.Revoker.IsRevoked(ctx, token)
		if err != nil {
			utils.LogWarn(s.RequestID, "auth", "revocation_check", err.Error())
		} else if revoked {
			return domain.RequestContext{}, domain.UnauthorizedError{Msg: "session has been logged out"}
		}
	}
	if s.DB == nil {
		return domain.RequestContext{}, domain.InternalError{Msg: "database not connected"}
	}
	// Role and account state come from the row, not the token.
	u, err := repositories.UserRepository{DB: s.DB}.GetByID(ctx, claims.UserID)
	if err != nil {
		if domain.IsNotFound(err) {
			return domain.RequestContext{}, domain.UnauthorizedError{Msg: "account no longer exists"}
		}
		return domain.RequestContext{}, err
	}
	return domain.RequestContext{UserID: u.ID, IsAdmin: u.IsAdmin}, nil
}

// Logout revokes the token for the rest of its lifetime. Invalid tokens are ignored.
func (s AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.parse(strings.TrimSpace(token))
	if err != nil {
		return nil
	}
	if s.Revoker == nil || claims.ExpiresAt == nil {
		return nil
	}
	ttl := claims.ExpiresAt.Time.Sub(s.Now.Now())
	if ttl <= 0 {
		return nil
	}
	if err := s.Revoker.Revoke(ctx, token, ttl); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	utils.LogEvent(s.RequestID, "auth", "logout", fmt.Sprintf("user_id=%d", claims.UserID))
	return nil
}
