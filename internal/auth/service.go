package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var (
	// ErrInvalidCredentials covers unknown emails and wrong passwords alike.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidToken covers malformed, expired and mistyped tokens.
	ErrInvalidToken = errors.New("invalid token")
)

// Roles known to the platform.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// User is a registered account.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Claims are the identity facts carried by a verified access token.
type Claims struct {
	UserID string
	Role   string
}

// Service implements registration, login and token verification.
type Service struct {
	DB         *pgxpool.Pool
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// RegisterInput is the signup payload.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// Register creates a new customer account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	hash, err := argon2id.CreateHash(in.Password, argon2id.DefaultParams)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	u := User{
		ID:    uuid.NewString(),
		Email: strings.ToLower(strings.TrimSpace(in.Email)),
		Name:  strings.TrimSpace(in.Name),
		Role:  RoleCustomer,
	}
	err = s.DB.QueryRow(ctx, `
		INSERT INTO users (id, email, name, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		u.ID, u.Email, u.Name, hash, u.Role).Scan(&u.CreatedAt)
	if isUniqueViolation(err) {
		return User{}, ErrEmailTaken
	}
	if err != nil {
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// Login verifies the credentials and issues a token pair.
func (s *Service) Login(ctx context.Context, email, password string) (TokenPair, User, error) {
	var u User
	var hash string
	err := s.DB.QueryRow(ctx, `
		SELECT id, email, name, role, password_hash, created_at
		FROM users WHERE email = $1`, strings.ToLower(strings.TrimSpace(email))).
		Scan(&u.ID, &u.Email, &u.Name, &u.Role, &hash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return TokenPair{}, User{}, ErrInvalidCredentials
	}
	if err != nil {
		return TokenPair{}, User{}, fmt.Errorf("find user: %w", err)
	}
	match, err := argon2id.ComparePasswordAndHash(password, hash)
	if err != nil {
		return TokenPair{}, User{}, fmt.Errorf("verify password: %w", err)
	}
	if !match {
		return TokenPair{}, User{}, ErrInvalidCredentials
	}
	pair, err := s.issuePair(u.ID, u.Role)
	if err != nil {
		return TokenPair{}, User{}, err
	}
	return pair, u, nil
}

// Refresh exchanges a valid refresh token for a fresh pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.parse(refreshToken, tokenTypeRefresh)
	if err != nil {
		return TokenPair{}, err
	}
	var role string
	err = s.DB.QueryRow(ctx, `SELECT role FROM users WHERE id = $1`, claims.UserID).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return TokenPair{}, ErrInvalidToken
	}
	if err != nil {
		return TokenPair{}, fmt.Errorf("find user: %w", err)
	}
	return s.issuePair(claims.UserID, role)
}

// Me loads the account behind an authenticated request.
func (s *Service) Me(ctx context.Context, userID string) (User, error) {
	var u User
	err := s.DB.QueryRow(ctx, `
		SELECT id, email, name, role, created_at FROM users WHERE id = $1`, userID).
		Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrInvalidToken
	}
	if err != nil {
		return User{}, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

// VerifyAccessToken validates a bearer token and returns its claims.
func (s *Service) VerifyAccessToken(token string) (Claims, error) {
	return s.parse(token, tokenTypeAccess)
}

func (s *Service) issuePair(userID, role string) (TokenPair, error) {
	access, err := s.sign(userID, role, tokenTypeAccess, s.AccessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.sign(userID, role, tokenTypeRefresh, s.RefreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Service) sign(userID, role, typ string, ttl time.Duration) (string, error) {
	now := time.Now()
	tok, err := jwt.NewBuilder().
		Subject(userID).
		IssuedAt(now).
		Expiration(now.Add(ttl)).
		Claim("role", role).
		Claim("typ", typ).
		Build()
	if err != nil {
		return "", fmt.Errorf("build token: %w", err)
	}
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, s.Secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return string(signed), nil
}

func (s *Service) parse(token, wantType string) (Claims, error) {
	tok, err := jwt.Parse([]byte(token), jwt.WithKey(jwa.HS256, s.Secret), jwt.WithValidate(true))
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	typ, _ := tok.Get("typ")
	if typ != wantType {
		return Claims{}, ErrInvalidToken
	}
	role, _ := tok.Get("role")
	roleStr, _ := role.(string)
	if tok.Subject() == "" {
		return Claims{}, ErrInvalidToken
	}
	return Claims{UserID: tok.Subject(), Role: roleStr}, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
