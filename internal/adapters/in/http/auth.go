package http

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const requesterKey = "requester"

var (
	ErrUnauthorized = errors.New("missing or invalid bearer token")
	ErrWrongRole    = errors.New("role is not allowed to call this endpoint")
)

// Claims are the bearer token claims issued by the identity service.
type Claims struct {
	Role     string `json:"role"`
	VendorID string `json:"vendorId,omitempty"`
	jwt.RegisteredClaims
}

// Authenticator verifies HS256 bearer tokens. Tokens are issued elsewhere.
type Authenticator struct {
	secret []byte
	parser *jwt.Parser
}

func NewAuthenticator(secret string) (*Authenticator, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	return &Authenticator{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithLeeway(30*time.Second),
		),
	}, nil
}

// Verify turns a token into the caller of a command.
func (a *Authenticator) Verify(token string) (commands.Requester, error) {
	claims := &Claims{}
	if _, err := a.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}); err != nil {
		return commands.Requester{}, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	role := commands.Role(claims.Role)
	if role == commands.RoleSystem {
		return commands.Requester{}, fmt.Errorf("%w: role %q cannot be asserted by a token", ErrUnauthorized, role)
	}

	id, err := kernel.UUIDFromString(claims.Subject)
	if err != nil {
		return commands.Requester{}, fmt.Errorf("%w: sub: %w", ErrUnauthorized, err)
	}

	var vendorID *kernel.UUID
	if claims.VendorID != "" {
		v, err := kernel.UUIDFromString(claims.VendorID)
		if err != nil {
			return commands.Requester{}, fmt.Errorf("%w: vendorId: %w", ErrUnauthorized, err)
		}
		vendorID = &v
	}

	requester, err := commands.NewRequester(id, role, vendorID)
	if err != nil {
		return commands.Requester{}, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	return requester, nil
}

// Sign issues a token for local development and tests.
func (a *Authenticator) Sign(id kernel.UUID, role commands.Role, vendorID *kernel.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if vendorID != nil {
		claims.VendorID = vendorID.String()
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Middleware requires a valid bearer token and stores the caller on the context.
func (a *Authenticator) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				return ErrUnauthorized
			}
			requester, err := a.Verify(strings.TrimSpace(token))
			if err != nil {
				return err
			}
			c.Set(requesterKey, requester)
			return next(c)
		}
	}
}

// RequireRoles rejects callers whose role is not listed.
func RequireRoles(roles ...commands.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requester, err := requesterFrom(c)
			if err != nil {
				return err
			}
			if !slices.Contains(roles, requester.Role()) {
				return fmt.Errorf("%w: %s", ErrWrongRole, requester.Role())
			}
			return next(c)
		}
	}
}

func requesterFrom(c echo.Context) (commands.Requester, error) {
	requester, ok := c.Get(requesterKey).(commands.Requester)
	if !ok {
		return commands.Requester{}, ErrUnauthorized
	}
	return requester, nil
}
