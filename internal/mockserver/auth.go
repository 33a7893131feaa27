package mockserver

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/cataloro/cataloro-probe/internal/models"
)

const (
	tokenTTL    = 24 * time.Hour
	issuer      = "cataloro-mock"
	callerKey   = "caller"
	minPassword = 6
)

type claims struct {
	Email string          `json:"email"`
	Role  models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

type caller struct {
	ID    string
	Email string
	Role  models.UserRole
}

func (c caller) isAdmin() bool {
	return c.Role == models.UserRoleAdmin
}

func (s *Server) issueToken(u models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: u.Email,
		Role:  u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			ID:        uuid.NewString(),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

func (s *Server) parseToken(raw string) (*claims, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func hashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
}

func checkPassword(hash []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return c.Query("token")
}

// requireAuth rejects requests without a valid token and stores the caller.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			abort(c, http.StatusUnauthorized, "Not authenticated")
			return
		}
		cl, err := s.parseToken(raw)
		if err != nil {
			abort(c, http.StatusUnauthorized, "Invalid token")
			return
		}
		u, ok := s.state.user(cl.Subject)
		if !ok {
			abort(c, http.StatusUnauthorized, "Unknown user")
			return
		}
		if !u.IsActive {
			abort(c, http.StatusForbidden, "Account suspended")
			return
		}
		c.Set(callerKey, caller{ID: u.ID, Email: u.Email, Role: u.Role})
		c.Next()
	}
}

func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !callerFrom(c).isAdmin() {
			abort(c, http.StatusForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}

// requireSelf lets a user reach only their own /user/:id resources; admins reach all.
func (s *Server) requireSelf() gin.HandlerFunc {
	return func(c *gin.Context) {
		who := callerFrom(c)
		if !who.isAdmin() && who.ID != c.Param("id") {
			abort(c, http.StatusForbidden, "Access denied")
			return
		}
		c.Next()
	}
}

func callerFrom(c *gin.Context) caller {
	v, ok := c.Get(callerKey)
	if !ok {
		return caller{}
	}
	return v.(caller)
}

func (s *Server) seedAdmin(email, password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	_, ok := s.state.addUser(models.User{
		Username:           "admin",
		Email:              strings.ToLower(strings.TrimSpace(email)),
		FullName:           "Cataloro Admin",
		Role:               models.UserRoleAdmin,
		UserRole:           "Admin",
		Badge:              "Admin",
		RegistrationStatus: "Approved",
		IsActive:           true,
	}, hash)
	if !ok {
		return errors.New("admin already seeded")
	}
	return nil
}
