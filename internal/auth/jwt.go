package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"dealdesk/internal/models"
)

type Claims struct {
	LPID        uint64 `json:"lp_id"`
	Name        string `json:"name"`
	PartnerType string `json:"partner_type"`

	jwt.RegisteredClaims
}

type JWT struct {
	Secret   []byte
	TokenTTL time.Duration
}

func (j JWT) Sign(claims Claims) (token string, expiresAt time.Time, err error) {
	now := time.Now().UTC()
	if claims.IssuedAt == nil {
		claims.IssuedAt = jwt.NewNumericDate(now)
	}
	if claims.NotBefore == nil {
		claims.NotBefore = jwt.NewNumericDate(now.Add(-5 * time.Second))
	}
	if claims.ExpiresAt == nil {
		expiresAt = now.Add(j.TokenTTL)
		claims.ExpiresAt = jwt.NewNumericDate(expiresAt)
	} else {
		expiresAt = claims.ExpiresAt.Time
	}
	if claims.Issuer == "" {
		claims.Issuer = "dealdesk"
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(j.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return s, expiresAt, nil
}

func (j JWT) Verify(token string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return j.Secret, nil
	})
	if err != nil {
		return Claims{}, err
	}
	c, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Claims{}, errors.New("invalid token")
	}
	return *c, nil
}

// ActingUser is the resolved identity every mutating operation receives
// explicitly. Never read from ambient state.
type ActingUser struct {
	LPID        uint64
	Name        string
	PartnerType string
}

// CanEditDeals reports whether the actor may mutate deal records.
func (u ActingUser) CanEditDeals() bool {
	return u.PartnerType == models.PartnerTypeGeneral || u.PartnerType == models.PartnerTypeVenture
}
