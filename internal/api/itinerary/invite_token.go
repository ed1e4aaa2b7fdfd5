package itinerary

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/voyaiger/voyaiger-server/config"
	"github.com/voyaiger/voyaiger-server/internal/api"
	"github.com/voyaiger/voyaiger-server/internal/types"
)

const defaultInviteTTL = 7 * 24 * time.Hour

// InviteClaims is the payload carried inside an invite link. Short claim keys
// keep the token, and so the link, compact.
type InviteClaims struct {
	InviteID    string `json:"inv"`
	ItineraryID string `json:"itn"`
	Email       string `json:"eml"`
	jwt.RegisteredClaims
}

// InviteUUID returns the invite row the claims point at.
func (c *InviteClaims) InviteUUID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.InviteID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invite token carries a malformed invite id: %w", err)
	}
	return id, nil
}

// InviteTokens mints and verifies the HS256-signed tokens embedded in invite
// links. Responding to an invite requires presenting the token, so a plain
// invite ID is never enough to accept on someone else's behalf.
type InviteTokens struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

func NewInviteTokens(cfg config.JWTConfig) (*InviteTokens, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("JWT secret key is not configured")
	}
	ttl := cfg.InviteTTL
	if ttl <= 0 {
		ttl = defaultInviteTTL
	}
	return &InviteTokens{
		secret:   []byte(cfg.SecretKey),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      ttl,
	}, nil
}

func (t *InviteTokens) Mint(invite *types.Invite) (string, error) {
	now := time.Now()
	claims := InviteClaims{
		InviteID:    invite.ID.String(),
		ItineraryID: invite.ItineraryID.String(),
		Email:       invite.InviteeEmail,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   invite.InviteeEmail,
			Audience:  jwt.ClaimStrings{t.audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign invite token: %w", err)
	}
	return signed, nil
}

// Parse validates a token from an invite link. Expiry is enforced by the jwt
// parser; issuer and audience are checked here so a token minted for another
// deployment cannot be replayed against this one.
func (t *InviteTokens) Parse(tokenString string) (*InviteClaims, error) {
	claims := &InviteClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid invite token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid invite token")
	}
	if t.issuer != "" && claims.Issuer != t.issuer {
		return nil, errors.New("invite token issuer mismatch")
	}
	if t.audience != "" && !api.VerifyAudience(claims.Audience, t.audience) {
		return nil, errors.New("invite token audience mismatch")
	}
	return claims, nil
}
