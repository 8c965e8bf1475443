package proof

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the JWT claim set a signed Proof carries: enough to identify
// which finding the token vouches for and whether it should still be
// trusted, without embedding the (potentially large) Proof body itself.
type Claims struct {
	jwt.RegisteredClaims
	FindingID  string  `json:"finding_id"`
	Confidence float64 `json:"confidence"`
}

// Signer issues and verifies HMAC-signed tokens over a Proof's identity.
// Unlike the multi-key RSA identity tokens elsewhere in this stack, a
// verification core has exactly one signing party (the process that ran
// the validation), so a single shared secret is sufficient.
type Signer struct {
	secret []byte
	issuer string
}

// NewSigner builds a Signer using secret as the HMAC key.
func NewSigner(secret []byte, issuer string) *Signer {
	return &Signer{secret: secret, issuer: issuer}
}

// Sign issues a token asserting that p was produced by this signer, valid
// for ttl from now.
func (s *Signer) Sign(p Proof, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(p.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    s.issuer,
		},
		FindingID:  string(p.ID),
		Confidence: causalConfidence(p),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("proof: sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token issued by Sign, returning its claims.
func (s *Signer) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("proof: unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return claims, nil
}

func causalConfidence(p Proof) float64 {
	return p.CausalChain.Confidence
}
