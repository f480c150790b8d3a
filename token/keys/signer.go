package keys

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Signer signs and verifies tokens with a single key pair
type Signer struct {
	keyPair *KeyPair
}

func NewSigner(keyPair *KeyPair) *Signer {
	return &Signer{keyPair: keyPair}
}

// Sign creates a signed JWT carrying the key ID in its header
func (s *Signer) Sign(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(s.keyPair.SigningMethod(), claims)
	token.Header["kid"] = s.keyPair.KeyID

	signed, err := token.SignedString(s.keyPair.PrivateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerificationKey is a jwt.Keyfunc
func (s *Signer) VerificationKey(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return s.keyPair.PublicKey(), nil
}

func (s *Signer) JWKS() JWKS {
	return JWKS{Keys: []JWK{s.keyPair.ToJWK()}}
}
