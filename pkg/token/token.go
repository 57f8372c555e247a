// Package token issues and parses a stateless bearer assertion for an
// already-verified identity: once a service has run identity.VerifyIdentity
// once, it can hand the bearer a compact, self-contained credential instead
// of asking it to resend (and the service to re-verify) the whole
// proof-of-work chain on every request.
//
// The assertion is a JWT signed with a custom golang-jwt SigningMethod that
// calls into pkg/wallet's secp256k1 sign/recover instead of HMAC or RSA.
// Deliberately absent, per the core identity spec's Non-goals (expiry, rate
// limiting, revocation): no "exp" claim is set, and ParseAssertion does not
// enforce one. Token lifetime is left entirely to the caller.
package token

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/stackdump/xe-identity/pkg/wallet"
)

// Alg is the JWT "alg" header value for SigningMethodXEPoW.
const Alg = "XE-POW"

// Claims carried by an identity bearer assertion.
type Claims struct {
	Address  string `json:"addr"`
	IssuedAt int64  `json:"iat"`
	ChainLen int    `json:"chainLen"`
	jwt.RegisteredClaims
}

// signingMethodXEPoW implements jwt.SigningMethod using the XE wallet's
// secp256k1 signature format (130-char hex r‖s‖v) instead of HMAC/RSA/ECDSA
// over the standard curves golang-jwt ships signing methods for.
type signingMethodXEPoW struct{}

// SigningMethodXEPoW is the registered jwt.SigningMethod backed by pkg/wallet.
var SigningMethodXEPoW = &signingMethodXEPoW{}

func init() {
	jwt.RegisterSigningMethod(Alg, func() jwt.SigningMethod {
		return SigningMethodXEPoW
	})
}

func (m *signingMethodXEPoW) Alg() string { return Alg }

// Sign expects key to be the signer's private key hex string.
func (m *signingMethodXEPoW) Sign(signingString string, key interface{}) ([]byte, error) {
	privateKeyHex, ok := key.(string)
	if !ok {
		return nil, errors.New("xe-pow: key must be a private key hex string")
	}
	sig, err := wallet.GenerateSignature(privateKeyHex, signingString)
	if err != nil {
		return nil, fmt.Errorf("xe-pow: sign: %w", err)
	}
	return []byte(sig), nil
}

// Verify expects key to be the expected checksummed XE address.
func (m *signingMethodXEPoW) Verify(signingString string, sig []byte, key interface{}) error {
	address, ok := key.(string)
	if !ok {
		return errors.New("xe-pow: key must be an address string")
	}
	if !wallet.VerifySignatureAddress(signingString, string(sig), address) {
		return errors.New("xe-pow: signature does not match address")
	}
	return nil
}

// IssueAssertion signs a bearer assertion carrying address, issuedAt and
// chainLen, taken from a PublicIdentity that the caller has already run
// identity.VerifyIdentity against. privateKeyHex must correspond to address.
func IssueAssertion(address string, issuedAt int64, chainLen int, privateKeyHex string) (string, error) {
	claims := Claims{
		Address:  address,
		IssuedAt: issuedAt,
		ChainLen: chainLen,
	}
	t := jwt.NewWithClaims(SigningMethodXEPoW, claims)
	signed, err := t.SignedString(privateKeyHex)
	if err != nil {
		return "", fmt.Errorf("issue assertion: %w", err)
	}
	return signed, nil
}

// ParseAssertion verifies tokenString was signed by expectedAddress and
// returns its claims. It never consults or enforces an expiry claim.
func ParseAssertion(tokenString, expectedAddress string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != Alg {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return expectedAddress, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, fmt.Errorf("parse assertion: %w", err)
	}
	if !parsed.Valid {
		return nil, errors.New("parse assertion: invalid token")
	}
	if claims.Address != expectedAddress {
		return nil, errors.New("parse assertion: address claim mismatch")
	}
	return claims, nil
}
