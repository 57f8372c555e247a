// Package wallet implements the XE address/signature primitives: deterministic
// address derivation with a case-based checksum, canonical compact recoverable
// ECDSA signatures over secp256k1, and public-key/address recovery.
//
// The security properties of the identity chain built on top of this package
// (see pkg/identity) depend on exact byte-level agreement between signer and
// verifier, so the quirks documented here — Keccak-256 computed over ASCII hex
// text rather than decoded bytes, a fixed 130-character signature layout — are
// load-bearing and must not be "fixed".
package wallet

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

// addressPattern matches a well-formed XE address: the literal prefix "xe_"
// followed by exactly 40 hex characters, in any case.
var addressPattern = regexp.MustCompile(`^xe_[a-fA-F0-9]{40}$`)

// Wallet bundles the three externally visible parts of a generated or
// restored key pair. PrivateKeyHex is never logged or serialized by any
// caller-facing type in this module beyond this struct itself.
type Wallet struct {
	PrivateKeyHex string
	PublicKeyHex  string
	Address       string
}

// GenerateKeyPair generates a fresh secp256k1 key pair using the platform's
// secure entropy source.
func GenerateKeyPair() (*ecdsa.PrivateKey, error) {
	priv, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("generate key pair: %w", err)
	}
	return priv, nil
}

// GenerateWallet generates a fresh key pair and derives its wallet record.
func GenerateWallet() (*Wallet, error) {
	priv, err := GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	return walletFromPrivateKey(priv)
}

// RestoreWalletFromPrivateKey rebuilds a Wallet record from a private key in
// any accepted hex form (with or without a "0x" prefix).
func RestoreWalletFromPrivateKey(privateKeyHex string) (*Wallet, error) {
	priv, err := parsePrivateKey(privateKeyHex)
	if err != nil {
		return nil, err
	}
	return walletFromPrivateKey(priv)
}

func walletFromPrivateKey(priv *ecdsa.PrivateKey) (*Wallet, error) {
	pubHex := hex.EncodeToString(crypto.CompressPubkey(&priv.PublicKey))
	addr, err := PublicKeyToChecksumAddress(pubHex)
	if err != nil {
		return nil, err
	}
	return &Wallet{
		PrivateKeyHex: hex.EncodeToString(crypto.FromECDSA(priv)),
		PublicKeyHex:  pubHex,
		Address:       addr,
	}, nil
}

func parsePrivateKey(privateKeyHex string) (*ecdsa.PrivateKey, error) {
	priv, err := crypto.HexToECDSA(strings.TrimPrefix(strings.ToLower(privateKeyHex), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return priv, nil
}

// PrivateKeyToPublicKey derives the compressed-SEC1 public key (66 lowercase
// hex characters) for a private key.
func PrivateKeyToPublicKey(privateKeyHex string) (string, error) {
	priv, err := parsePrivateKey(privateKeyHex)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(crypto.CompressPubkey(&priv.PublicKey)), nil
}

// PrivateKeyToChecksumAddress derives the checksummed XE address for a
// private key.
func PrivateKeyToChecksumAddress(privateKeyHex string) (string, error) {
	pubHex, err := PrivateKeyToPublicKey(privateKeyHex)
	if err != nil {
		return "", err
	}
	return PublicKeyToChecksumAddress(pubHex)
}

// keccak256HexOfASCII hashes the ASCII/UTF-8 bytes of s — not any decoded
// form of it — and returns the digest as 64 lowercase hex characters. This
// mirrors §4.3/§4.4 of the identity spec: keccak256 is always invoked over
// the textual hex representation, never over the bytes that hex decodes to.
func keccak256HexOfASCII(s string) string {
	return hex.EncodeToString(crypto.Keccak256([]byte(s)))
}

// applyChecksum computes the XE mixed-case checksum over a 40-character
// lowercase hex body and returns the checksummed 40-character body.
func applyChecksum(bodyLower string) (string, error) {
	h2 := keccak256HexOfASCII(bodyLower)
	out := make([]byte, len(bodyLower))
	for j := 0; j < len(bodyLower); j++ {
		nibble, err := strconv.ParseInt(string(h2[j]), 16, 64)
		if err != nil {
			return "", fmt.Errorf("checksum: malformed hash digit: %w", err)
		}
		c := bodyLower[j]
		if nibble >= 8 && c >= 'a' && c <= 'f' {
			c -= 'a' - 'A'
		}
		out[j] = c
	}
	return string(out), nil
}

// PublicKeyToChecksumAddress derives the checksummed XE address for a
// compressed-SEC1 public key (66 hex characters, any case).
func PublicKeyToChecksumAddress(publicKeyHex string) (string, error) {
	pubLower := strings.ToLower(publicKeyHex)
	h := keccak256HexOfASCII(pubLower)
	body := h[len(h)-40:]
	checksummed, err := applyChecksum(body)
	if err != nil {
		return "", err
	}
	return "xe_" + checksummed, nil
}

// GenerateChecksumAddress recomputes the checksum of an address (or a bare
// 40-character hex body), accepting any input case, and returns the
// canonical checksummed "xe_"-prefixed form. It is idempotent:
// GenerateChecksumAddress(GenerateChecksumAddress(a)) == GenerateChecksumAddress(a).
func GenerateChecksumAddress(a string) (string, error) {
	body := strings.ToLower(strings.TrimPrefix(a, "xe_"))
	if len(body) != 40 {
		return "", fmt.Errorf("invalid address body length: %d", len(body))
	}
	for _, c := range body {
		if !isHexDigit(byte(c)) {
			return "", fmt.Errorf("invalid address body: non-hex character %q", c)
		}
	}
	checksummed, err := applyChecksum(body)
	if err != nil {
		return "", err
	}
	return "xe_" + checksummed, nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// ChecksumAddressIsValid reports whether a is both well-formed
// (xe_ + 40 [a-fA-F0-9] characters) and carries a checksum consistent with
// its lowercase body.
func ChecksumAddressIsValid(a string) bool {
	if !addressPattern.MatchString(a) {
		return false
	}
	recomputed, err := GenerateChecksumAddress(strings.ToLower(a))
	if err != nil {
		return false
	}
	return recomputed == a
}

// sha256HexOfMessage returns sha256(msg), keyed over the UTF-8 byte encoding
// of msg, as 64 lowercase hex characters.
func sha256HexOfMessage(msg string) string {
	d := sha256.Sum256([]byte(msg))
	return hex.EncodeToString(d[:])
}

// GenerateSignature signs msg with privateKeyHex and returns the fixed
// 130-character lowercase hex signature r‖s‖v described in §4.4.
func GenerateSignature(privateKeyHex, msg string) (string, error) {
	priv, err := parsePrivateKey(privateKeyHex)
	if err != nil {
		return "", err
	}
	digest, err := hex.DecodeString(sha256HexOfMessage(msg))
	if err != nil {
		return "", fmt.Errorf("decode digest: %w", err)
	}
	sig, err := crypto.Sign(digest, priv)
	if err != nil {
		return "", fmt.Errorf("sign: %w", err)
	}
	if len(sig) != 65 {
		return "", fmt.Errorf("unexpected signature length %d", len(sig))
	}
	r := sig[0:32]
	s := sig[32:64]
	v := sig[64]
	return hex.EncodeToString(r) + hex.EncodeToString(s) + fmt.Sprintf("%02x", v), nil
}

// parseSignature decodes a 130-character hex signature into its r, s, v
// parts. It never panics; malformed input is reported as an error so callers
// on the verification path can turn it into a false return.
func parseSignature(sig string) (r, s []byte, v byte, err error) {
	if len(sig) != 130 {
		return nil, nil, 0, fmt.Errorf("signature must be 130 hex characters, got %d", len(sig))
	}
	raw, err := hex.DecodeString(sig)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("invalid signature hex: %w", err)
	}
	return raw[0:32], raw[32:64], raw[64], nil
}

// RecoverPublicKeyFromSignedMessage recovers the compressed-SEC1 public key
// (66 hex characters) that produced sig over msg.
func RecoverPublicKeyFromSignedMessage(msg, sig string) (string, error) {
	r, s, v, err := parseSignature(sig)
	if err != nil {
		return "", err
	}
	if v != 0 && v != 1 {
		return "", fmt.Errorf("unsupported recovery parameter: %d", v)
	}
	digest, err := hex.DecodeString(sha256HexOfMessage(msg))
	if err != nil {
		return "", fmt.Errorf("decode digest: %w", err)
	}
	full := make([]byte, 65)
	copy(full[0:32], r)
	copy(full[32:64], s)
	full[64] = v
	pub, err := crypto.SigToPub(digest, full)
	if err != nil {
		return "", fmt.Errorf("recover public key: %w", err)
	}
	return hex.EncodeToString(crypto.CompressPubkey(pub)), nil
}

// RecoverAddressFromSignedMessage recovers the checksummed XE address that
// produced sig over msg.
func RecoverAddressFromSignedMessage(msg, sig string) (string, error) {
	pubHex, err := RecoverPublicKeyFromSignedMessage(msg, sig)
	if err != nil {
		return "", err
	}
	return PublicKeyToChecksumAddress(pubHex)
}

// VerifySignatureAddress reports whether sig is a valid signature over msg
// produced by address. It never returns true on malformed input — any
// decoding or recovery failure is folded into a false result.
func VerifySignatureAddress(msg, sig, address string) bool {
	recovered, err := RecoverAddressFromSignedMessage(msg, sig)
	if err != nil {
		return false
	}
	return recovered == address
}
