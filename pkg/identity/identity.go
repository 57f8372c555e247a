// Package identity implements the proof-of-work identity engine: assembling
// and extending a chain of mined challenges, and verifying a chain against
// the address that claims it.
//
// The chain binding is what makes the construction non-malleable: the first
// link signs a message that commits to both the address and the creation
// timestamp, and every later link signs the previous link's signature.
// Tampering with the address, the timestamp, or any earlier link therefore
// invalidates every later link under VerifyIdentity.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/stackdump/xe-identity/internal/logger"
	"github.com/stackdump/xe-identity/pkg/pow"
	"github.com/stackdump/xe-identity/pkg/wallet"
)

// DefaultChallenges is the default chain length used by GenerateIdentity
// when the caller does not specify one.
const DefaultChallenges = 10

// PublicIdentity is the publicly verifiable, wire-serializable form of an
// identity: the claimed address, the creation timestamp, and the ordered
// signature/solution sequences. It never carries a private key.
type PublicIdentity struct {
	Address   string   `json:"address"`
	Timestamp int64    `json:"timestamp"`
	S         []string `json:"s"`
	C         []uint64 `json:"c"`
}

// Identity is a PublicIdentity with its private key retained behind an
// accessor. The only mutation permitted after construction is appending one
// new challenge link via AddChallenge.
type Identity struct {
	mu         sync.Mutex
	privateKey string
	public     PublicIdentity
}

// GenerateIdentity mints a fresh wallet and mines n challenge links, the
// first binding the wallet's address and the creation timestamp, each
// subsequent link signing the previous link's signature. n must be >= 1.
func GenerateIdentity(ctx context.Context, n uint, log logger.Logger) (*Identity, error) {
	if n < 1 {
		return nil, fmt.Errorf("n must be >= 1, got %d", n)
	}
	if log == nil {
		log = logger.Noop
	}

	w, err := wallet.GenerateWallet()
	if err != nil {
		return nil, fmt.Errorf("generate wallet: %w", err)
	}

	id := &Identity{
		privateKey: w.PrivateKeyHex,
		public: PublicIdentity{
			Address:   w.Address,
			Timestamp: nowMillis(),
		},
	}

	for i := uint(0); i < n; i++ {
		if err := id.mineNext(ctx, log); err != nil {
			return nil, err
		}
	}
	return id, nil
}

// Restore rebuilds an Identity that can mine further links from a private
// key and a previously exported PublicIdentity. It is the caller's
// responsibility to ensure privateKeyHex corresponds to pub.Address;
// AddChallenge on a mismatched pair will simply mine links that fail
// VerifyIdentity.
func Restore(privateKeyHex string, pub PublicIdentity) *Identity {
	return &Identity{
		privateKey: privateKeyHex,
		public:     clonePublicIdentity(pub),
	}
}

// AddChallenge mines and appends exactly one new challenge link, signing
// either the binding message (if the chain is still empty, which cannot
// happen for an identity produced by GenerateIdentity) or the previous
// link's signature.
func (id *Identity) AddChallenge(ctx context.Context, log logger.Logger) error {
	if log == nil {
		log = logger.Noop
	}
	return id.mineNext(ctx, log)
}

// mineNext computes and appends the next link. The mined (signature,
// solution) pair is staged locally and only appended to the identity after
// mining succeeds, so a canceled or failed mining attempt never leaves the
// identity partially mutated.
func (id *Identity) mineNext(ctx context.Context, log logger.Logger) error {
	id.mu.Lock()
	defer id.mu.Unlock()

	i := uint(len(id.public.S))
	difficulty := Difficulty(i)
	message := id.nextMessageLocked(i)

	log.LogChallengeStart(i, difficulty)
	start := time.Now()
	res, err := pow.MineSignature(ctx, id.privateKey, message, difficulty, uint64(i))
	if err != nil {
		log.LogError("mine challenge failed", err)
		return fmt.Errorf("mine challenge %d: %w", i, err)
	}
	log.LogChallengeMined(i, res.Solution+1, time.Since(start))

	id.public.S = append(id.public.S, res.Signature)
	id.public.C = append(id.public.C, res.Solution)
	return nil
}

// nextMessageLocked returns the message that link i must sign. Caller must
// hold id.mu.
func (id *Identity) nextMessageLocked(i uint) string {
	if i == 0 {
		return id.public.Address + ":" + strconv.FormatInt(id.public.Timestamp, 10)
	}
	return id.public.S[i-1]
}

// GetPublicIdentity returns a deep copy of the identity's public record.
func (id *Identity) GetPublicIdentity() PublicIdentity {
	id.mu.Lock()
	defer id.mu.Unlock()
	return clonePublicIdentity(id.public)
}

// GetPrivateKey returns the identity's private key in hex form. Callers must
// treat the result as sensitive: it is never serialized or logged by any
// other method on this type.
func (id *Identity) GetPrivateKey() string {
	id.mu.Lock()
	defer id.mu.Unlock()
	return id.privateKey
}

// MarshalJSON serializes the identity's public record only; the private key
// never appears in the output.
func (id *Identity) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.GetPublicIdentity())
}

func clonePublicIdentity(p PublicIdentity) PublicIdentity {
	out := PublicIdentity{
		Address:   p.Address,
		Timestamp: p.Timestamp,
		S:         make([]string, len(p.S)),
		C:         make([]uint64, len(p.C)),
	}
	copy(out.S, p.S)
	copy(out.C, p.C)
	return out
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// VerifyIdentity is a total predicate over a PublicIdentity: it never
// panics or returns an error, only true or false. Any malformed input —
// wrong-length signatures, mismatched sequence lengths, a solution that
// doesn't fit the expected representation — is folded into a false result.
func VerifyIdentity(pub PublicIdentity) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	if pub.Address == "" || !wallet.ChecksumAddressIsValid(pub.Address) {
		return false
	}
	if len(pub.S) == 0 || len(pub.S) != len(pub.C) {
		return false
	}
	for _, s := range pub.S {
		if len(s) != 130 {
			return false
		}
		if !isLowerHex(s) {
			return false
		}
	}

	for i := range pub.S {
		difficulty := Difficulty(uint(i))
		if !pow.MeetsDifficulty(pub.S[i], difficulty) {
			return false
		}

		var message string
		if i == 0 {
			message = pub.Address + ":" + strconv.FormatInt(pub.Timestamp, 10)
		} else {
			message = pub.S[i-1]
		}

		seedHex := pow.Seed(message, uint64(i))
		input := seedHex + strconv.FormatUint(pub.C[i], 10)
		if !wallet.VerifySignatureAddress(input, pub.S[i], pub.Address) {
			return false
		}
	}
	return true
}

func isLowerHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return false
		}
	}
	return true
}
