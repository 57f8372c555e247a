// Package pow implements the proof-of-work miner that the identity engine
// chains into challenge links: one Argon2id memory-hard seed per challenge,
// followed by a cheap counting loop that re-signs the seed until the
// signature's hex encoding carries the required number of leading zero
// nibbles.
//
// The cost shape is deliberately asymmetric (see spec §4.5/§9): Argon2id
// runs once per challenge, taxing each link with a fixed 64 MiB allocation,
// while the inner search is ECDSA-cheap. Folding the memory-hard step into
// the inner loop would change the protocol and must not be done.
package pow

import (
	"context"
	"encoding/hex"
	"fmt"
	"strconv"

	"golang.org/x/crypto/argon2"

	"github.com/stackdump/xe-identity/pkg/wallet"
)

const (
	argon2MemoryKiB    = 65_536
	argon2TimeCost     = 3
	argon2Parallelism  = 1
	argon2HashLength   = 32
	maxDifficultyNibbl = 4
)

// Result is the outcome of a completed mining run: the mined signature and
// the solution counter that produced it.
type Result struct {
	Signature string
	Solution  uint64
}

// Seed computes the Argon2id challenge seed for challengeIndex over message,
// returning it as 64 lowercase hex characters. The salt is the literal ASCII
// string "xe-challenge-<index>".
func Seed(message string, challengeIndex uint64) string {
	salt := challengeSalt(challengeIndex)
	raw := argon2.IDKey([]byte(message), []byte(salt), argon2TimeCost, argon2MemoryKiB, argon2Parallelism, argon2HashLength)
	return hex.EncodeToString(raw)
}

func challengeSalt(challengeIndex uint64) string {
	return "xe-challenge-" + strconv.FormatUint(challengeIndex, 10)
}

// MineSignature searches for a solution such that signing
// seedHex+decimal(solution) with privateKeyHex yields a signature whose hex
// encoding begins with difficulty '0' characters. It reports ctx
// cancellation without having produced a partial result.
func MineSignature(ctx context.Context, privateKeyHex, message string, difficulty uint, challengeIndex uint64) (Result, error) {
	if difficulty > maxDifficultyNibbl {
		return Result{}, fmt.Errorf("difficulty %d exceeds maximum of %d", difficulty, maxDifficultyNibbl)
	}
	seedHex := Seed(message, challengeIndex)

	for solution := uint64(0); ; solution++ {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		input := seedHex + strconv.FormatUint(solution, 10)
		sig, err := wallet.GenerateSignature(privateKeyHex, input)
		if err != nil {
			return Result{}, fmt.Errorf("mine signature: %w", err)
		}
		if hasLeadingZeroNibbles(sig, difficulty) {
			return Result{Signature: sig, Solution: solution}, nil
		}
	}
}

// hasLeadingZeroNibbles reports whether s begins with n '0' characters.
func hasLeadingZeroNibbles(s string, n uint) bool {
	if uint(len(s)) < n {
		return false
	}
	for i := uint(0); i < n; i++ {
		if s[i] != '0' {
			return false
		}
	}
	return true
}

// MeetsDifficulty reports whether sig begins with difficulty '0' characters.
// Exported so the verification path can reuse the same leading-zero check
// the miner uses, without reaching into package-private helpers.
func MeetsDifficulty(sig string, difficulty uint) bool {
	return hasLeadingZeroNibbles(sig, difficulty)
}
