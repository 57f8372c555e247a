package pow

import (
	"context"
	"strconv"
	"testing"

	"github.com/stackdump/xe-identity/pkg/wallet"
)

func TestSeedIsDeterministic(t *testing.T) {
	a := Seed("hello", 0)
	b := Seed("hello", 0)
	if a != b {
		t.Errorf("expected deterministic seed, got %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("expected 64-char hex seed, got %d", len(a))
	}
	c := Seed("hello", 1)
	if a == c {
		t.Error("expected different challenge index to change the seed")
	}
	d := Seed("goodbye", 0)
	if a == d {
		t.Error("expected different message to change the seed")
	}
}

func TestMineSignatureMeetsDifficulty(t *testing.T) {
	w, err := wallet.GenerateWallet()
	if err != nil {
		t.Fatalf("GenerateWallet failed: %v", err)
	}
	const difficulty = 1
	res, err := MineSignature(context.Background(), w.PrivateKeyHex, "challenge message", difficulty, 0)
	if err != nil {
		t.Fatalf("MineSignature failed: %v", err)
	}
	if !MeetsDifficulty(res.Signature, difficulty) {
		t.Errorf("mined signature %s does not meet difficulty %d", res.Signature, difficulty)
	}
	input := Seed("challenge message", 0) + strconv.FormatUint(res.Solution, 10)
	if !wallet.VerifySignatureAddress(input, res.Signature, w.Address) {
		t.Error("mined signature does not verify against the signed input")
	}
}

func TestMineSignatureRespectsCancellation(t *testing.T) {
	w, err := wallet.GenerateWallet()
	if err != nil {
		t.Fatalf("GenerateWallet failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = MineSignature(ctx, w.PrivateKeyHex, "message", 4, 0)
	if err == nil {
		t.Error("expected MineSignature to report cancellation")
	}
}
