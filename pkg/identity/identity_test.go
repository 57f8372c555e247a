package identity

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stackdump/xe-identity/pkg/wallet"
)

func TestGenerateIdentity_S1(t *testing.T) {
	id, err := GenerateIdentity(context.Background(), 3, nil)
	if err != nil {
		t.Fatalf("GenerateIdentity failed: %v", err)
	}
	pub := id.GetPublicIdentity()
	if len(pub.S) != 3 || len(pub.C) != 3 {
		t.Fatalf("expected 3 links, got s=%d c=%d", len(pub.S), len(pub.C))
	}
	for i, s := range pub.S {
		if s[0:2] != "00" {
			t.Errorf("link %d does not meet difficulty 2: %s", i, s)
		}
	}
	if !VerifyIdentity(pub) {
		t.Error("expected freshly mined identity to verify")
	}
}

func TestVerifyIdentity_S2_TamperLink(t *testing.T) {
	id, err := GenerateIdentity(context.Background(), 3, nil)
	if err != nil {
		t.Fatalf("GenerateIdentity failed: %v", err)
	}
	pub := id.GetPublicIdentity()
	last := len(pub.S) - 1
	pub.S[last] = pub.S[last][0:10] + "ff" + pub.S[last][12:]
	if VerifyIdentity(pub) {
		t.Error("expected tampered link to fail verification")
	}
}

func TestVerifyIdentity_S3_TamperTimestamp(t *testing.T) {
	id, err := GenerateIdentity(context.Background(), 2, nil)
	if err != nil {
		t.Fatalf("GenerateIdentity failed: %v", err)
	}
	pub := id.GetPublicIdentity()
	pub.Timestamp += 1000
	if VerifyIdentity(pub) {
		t.Error("expected tampered timestamp to fail verification")
	}
}

func TestVerifyIdentity_S4_SwapLinkAcrossIdentities(t *testing.T) {
	a, err := GenerateIdentity(context.Background(), 2, nil)
	if err != nil {
		t.Fatalf("GenerateIdentity failed: %v", err)
	}
	b, err := GenerateIdentity(context.Background(), 2, nil)
	if err != nil {
		t.Fatalf("GenerateIdentity failed: %v", err)
	}
	pubA := a.GetPublicIdentity()
	pubB := b.GetPublicIdentity()

	pubA.S[1] = pubB.S[1]
	pubA.C[1] = pubB.C[1]

	if VerifyIdentity(pubA) {
		t.Error("expected identity with a foreign link swapped in to fail verification")
	}
}

func TestVerifyIdentity_S5_InvalidSolution(t *testing.T) {
	id, err := GenerateIdentity(context.Background(), 2, nil)
	if err != nil {
		t.Fatalf("GenerateIdentity failed: %v", err)
	}
	pub := id.GetPublicIdentity()
	if !VerifyIdentity(pub) {
		t.Fatal("expected freshly mined identity to verify before tampering")
	}
	pub.C[1] = pub.C[1] + 1
	if VerifyIdentity(pub) {
		t.Error("expected a mismatched solution to fail verification, never panic or return true")
	}
}

func TestVerifyIdentity_S6_AllDigitAddressInvariant(t *testing.T) {
	pub := PublicIdentity{
		Address:   "xe_0000111111111111111111111111111111112222",
		Timestamp: 0,
		S:         []string{strings.Repeat("0", 130)},
		C:         []uint64{0},
	}
	// The all-digit address must already be in checksum form; the object
	// itself is not expected to verify (the signature is not a real mined link).
	if !wallet.ChecksumAddressIsValid(pub.Address) {
		t.Fatal("expected all-digit address to be invariant under the checksum")
	}
	if VerifyIdentity(pub) {
		t.Error("expected placeholder identity with a fake signature to fail verification")
	}
}

func TestAddChallenge_AppendSafety(t *testing.T) {
	id, err := GenerateIdentity(context.Background(), 1, nil)
	if err != nil {
		t.Fatalf("GenerateIdentity failed: %v", err)
	}
	if !VerifyIdentity(id.GetPublicIdentity()) {
		t.Fatal("expected identity to verify before extension")
	}
	if err := id.AddChallenge(context.Background(), nil); err != nil {
		t.Fatalf("AddChallenge failed: %v", err)
	}
	pub := id.GetPublicIdentity()
	if len(pub.S) != 2 {
		t.Fatalf("expected 2 links after AddChallenge, got %d", len(pub.S))
	}
	if !VerifyIdentity(pub) {
		t.Error("expected extended identity to still verify")
	}
}

func TestMarshalJSON_NeverLeaksPrivateKey(t *testing.T) {
	id, err := GenerateIdentity(context.Background(), 1, nil)
	if err != nil {
		t.Fatalf("GenerateIdentity failed: %v", err)
	}
	data, err := json.Marshal(id)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}
	lower := strings.ToLower(string(data))
	for _, forbidden := range []string{"privatekey", "publickey", "private", "secret", id.GetPrivateKey()} {
		if strings.Contains(lower, strings.ToLower(forbidden)) {
			t.Errorf("serialized identity leaked forbidden field %q: %s", forbidden, data)
		}
	}

	var decoded PublicIdentity
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to decode serialized identity: %v", err)
	}
	if decoded.Address != id.GetPublicIdentity().Address {
		t.Error("decoded identity address mismatch")
	}
}

func TestVerifyIdentity_RejectsStructurallyInvalidInput(t *testing.T) {
	cases := []PublicIdentity{
		{Address: "", S: []string{strings.Repeat("0", 130)}, C: []uint64{0}},
		{Address: "xe_0000000000000000000000000000000000000000", S: nil, C: nil},
		{Address: "xe_0000000000000000000000000000000000000000", S: []string{"short"}, C: []uint64{0}},
		{Address: "xe_0000000000000000000000000000000000000000", S: []string{strings.Repeat("0", 130)}, C: []uint64{0, 1}},
	}
	for i, c := range cases {
		if VerifyIdentity(c) {
			t.Errorf("case %d: expected structurally invalid identity to fail verification", i)
		}
	}
}
