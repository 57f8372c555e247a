// Package fingerprint computes a deterministic, content-addressed
// identifier for a PublicIdentity: a CIDv1 over the URDNA2015 canonical
// N-Quads form of the identity's JSON-LD representation.
//
// Two verifiers holding byte-identical PublicIdentity values always agree
// on the fingerprint, independent of JSON key order; this lets them confirm
// they are comparing the same chain without re-exchanging or re-verifying
// the whole thing. Fingerprinting is pure computation over an
// already-serialized identity — it stores nothing, so it does not
// reintroduce the persistence this module otherwise leaves out of scope.
package fingerprint

import (
	"encoding/json"
	"errors"
	"fmt"

	cid "github.com/ipfs/go-cid"
	"github.com/multiformats/go-multibase"
	mh "github.com/multiformats/go-multihash"
	"github.com/piprate/json-gold/ld"

	"github.com/stackdump/xe-identity/pkg/identity"
)

// vocabContext is the fixed, inline JSON-LD vocabulary used to canonicalize
// a PublicIdentity. It is embedded rather than fetched from a remote URL so
// that fingerprinting stays fully offline and deterministic — unlike
// arbitrary JSON-LD documents, a PublicIdentity's shape never changes, so a
// cached or versioned remote context buys nothing here.
var vocabContext = map[string]interface{}{
	"@context": map[string]interface{}{
		"@vocab":    "https://xe.network/identity#",
		"address":   "https://xe.network/identity#address",
		"timestamp": "https://xe.network/identity#timestamp",
		"s":         map[string]interface{}{"@id": "https://xe.network/identity#s", "@container": "@list"},
		"c":         map[string]interface{}{"@id": "https://xe.network/identity#c", "@container": "@list"},
	},
}

// Fingerprint computes the CIDv1 fingerprint of pub. The identity is
// canonicalized to N-Quads (URDNA2015), hashed with SHA2-256 via a
// multihash, and wrapped in a CIDv1 using the DagJSON codec and base58btc
// multibase encoding.
func Fingerprint(pub identity.PublicIdentity) (string, error) {
	doc, err := jsonLDDocument(pub)
	if err != nil {
		return "", err
	}

	proc := ld.NewJsonLdProcessor()
	opts := ld.NewJsonLdOptions("")
	opts.Format = "application/n-quads"
	opts.Algorithm = "URDNA2015"

	normalized, err := proc.Normalize(doc, opts)
	if err != nil {
		return "", fmt.Errorf("canonicalize identity: %w", err)
	}
	nqStr, ok := normalized.(string)
	if !ok {
		return "", errors.New("unexpected normalized output type")
	}
	canonicalBytes := []byte(nqStr)

	digest, err := mh.Sum(canonicalBytes, mh.SHA2_256, -1)
	if err != nil {
		return "", fmt.Errorf("hash canonical bytes: %w", err)
	}
	c := cid.NewCidV1(cid.DagJSON, digest)

	cidStr, err := c.StringOfBase(multibase.Base58BTC)
	if err != nil {
		return "", fmt.Errorf("encode CID: %w", err)
	}
	return cidStr, nil
}

// jsonLDDocument merges the fixed vocabulary context with pub's fields into
// a single JSON-LD document suitable for Normalize.
func jsonLDDocument(pub identity.PublicIdentity) (interface{}, error) {
	raw, err := json.Marshal(pub)
	if err != nil {
		return nil, fmt.Errorf("marshal identity: %w", err)
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("unmarshal identity: %w", err)
	}
	fields["@context"] = vocabContext["@context"]
	return fields, nil
}
