// Package identity implements canonical event hashing and Schnorr
// signing/verification over the resulting content id.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"

	"github.com/zeph-ai-dev/starpulse/internal/domain"
)

const (
	pubKeyLen = 32
	idLen     = 32
	sigLen    = 64
)

// Hash computes the content id for the given event fields: the lowercase
// hex SHA-256 of the canonical form, a JSON array
// [0,pubkey,created_at,kind,tags,content] with a leading reserved constant.
// Pure and deterministic for identical logical input.
func Hash(pubkey string, createdAt int64, kind domain.Kind, tags domain.Tags, content string) string {
	if tags == nil {
		tags = domain.Tags{}
	}
	canonical, err := json.Marshal([]interface{}{0, pubkey, createdAt, int(kind), tags, content})
	if err != nil {
		// Marshalling strings, ints and string slices cannot fail.
		panic(fmt.Sprintf("canonical form: %v", err))
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])
}

// GenerateKeypair returns a fresh hex-encoded keypair: the 32-byte x-only
// public key and the 32-byte secret scalar.
func GenerateKeypair() (pubkey, seckey string, err error) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate private key: %w", err)
	}
	pubkey = hex.EncodeToString(schnorr.SerializePubKey(priv.PubKey()))
	seckey = hex.EncodeToString(priv.Serialize())
	return pubkey, seckey, nil
}

// Sign computes the content id for the given fields, signs its raw bytes
// with the hex-encoded secret key and returns the fully populated event.
// The pubkey is derived from the secret key. Side-effect free.
func Sign(createdAt int64, kind domain.Kind, tags domain.Tags, content, seckey string) (domain.Event, error) {
	keyBytes, err := hex.DecodeString(seckey)
	if err != nil {
		return domain.Event{}, fmt.Errorf("failed to decode secret key: %w", err)
	}
	if len(keyBytes) != 32 {
		return domain.Event{}, fmt.Errorf("secret key must be 32 bytes, got %d", len(keyBytes))
	}
	priv, pub := btcec.PrivKeyFromBytes(keyBytes)

	if tags == nil {
		tags = domain.Tags{}
	}
	pubkey := hex.EncodeToString(schnorr.SerializePubKey(pub))
	id := Hash(pubkey, createdAt, kind, tags, content)

	idBytes, err := hex.DecodeString(id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("failed to decode event id: %w", err)
	}
	sig, err := schnorr.Sign(priv, idBytes)
	if err != nil {
		return domain.Event{}, fmt.Errorf("failed to sign event id: %w", err)
	}

	return domain.Event{
		ID:        id,
		PubKey:    pubkey,
		CreatedAt: createdAt,
		Kind:      kind,
		Content:   content,
		Tags:      tags,
		Sig:       hex.EncodeToString(sig.Serialize()),
	}, nil
}

// Verify checks that the event id matches the hash of the event fields and
// that the signature over the raw id bytes is valid under the event
// pubkey. Every failure mode (tampered fields, malformed hex, wrong-length
// keys, cryptographic failure) is reported as false; callers cannot and
// must not distinguish them.
func Verify(ev domain.Event) bool {
	if ev.ID != Hash(ev.PubKey, ev.CreatedAt, ev.Kind, ev.Tags, ev.Content) {
		return false
	}

	pubBytes, err := hex.DecodeString(ev.PubKey)
	if err != nil || len(pubBytes) != pubKeyLen {
		return false
	}
	pub, err := schnorr.ParsePubKey(pubBytes)
	if err != nil {
		return false
	}

	idBytes, err := hex.DecodeString(ev.ID)
	if err != nil || len(idBytes) != idLen {
		return false
	}

	sigBytes, err := hex.DecodeString(ev.Sig)
	if err != nil || len(sigBytes) != sigLen {
		return false
	}
	sig, err := schnorr.ParseSignature(sigBytes)
	if err != nil {
		return false
	}

	return sig.Verify(idBytes, pub)
}
