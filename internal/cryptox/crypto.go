// Package cryptox derives and verifies argon2id hashes of stored secrets.
//
// Hashes use the PHC string format:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt b64>$<key b64>
package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	algorithm   = "argon2id"
	timeCost    = 1
	memoryKiB   = 64 * 1024
	parallelism = 4
	keyLength   = 32
	saltLength  = 16
)

var ErrInvalidHash = errors.New("invalid argon2id hash")

var b64 = base64.RawStdEncoding

// DeriveKey runs argon2id over secret and salt with the package parameters.
func DeriveKey(secret, salt []byte) []byte {
	return argon2.IDKey(secret, salt, timeCost, memoryKiB, parallelism, keyLength)
}

// HashSecret hashes secret with a fresh random salt and returns the PHC
// encoded result.
func HashSecret(secret []byte) string {
	salt := common.GenerateRandByteArray(saltLength)
	return encode(memoryKiB, timeCost, parallelism, salt, DeriveKey(secret, salt))
}

// VerifySecret reports whether secret hashes to encoded. Parameters are
// taken from encoded, so hashes made with older settings still verify.
func VerifySecret(secret []byte, encoded string) (bool, error) {
	p, err := decode(encoded)
	if err != nil {
		return false, err
	}
	key := argon2.IDKey(secret, p.salt, p.time, p.memory, p.threads, uint32(len(p.key)))
	return subtle.ConstantTimeCompare(key, p.key) == 1, nil
}

// IsHash reports whether s looks like a hash produced by HashSecret.
func IsHash(s string) bool {
	return strings.HasPrefix(s, "$"+algorithm+"$")
}

type params struct {
	memory  uint32
	time    uint32
	threads uint8
	salt    []byte
	key     []byte
}

func encode(memory, time uint32, threads uint8, salt, key []byte) string {
	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithm, argon2.Version, memory, time, threads,
		b64.EncodeToString(salt), b64.EncodeToString(key))
}

func decode(encoded string) (*params, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != algorithm {
		return nil, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, fmt.Errorf("%w: version %q", ErrInvalidHash, parts[2])
	}

	p := &params{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return nil, fmt.Errorf("%w: params %q", ErrInvalidHash, parts[3])
	}
	if p.memory == 0 || p.time == 0 || p.threads == 0 {
		return nil, fmt.Errorf("%w: zero cost parameter", ErrInvalidHash)
	}

	var err error
	if p.salt, err = b64.DecodeString(parts[4]); err != nil || len(p.salt) == 0 {
		return nil, fmt.Errorf("%w: salt", ErrInvalidHash)
	}
	if p.key, err = b64.DecodeString(parts[5]); err != nil || len(p.key) == 0 {
		return nil, fmt.Errorf("%w: key", ErrInvalidHash)
	}
	return p, nil
}
