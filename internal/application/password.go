package application

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidPasswordHash         = errors.New("invalid password hash format")
	ErrIncompatiblePasswordVersion = errors.New("incompatible password hash version")
)

// Argon2idParams tunes the cost of argon2id hashing.
type Argon2idParams struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

var DefaultArgon2idParams = Argon2idParams{
	Memory:      64 * 1024,
	Iterations:  3,
	Parallelism: 2,
	SaltLength:  16,
	KeyLength:   32,
}

const argon2idPrefix = "$argon2id$"

// argon2Hash is the decoded form of "$argon2id$v=19$m=...,t=...,p=...$salt$key".
type argon2Hash struct {
	version int
	params  Argon2idParams
	salt    []byte
	key     []byte
}

func (h argon2Hash) String() string {
	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2idPrefix, h.version,
		h.params.Memory, h.params.Iterations, h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(h.salt),
		base64.RawStdEncoding.EncodeToString(h.key))
}

func parseArgon2Hash(encoded string) (argon2Hash, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return argon2Hash{}, ErrInvalidPasswordHash
	}

	var h argon2Hash
	if _, err := fmt.Sscanf(parts[2], "v=%d", &h.version); err != nil {
		return argon2Hash{}, fmt.Errorf("%w: version: %v", ErrInvalidPasswordHash, err)
	}
	if h.version != argon2.Version {
		return argon2Hash{}, ErrIncompatiblePasswordVersion
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &h.params.Memory, &h.params.Iterations, &h.params.Parallelism); err != nil {
		return argon2Hash{}, fmt.Errorf("%w: parameters: %v", ErrInvalidPasswordHash, err)
	}

	var err error
	if h.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return argon2Hash{}, fmt.Errorf("%w: salt: %v", ErrInvalidPasswordHash, err)
	}
	if h.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return argon2Hash{}, fmt.Errorf("%w: key: %v", ErrInvalidPasswordHash, err)
	}
	h.params.SaltLength = uint32(len(h.salt))
	h.params.KeyLength = uint32(len(h.key))
	return h, nil
}

func (h argon2Hash) matches(password string) bool {
	candidate := argon2.IDKey([]byte(password), h.salt, h.params.Iterations, h.params.Memory, h.params.Parallelism, h.params.KeyLength)
	return subtle.ConstantTimeCompare(h.key, candidate) == 1
}

// HashPassword hashes with DefaultArgon2idParams.
func HashPassword(password string) (string, error) {
	return CreatePasswordHash(password, DefaultArgon2idParams)
}

// CreatePasswordHash derives an argon2id key for password under a fresh random salt.
func CreatePasswordHash(password string, params Argon2idParams) (string, error) {
	salt := make([]byte, params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	h := argon2Hash{
		version: argon2.Version,
		params:  params,
		salt:    salt,
		key:     argon2.IDKey([]byte(password), salt, params.Iterations, params.Memory, params.Parallelism, params.KeyLength),
	}
	return h.String(), nil
}

// VerifyPassword checks password against an argon2id hash, or a bcrypt hash
// for accounts imported from rosters that were hashed elsewhere. A wrong
// password yields ErrInvalidCredentials.
func VerifyPassword(hashedPassword, password string) error {
	switch {
	case strings.HasPrefix(hashedPassword, argon2idPrefix):
		h, err := parseArgon2Hash(hashedPassword)
		if err != nil {
			return err
		}
		if !h.matches(password) {
			return ErrInvalidCredentials
		}
		return nil
	case isBcryptHash(hashedPassword):
		err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
		switch {
		case err == nil:
			return nil
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return ErrInvalidCredentials
		default:
			return fmt.Errorf("%w: %v", ErrInvalidPasswordHash, err)
		}
	default:
		return ErrInvalidPasswordHash
	}
}

func isBcryptHash(hash string) bool {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(hash, prefix) {
			return true
		}
	}
	return false
}
