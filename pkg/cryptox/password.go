package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrPasswordMismatch is returned when a well-formed hash does not match.
	ErrPasswordMismatch = errors.New("password does not match")

	// ErrUnsupportedHash is returned for hashes that are neither argon2id
	// (PHC format) nor bcrypt.
	ErrUnsupportedHash = errors.New("invalid hash format: unsupported algorithm")
)

// HashPassword generates a PHC-format Argon2id hash string including salt and parameters.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey(
		[]byte(password+GetPepper()),
		salt,
		iterations,
		memory,
		parallelism,
		keyLength,
	)
	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)

	return fmt.Sprintf(
		"$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory,
		iterations,
		parallelism,
		b64Salt,
		b64Hash,
	), nil
}

// VerifyPassword compares a plaintext password against a stored hash.
//
// Argon2id hashes are the native format. Bcrypt hashes ($2a$, $2b$, $2y$)
// are accepted so accounts imported from the previous dashboard keep working;
// they were created without the pepper.
func VerifyPassword(password, encodedHash string) error {
	switch {
	case strings.HasPrefix(encodedHash, "$argon2id$"):
		return verifyArgon2id(password, encodedHash)
	case IsBcryptHash(encodedHash):
		err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		if err != nil {
			return fmt.Errorf("invalid hash format: %w", err)
		}
		return nil
	default:
		return ErrUnsupportedHash
	}
}

// IsBcryptHash reports whether encodedHash looks like a bcrypt hash.
func IsBcryptHash(encodedHash string) bool {
	return strings.HasPrefix(encodedHash, "$2a$") ||
		strings.HasPrefix(encodedHash, "$2b$") ||
		strings.HasPrefix(encodedHash, "$2y$")
}

func verifyArgon2id(password, encodedHash string) error {
	// ["", "argon2id", "v=19", "m=X,t=Y,p=Z", "salt", "hash"]
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return errors.New("invalid hash format: expected 6 parts")
	}
	if parts[2] != "v=19" {
		return errors.New("invalid hash format: wrong version")
	}

	var mem, iters uint32
	var par uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return fmt.Errorf("invalid hash format: failed to parse parameters: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("invalid hash format: failed to decode salt: %w", err)
	}
	expectedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return fmt.Errorf("invalid hash format: failed to decode hash: %w", err)
	}

	computed := argon2.IDKey(
		[]byte(password+GetPepper()),
		salt,
		iters,
		mem,
		par,
		uint32(len(expectedHash)), // #nosec G115 - If this overflows we have bigger problems
	)

	if subtle.ConstantTimeCompare(computed, expectedHash) == 1 {
		return nil
	}
	return ErrPasswordMismatch
}

// Legacy dashboard hashes use bcrypt's default cost.
const legacyBcryptCost = bcrypt.DefaultCost

var (
	dummyOnce   sync.Once
	dummyArgon2 string
	dummyBcrypt []byte
)

func dummies() (string, []byte) {
	dummyOnce.Do(func() {
		secret := MustGenerateToken(TokenSize128)
		h, err := HashPassword(secret)
		if err != nil {
			// Parameters still parse, the compare just never matches.
			h = "$argon2id$v=19$m=19456,t=2,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaGhhc2hoYXNoaGFzaGhhc2g"
		}
		dummyArgon2 = h
		// bcrypt reads at most 72 bytes of the secret.
		b, err := bcrypt.GenerateFromPassword([]byte(secret[:min(len(secret), 72)]), legacyBcryptCost)
		if err != nil {
			b = []byte("$2a$10$CwTycUXWue0Thq9StjUM0uJ8DPLKXt1FYlwYpQW/OQ3JiJ1Z1tTJu")
		}
		dummyBcrypt = b
	})
	return dummyArgon2, dummyBcrypt
}

func burnArgon2id(password string) {
	h, _ := dummies()
	_ = verifyArgon2id(password, h)
}

func burnBcrypt(password string) {
	_, h := dummies()
	_ = bcrypt.CompareHashAndPassword(h, []byte(password))
}

// BurnVerify runs a throwaway argon2id and a throwaway bcrypt comparison and
// discards both results. Login calls it when the account does not exist.
func BurnVerify(password string) {
	burnArgon2id(password)
	burnBcrypt(password)
}

// VerifyLogin is VerifyPassword plus a throwaway comparison in the other
// algorithm. Every login then costs one argon2id and one bcrypt comparison,
// the same as BurnVerify for an unknown email.
func VerifyLogin(password, encodedHash string) error {
	if IsBcryptHash(encodedHash) {
		burnArgon2id(password)
	} else {
		burnBcrypt(password)
	}
	return VerifyPassword(password, encodedHash)
}

// GeneratePassword returns a random 16 character alphanumeric password.
func GeneratePassword() (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	const length = 16
	password := make([]byte, length)
	for i := range password {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", fmt.Errorf("failed to generate random password: %w", err)
		}
		password[i] = charset[n.Int64()]
	}
	return string(password), nil
}
