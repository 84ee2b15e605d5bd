package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Configuration for Argon2id hashing.
const (
	memory      = 19 * 1024 // Memory usage in KiB (19 MiB)
	iterations  = 2         // Iteration count
	parallelism = 1         // Number of threads
	keyLength   = 32        // Length of the generated hash
	saltLength  = 16        // Length of the salt
)

var (
	pepperMu     sync.Mutex
	pepper       string
	pepperLoaded bool
	pepperFile   string
)

// SetPepperPath sets the file the pepper is read from (or written to on first
// use). An empty path disables the pepper entirely.
func SetPepperPath(file string) {
	pepperMu.Lock()
	defer pepperMu.Unlock()

	pepperFile = file
	pepper = ""
	pepperLoaded = false
}

// LoadPepper loads (or creates) the pepper eagerly so a bad path fails at
// startup rather than on the first login.
func LoadPepper() error {
	pepperMu.Lock()
	defer pepperMu.Unlock()

	p, err := loadOrGeneratePepper(pepperFile)
	if err != nil {
		return err
	}
	pepper, pepperLoaded = p, true
	return nil
}

// GetPepper returns the loaded pepper. If loading fails the pepper is treated
// as empty; call LoadPepper during startup to surface that error instead.
func GetPepper() string {
	pepperMu.Lock()
	defer pepperMu.Unlock()

	if !pepperLoaded {
		p, err := loadOrGeneratePepper(pepperFile)
		if err != nil {
			return ""
		}
		pepper, pepperLoaded = p, true
	}
	return pepper
}

func loadOrGeneratePepper(file string) (string, error) {
	if strings.TrimSpace(file) == "" {
		return "", nil
	}

	file = filepath.Clean(file)
	if err := os.MkdirAll(filepath.Dir(file), 0750); err != nil {
		return "", err
	}

	data, err := os.ReadFile(file)
	if err == nil {
		return strings.TrimSpace(string(data)), nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	buf := make([]byte, keyLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	p := base64.RawURLEncoding.EncodeToString(buf)
	if err := os.WriteFile(file, []byte(p), 0600); err != nil {
		return "", err
	}
	return p, nil
}
