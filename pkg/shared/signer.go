package shared

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/ckb-nostr/nostr-utils-go/pkg/nostr"
)

// SignerConfig holds the settings used to sign events.
type SignerConfig struct {
	SecretKey string
	// CreatedAt overrides the event timestamp when non-zero.
	CreatedAt int64
}

var dotenvLoadOnce sync.Once

// SignerConfigFromEnv loads signer settings from the environment, reading a
// .env file first when one is found.
func SignerConfigFromEnv() (SignerConfig, error) {
	loadDotEnvIfPresent()

	secretKey := firstNonEmptyEnv("NOSTR_SECRET_KEY", "NOSTR_PRIVATE_KEY", "SECRET_KEY")
	if secretKey == "" {
		return SignerConfig{}, fmt.Errorf("NOSTR_SECRET_KEY is required")
	}

	var createdAt int64
	if raw := firstNonEmptyEnv("NOSTR_CREATED_AT"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			return SignerConfig{}, fmt.Errorf("NOSTR_CREATED_AT must be a unix timestamp, got %q", raw)
		}
		createdAt = parsed
	}

	return SignerConfig{
		SecretKey: secretKey,
		CreatedAt: createdAt,
	}, nil
}

// Keys parses the configured secret key.
func (c SignerConfig) Keys() (nostr.Keys, error) {
	return ParseSecretKey(c.SecretKey)
}

func loadDotEnvIfPresent() {
	dotenvLoadOnce.Do(func() {
		startPaths := make([]string, 0, 2)

		if cwd, err := os.Getwd(); err == nil {
			startPaths = append(startPaths, cwd)
		}
		if _, currentFile, _, ok := runtime.Caller(0); ok {
			startPaths = append(startPaths, filepath.Dir(currentFile))
		}

		seenCandidates := make(map[string]struct{})
		for _, start := range startPaths {
			current := start
			for {
				candidate := filepath.Join(current, ".env")
				if _, exists := seenCandidates[candidate]; !exists {
					seenCandidates[candidate] = struct{}{}
					if _, statErr := os.Stat(candidate); statErr == nil {
						loadDotEnvFile(candidate)
						return
					}
				}

				parent := filepath.Dir(current)
				if parent == current {
					break
				}
				current = parent
			}
		}
	})
}

// loadDotEnvFile sets the KEY=value pairs of path that are not already set.
func loadDotEnvFile(path string) bool {
	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer file.Close()

	loadedAny := false
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))

		separator := strings.Index(line, "=")
		if separator <= 0 {
			continue
		}

		key := strings.TrimSpace(line[:separator])
		if !isValidEnvKey(key) {
			continue
		}
		if _, alreadySet := os.LookupEnv(key); alreadySet {
			continue
		}

		value := unquote(strings.TrimSpace(line[separator+1:]))
		if setErr := os.Setenv(key, value); setErr == nil {
			loadedAny = true
		}
	}

	return loadedAny
}

func unquote(value string) string {
	if len(value) < 2 {
		return value
	}
	first := value[0]
	last := value[len(value)-1]
	if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
		return value[1 : len(value)-1]
	}
	return value
}

func isValidEnvKey(key string) bool {
	if key == "" {
		return false
	}
	for index, character := range key {
		if (character >= 'A' && character <= 'Z') ||
			(character >= 'a' && character <= 'z') ||
			(index > 0 && character >= '0' && character <= '9') ||
			character == '_' {
			continue
		}
		return false
	}
	return true
}

func firstNonEmptyEnv(keys ...string) string {
	for _, key := range keys {
		value := strings.TrimSpace(os.Getenv(key))
		if value != "" {
			return value
		}
	}
	return ""
}

// ParseSecretKey parses a hex secret key, with or without a 0x prefix.
func ParseSecretKey(raw string) (nostr.Keys, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return nostr.Keys{}, fmt.Errorf("secret key cannot be empty")
	}
	candidate = strings.TrimPrefix(strings.TrimPrefix(candidate, "0x"), "0X")

	keys, err := nostr.KeysFromSecretHex(candidate)
	if err != nil {
		return nostr.Keys{}, fmt.Errorf("failed to parse secret key: %w", err)
	}
	return keys, nil
}
