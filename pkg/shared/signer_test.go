package shared

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ckb-nostr/nostr-utils-go/pkg/nostr"
)

const (
	testSecretKey = "0000000000000000000000000000000000000000000000000000000000000003"
	testPublicKey = "f9308a019258c31049344f85f89d5229b531c845836f99b08601f113bce036f9"
)

var signerEnvKeys = []string{
	"NOSTR_SECRET_KEY",
	"NOSTR_PRIVATE_KEY",
	"SECRET_KEY",
	"NOSTR_CREATED_AT",
}

func resetSignerEnv(t *testing.T) {
	t.Helper()
	dotenvLoadOnce = sync.Once{}
	dotenvLoadOnce.Do(func() {})
	for _, key := range signerEnvKeys {
		t.Setenv(key, "")
	}
}

func TestIsValidEnvKey(t *testing.T) {
	valid := []string{
		"A", "ABC", "a_b", "MY_VAR", "foo_bar", "A1", "A_1_B",
		"NOSTR_SECRET_KEY", "_LEADING_UNDERSCORE",
	}
	for _, key := range valid {
		if !isValidEnvKey(key) {
			t.Fatalf("expected %q to be valid", key)
		}
	}
}

func TestIsValidEnvKeyInvalid(t *testing.T) {
	invalid := []string{
		"", "1ABC", "A B", "A-B", "A.B", "A=B",
	}
	for _, key := range invalid {
		if isValidEnvKey(key) {
			t.Fatalf("expected %q to be invalid", key)
		}
	}
}

func TestFirstNonEmptyEnv(t *testing.T) {
	t.Setenv("_TEST_FIRST_A", "")
	t.Setenv("_TEST_FIRST_B", "hello")

	result := firstNonEmptyEnv("_TEST_FIRST_A", "_TEST_FIRST_B")
	if result != "hello" {
		t.Fatalf("expected 'hello', got %q", result)
	}
}

func TestFirstNonEmptyEnvTrimsWhitespace(t *testing.T) {
	t.Setenv("_TEST_WS", "   ")

	result := firstNonEmptyEnv("_TEST_WS")
	if result != "" {
		t.Fatalf("expected empty string for whitespace-only, got %q", result)
	}
}

func TestParseSecretKey(t *testing.T) {
	for _, input := range []string{testSecretKey, "0x" + testSecretKey, "  " + testSecretKey + "\n"} {
		keys, err := ParseSecretKey(input)
		if err != nil {
			t.Fatalf("ParseSecretKey(%q) failed: %v", input, err)
		}
		if keys.PublicKey().Hex() != testPublicKey {
			t.Fatalf("unexpected public key: %s", keys.PublicKey().Hex())
		}
	}
}

func TestParseSecretKeyInvalid(t *testing.T) {
	if _, err := ParseSecretKey("   "); err == nil {
		t.Fatal("expected error for whitespace key")
	}
	_, err := ParseSecretKey("notavalidkey")
	if !errors.Is(err, nostr.ErrInvalidSecretKey) {
		t.Fatalf("expected ErrInvalidSecretKey, got %v", err)
	}
}

func TestSignerConfigFromEnvMissingSecret(t *testing.T) {
	resetSignerEnv(t)

	if _, err := SignerConfigFromEnv(); err == nil {
		t.Fatal("expected error for missing secret key")
	}
}

func TestSignerConfigFromEnv(t *testing.T) {
	resetSignerEnv(t)
	t.Setenv("NOSTR_SECRET_KEY", testSecretKey)
	t.Setenv("NOSTR_CREATED_AT", "1700000000")

	config, err := SignerConfigFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.CreatedAt != 1700000000 {
		t.Fatalf("unexpected created_at: %d", config.CreatedAt)
	}
	keys, err := config.Keys()
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if keys.PublicKey().Hex() != testPublicKey {
		t.Fatalf("unexpected public key: %s", keys.PublicKey().Hex())
	}
}

func TestSignerConfigFromEnvFallbackKeys(t *testing.T) {
	resetSignerEnv(t)
	t.Setenv("SECRET_KEY", testSecretKey)

	config, err := SignerConfigFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.SecretKey != testSecretKey {
		t.Fatalf("unexpected secret: %q", config.SecretKey)
	}
}

func TestSignerConfigFromEnvBadTimestamp(t *testing.T) {
	resetSignerEnv(t)
	t.Setenv("NOSTR_SECRET_KEY", testSecretKey)

	for _, value := range []string{"yesterday", "-5"} {
		t.Setenv("NOSTR_CREATED_AT", value)
		if _, err := SignerConfigFromEnv(); err == nil {
			t.Fatalf("expected error for NOSTR_CREATED_AT=%q", value)
		}
	}
}

func TestLoadDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "# comment\n\n_TEST_DOTENV_LOAD=loaded_value\nexport _TEST_DOTENV_EXPORT=exported\n_TEST_DOTENV_DQ=\"double-quoted\"\n_TEST_DOTENV_SQ='single-quoted'\n"
	if err := os.WriteFile(envPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	for _, key := range []string{"_TEST_DOTENV_LOAD", "_TEST_DOTENV_EXPORT", "_TEST_DOTENV_DQ", "_TEST_DOTENV_SQ"} {
		t.Cleanup(func() { os.Unsetenv(key) })
	}

	if !loadDotEnvFile(envPath) {
		t.Fatal("expected loadDotEnvFile to return true")
	}
	expected := map[string]string{
		"_TEST_DOTENV_LOAD":   "loaded_value",
		"_TEST_DOTENV_EXPORT": "exported",
		"_TEST_DOTENV_DQ":     "double-quoted",
		"_TEST_DOTENV_SQ":     "single-quoted",
	}
	for key, want := range expected {
		if got := os.Getenv(key); got != want {
			t.Fatalf("%s: expected %q, got %q", key, want, got)
		}
	}
}

func TestLoadDotEnvFileSkipsAlreadySet(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env-skip")
	t.Setenv("_TEST_DOTENV_PREEXIST", "original")
	if err := os.WriteFile(envPath, []byte("_TEST_DOTENV_PREEXIST=overridden\n"), 0644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}

	loadDotEnvFile(envPath)
	if os.Getenv("_TEST_DOTENV_PREEXIST") != "original" {
		t.Fatalf("expected 'original' (not overridden), got %q", os.Getenv("_TEST_DOTENV_PREEXIST"))
	}
}

func TestLoadDotEnvFileSkipsInvalidKeys(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env-invalid-keys")
	if err := os.WriteFile(envPath, []byte("1BAD=value\n=nokey\n"), 0644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}

	if loadDotEnvFile(envPath) {
		t.Fatal("expected loadDotEnvFile to return false for invalid keys")
	}
}

func TestLoadDotEnvFileNonexistent(t *testing.T) {
	if loadDotEnvFile(filepath.Join(t.TempDir(), "missing.env")) {
		t.Fatal("expected loadDotEnvFile to return false for nonexistent file")
	}
}
