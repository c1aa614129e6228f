// Package credentials resolves the bearer token for the students API.
//
// The token is resolved once at startup and handed to the remote client; it
// is never re-read while the program runs. Sources are tried in order: an
// explicit value (the --token flag), the ROSTER_ACCESS_TOKEN environment
// variable after an optional dotenv file is loaded, then a token file.
package credentials

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// EnvVar holds the access token.
const EnvVar = "ROSTER_ACCESS_TOKEN"

const defaultTokenFile = "~/.config/roster/access_token"

// Source tells where a token came from.
type Source string

const (
	SourceNone Source = "none"
	SourceFlag Source = "flag"
	SourceEnv  Source = "env"
	SourceFile Source = "file"
)

// Options control Resolve.
type Options struct {
	// Explicit wins over every other source when non-empty.
	Explicit string
	// EnvFile is loaded with godotenv before the environment is read. A
	// missing file is ignored. Variables already set are not overridden.
	EnvFile string
	// TokenFile defaults to ~/.config/roster/access_token.
	TokenFile string
}

// Token is a resolved credential.
type Token struct {
	Value  string
	Source Source
}

// Empty reports whether no token was found.
func (t Token) Empty() bool { return t.Value == "" }

// Resolve finds the access token. A missing token is not an error.
func Resolve(opts Options) (Token, error) {
	if v := strings.TrimSpace(opts.Explicit); v != "" {
		return Token{Value: v, Source: SourceFlag}, nil
	}

	if envFile := strings.TrimSpace(opts.EnvFile); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Token{}, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvVar)); v != "" {
		return Token{Value: v, Source: SourceEnv}, nil
	}

	path, err := tokenPath(opts.TokenFile)
	if err != nil {
		return Token{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Token{Source: SourceNone}, nil
		}
		return Token{}, fmt.Errorf("read token file: %w", err)
	}
	if v := strings.TrimSpace(string(data)); v != "" {
		return Token{Value: v, Source: SourceFile}, nil
	}
	return Token{Source: SourceNone}, nil
}

// Save writes token to the token file with owner-only permissions.
func Save(tokenFile, token string) error {
	path, err := tokenPath(tokenFile)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(strings.TrimSpace(token)+"\n"), 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

func tokenPath(path string) (string, error) {
	p := strings.TrimSpace(path)
	if p == "" {
		p = defaultTokenFile
	}
	if strings.HasPrefix(p, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return filepath.Abs(p)
}
