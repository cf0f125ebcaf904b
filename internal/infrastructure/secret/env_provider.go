package secret

import (
	"context"
	"os"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/fixture-sync/internal/usecase"
)

var nonEnvChars = regexp.MustCompile(`[^A-Z0-9]+`)

// EnvProvider resolves secret references from process environment variables.
// It is meant for local runs where Secret Manager is unavailable.
type EnvProvider struct {
	lookup func(string) (string, bool)
}

func NewEnvProvider() *EnvProvider {
	return &EnvProvider{lookup: os.LookupEnv}
}

// Resolve reads the variable named after the reference: the secret id
// component of projects/p/secrets/<id>/versions/v, upper-cased, with every
// other character turned into an underscore. A bare name is used as is.
func (p *EnvProvider) Resolve(_ context.Context, ref string) (string, error) {
	name := EnvName(ref)
	if name == "" {
		return "", errors.Wrap(usecase.ErrSecretUnavailable, "secret reference is empty")
	}

	value, ok := p.lookup(name)
	if !ok || strings.TrimSpace(value) == "" {
		return "", errors.Wrapf(usecase.ErrSecretUnavailable, "environment variable %s is not set", name)
	}
	return value, nil
}

func EnvName(ref string) string {
	ref = strings.TrimSpace(ref)
	parts := strings.Split(ref, "/")
	for i := 0; i+1 < len(parts); i++ {
		if parts[i] == "secrets" {
			ref = parts[i+1]
			break
		}
	}
	name := nonEnvChars.ReplaceAllString(strings.ToUpper(ref), "_")
	return strings.Trim(name, "_")
}
