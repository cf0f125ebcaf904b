package secret

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/fixture-sync/internal/usecase"
)

func TestEnvName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"projects/my-project/secrets/rapidapi-key/versions/latest": "RAPIDAPI_KEY",
		"projects/p/secrets/x_api.key/versions/3":                  "X_API_KEY",
		"RAPIDAPI_KEY":                                             "RAPIDAPI_KEY",
		"  ":                                                       "",
	}
	for in, want := range tests {
		if got := EnvName(in); got != want {
			t.Fatalf("EnvName(%q): got=%q want=%q", in, got, want)
		}
	}
}

func TestEnvProvider_Resolve(t *testing.T) {
	t.Parallel()

	provider := &EnvProvider{lookup: func(name string) (string, bool) {
		if name == "RAPIDAPI_KEY" {
			return "key-123", true
		}
		return "", false
	}}

	got, err := provider.Resolve(context.Background(), "projects/p/secrets/rapidapi-key/versions/latest")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != "key-123" {
		t.Fatalf("unexpected secret: %q", got)
	}

	_, err = provider.Resolve(context.Background(), "projects/p/secrets/other/versions/latest")
	if !errors.Is(err, usecase.ErrSecretUnavailable) {
		t.Fatalf("expected ErrSecretUnavailable, got %v", err)
	}
}

type countingProvider struct {
	calls int
	err   error
}

func (p *countingProvider) Resolve(context.Context, string) (string, error) {
	p.calls++
	if p.err != nil {
		return "", p.err
	}
	return "key", nil
}

func TestCachedProvider(t *testing.T) {
	t.Parallel()

	next := &countingProvider{}
	provider := NewCachedProvider(next, time.Minute)
	for i := 0; i < 3; i++ {
		if _, err := provider.Resolve(context.Background(), "ref"); err != nil {
			t.Fatalf("resolve: %v", err)
		}
	}
	if next.calls != 1 {
		t.Fatalf("expected one upstream call, got %d", next.calls)
	}
}

func TestCachedProvider_DoesNotCacheFailures(t *testing.T) {
	t.Parallel()

	next := &countingProvider{err: errors.Wrap(usecase.ErrSecretUnavailable, "denied")}
	provider := NewCachedProvider(next, time.Minute)
	for i := 0; i < 2; i++ {
		if _, err := provider.Resolve(context.Background(), "ref"); !errors.Is(err, usecase.ErrSecretUnavailable) {
			t.Fatalf("expected ErrSecretUnavailable, got %v", err)
		}
	}
	if next.calls != 2 {
		t.Fatalf("failures must not be cached, got %d calls", next.calls)
	}
}

func TestNewCachedProvider_DisabledReturnsNext(t *testing.T) {
	t.Parallel()

	next := &countingProvider{}
	if got := NewCachedProvider(next, 0); got != usecase.SecretProvider(next) {
		t.Fatalf("zero ttl must return the wrapped provider")
	}
}
