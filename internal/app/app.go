package app

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fixture-sync/external/apifootball"
	"github.com/riskibarqy/fixture-sync/external/secretmanager"
	"github.com/riskibarqy/fixture-sync/internal/config"
	"github.com/riskibarqy/fixture-sync/internal/domain/fixture"
	"github.com/riskibarqy/fixture-sync/internal/domain/round"
	cacherepo "github.com/riskibarqy/fixture-sync/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/fixture-sync/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fixture-sync/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/fixture-sync/internal/infrastructure/secret"
	"github.com/riskibarqy/fixture-sync/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/fixture-sync/internal/platform/cache"
	"github.com/riskibarqy/fixture-sync/internal/platform/logging"
	"github.com/riskibarqy/fixture-sync/internal/platform/resilience"
	"github.com/riskibarqy/fixture-sync/internal/usecase"
)

// Container holds the wired components shared by the API server and the
// one-shot sync command.
type Container struct {
	cfg    config.Config
	logger *logging.Logger
	db     *sqlx.DB

	Fixtures fixture.Repository
	Rounds   round.Repository
	Secrets  usecase.SecretProvider
	Provider usecase.FixtureProvider
	Pipeline *usecase.RoundPipeline
	Reader   *usecase.RoundReader
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Container, error) {
	if logger == nil {
		logger = logging.Default()
	}
	c := &Container{cfg: cfg, logger: logger}

	if err := c.buildStore(ctx); err != nil {
		return nil, err
	}
	c.Secrets = buildSecretProvider(cfg, logger)
	c.Provider = apifootball.NewClient(apifootball.ClientConfig{
		BaseURL: cfg.APIFootballBaseURL,
		Host:    cfg.APIFootballHost,
		Timeout: cfg.APIFootballTimeout,
		Logger:  logger.Named("apifootball"),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.APIFootballCircuitEnabled,
			FailureThreshold: cfg.APIFootballCircuitFailureCount,
			OpenTimeout:      cfg.APIFootballCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.APIFootballCircuitHalfOpenMax,
		},
	})

	c.Pipeline = usecase.NewRoundPipeline(
		c.Secrets,
		c.Provider,
		c.Fixtures,
		c.Rounds,
		usecase.RoundPipelineConfig{
			LeagueID:  cfg.APIFootballLeagueID,
			Season:    cfg.APIFootballSeason,
			SecretRef: cfg.APIFootballKeySecretRef,
			Workers:   cfg.PipelineWorkers,
		},
		logger.Named("pipeline"),
	)
	c.Reader = usecase.NewRoundReader(c.Fixtures, c.Rounds, logger.Named("reader"))

	return c, nil
}

func (c *Container) buildStore(ctx context.Context) error {
	var (
		fixtures fixture.Repository
		rounds   round.Repository
	)

	switch c.cfg.StoreBackend {
	case config.StoreBackendMemory:
		fixtureRepo := memory.NewFixtureRepository(memory.SeedFixtures())
		roundRepo := memory.NewRoundRepository()
		if err := roundRepo.Track(ctx, memory.SeedRoundID); err != nil {
			return errors.Wrap(err, "track seed round")
		}
		fixtures, rounds = fixtureRepo, roundRepo
		c.logger.Warn("using in-memory store, data is lost on restart")
	default:
		db, err := openDB(ctx, c.cfg)
		if err != nil {
			return err
		}
		c.db = db
		fixtures = postgres.NewFixtureRepository(db)
		rounds = postgres.NewRoundRepository(db)
	}

	if c.cfg.CacheEnabled && c.cfg.CacheTTL > 0 {
		fixtures = cacherepo.NewFixtureRepository(fixtures, basecache.NewStore[[]fixture.Fixture](c.cfg.CacheTTL))
		rounds = cacherepo.NewRoundRepository(rounds, basecache.NewStore[[]round.Tracked](c.cfg.CacheTTL))
	}

	c.Fixtures, c.Rounds = fixtures, rounds
	return nil
}

func buildSecretProvider(cfg config.Config, logger *logging.Logger) usecase.SecretProvider {
	var provider usecase.SecretProvider
	switch cfg.SecretProvider {
	case config.SecretProviderEnv:
		logger.Warn("resolving secrets from environment variables", "env_name", secret.EnvName(cfg.APIFootballKeySecretRef))
		provider = secret.NewEnvProvider()
	default:
		provider = secretmanager.NewClient(secretmanager.ClientConfig{
			BaseURL:     cfg.SecretManagerBaseURL,
			AccessToken: cfg.SecretManagerAccessToken,
			Timeout:     cfg.SecretManagerTimeout,
			Logger:      logger.Named("secretmanager"),
		})
	}
	return secret.NewCachedProvider(provider, cfg.SecretCacheTTL)
}

// NewHTTPServer builds the read API plus the internal job trigger.
func (c *Container) NewHTTPServer() (*http.Server, error) {
	if c.cfg.HTTPAddr == "" {
		return nil, errors.New("http server addr cannot be empty")
	}

	handler := httpapi.NewHandler(c.Reader, c.Pipeline, c.cfg.PipelineTimeout, c.logger.Named("httpapi"))
	router := httpapi.NewRouter(handler, c.logger.Named("httpapi"), httpapi.RouterConfig{
		ServiceName:        c.cfg.ServiceName,
		SwaggerEnabled:     c.cfg.AppEnv != config.EnvProd,
		CORSAllowedOrigins: c.cfg.CORSAllowedOrigins,
		InternalJobToken:   c.cfg.InternalJobToken,
	})

	return &http.Server{
		Addr:         c.cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  c.cfg.ReadTimeout,
		WriteTimeout: c.cfg.WriteTimeout,
	}, nil
}

func (c *Container) Close() error {
	if c.db == nil {
		return nil
	}
	return errors.Wrap(c.db.Close(), "close database")
}
