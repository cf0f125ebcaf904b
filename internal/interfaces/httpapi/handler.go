package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/fixture-sync/internal/platform/logging"
	"github.com/riskibarqy/fixture-sync/internal/platform/resilience"
	"github.com/riskibarqy/fixture-sync/internal/usecase"
)

// RoundRunner runs one pipeline pass over the league's current round.
type RoundRunner interface {
	Run(ctx context.Context) (usecase.RunSummary, error)
}

type Handler struct {
	reader     *usecase.RoundReader
	runner     RoundRunner
	jobTimeout time.Duration
	runs       resilience.Group[usecase.RunSummary]
	logger     *logging.Logger
	validator  *validator.Validate
}

// NewHandler builds the HTTP handler. runner may be nil on read-only
// deployments; the job route then answers 503.
func NewHandler(reader *usecase.RoundReader, runner RoundRunner, jobTimeout time.Duration, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		reader:     reader,
		runner:     runner,
		jobTimeout: jobTimeout,
		logger:     logger,
		validator:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	_, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}
