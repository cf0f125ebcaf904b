package httpapi

import (
	"context"
	"io"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/fixture-sync/internal/usecase"
)

const syncRoundFlightKey = "sync-round"

type internalJobRequest struct {
	DispatchID string `json:"dispatch_id" validate:"omitempty,max=128,printascii"`
}

type syncRoundJobDTO struct {
	DispatchID string             `json:"dispatch_id,omitempty"`
	Shared     bool               `json:"shared"`
	Summary    usecase.RunSummary `json:"summary"`
}

// RunSyncRoundJob runs the pipeline once. Concurrent triggers join the run
// already in flight instead of starting another.
func (h *Handler) RunSyncRoundJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncRoundJob")
	defer span.End()

	if h.runner == nil {
		writeError(ctx, w, errors.Wrap(usecase.ErrDependencyUnavailable, "round pipeline is not configured"))
		return
	}

	req, err := h.decodeInternalJobRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	summary, err, shared := h.runs.Do(syncRoundFlightKey, func() (usecase.RunSummary, error) {
		// A scheduler that gives up on the HTTP call must not cancel a batch
		// halfway through its writes.
		runCtx := context.WithoutCancel(ctx)
		if h.jobTimeout > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(runCtx, h.jobTimeout)
			defer cancel()
		}
		return h.runner.Run(runCtx)
	})
	if err != nil {
		h.logger.WarnContext(ctx, "run sync round job failed",
			"dispatch_id", req.DispatchID,
			"run_id", summary.RunID,
			"kind", usecase.ErrorKind(err),
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(w, http.StatusOK, syncRoundJobDTO{
		DispatchID: req.DispatchID,
		Shared:     shared,
		Summary:    summary,
	})
}

func (h *Handler) decodeInternalJobRequest(r *http.Request) (internalJobRequest, error) {
	var req internalJobRequest
	if r.Body == nil {
		return req, nil
	}

	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return internalJobRequest{}, nil
		}
		return internalJobRequest{}, errors.Wrapf(usecase.ErrInvalidInput, "invalid JSON payload: %v", err)
	}

	req.DispatchID = strings.TrimSpace(req.DispatchID)
	if err := h.validator.Struct(req); err != nil {
		return internalJobRequest{}, errors.Wrapf(usecase.ErrInvalidInput, "dispatch_id: %v", err)
	}
	return req, nil
}
