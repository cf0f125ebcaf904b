package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/fixture-sync/internal/usecase"
)

const defaultRoundListLimit = 38

type listQuery struct {
	Limit int `validate:"gte=0,lte=38"`
}

type roundListDTO struct {
	Rounds []string `json:"rounds"`
}

type roundHistoryDTO struct {
	Rounds []usecase.RoundView `json:"rounds"`
}

func (h *Handler) ListRounds(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRounds")
	defer span.End()

	query, err := h.parseListQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	limit := query.Limit
	if limit == 0 {
		limit = defaultRoundListLimit
	}

	rounds, err := h.reader.ListRounds(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "list rounds failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(w, http.StatusOK, roundListDTO{Rounds: rounds})
}

func (h *Handler) GetRoundFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRoundFixtures")
	defer span.End()

	roundID := strings.TrimSpace(r.PathValue("roundID"))
	view, err := h.reader.ReadRound(ctx, roundID)
	if err != nil {
		if !errors.Is(err, usecase.ErrRoundNotFound) && !errors.Is(err, usecase.ErrInvalidInput) {
			h.logger.ErrorContext(ctx, "read round failed", "round_id", roundID, "error", err)
		}
		writeError(ctx, w, err)
		return
	}

	writeSuccess(w, http.StatusOK, view)
}

func (h *Handler) GetRoundHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRoundHistory")
	defer span.End()

	query, err := h.parseListQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	views, err := h.reader.ReadHistory(ctx, query.Limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "read round history failed", "limit", query.Limit, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(w, http.StatusOK, roundHistoryDTO{Rounds: views})
}

func (h *Handler) parseListQuery(r *http.Request) (listQuery, error) {
	var query listQuery

	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return listQuery{}, errors.Wrapf(usecase.ErrInvalidInput, "limit %q is not an integer", raw)
		}
		query.Limit = limit
	}

	if err := h.validator.Struct(query); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return listQuery{}, errors.Wrapf(usecase.ErrInvalidInput, "limit must be between 0 and 38, got %d", query.Limit)
		}
		return listQuery{}, errors.Wrap(usecase.ErrInvalidInput, err.Error())
	}
	return query, nil
}
