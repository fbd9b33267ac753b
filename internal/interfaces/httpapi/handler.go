package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/haxball-league/internal/domain/transfer"
	"github.com/riskibarqy/haxball-league/internal/platform/logging"
	"github.com/riskibarqy/haxball-league/internal/usecase"
)

// Handler serves the public read API. Every route is a read; decisions are
// only ever taken through the Discord commands.
type Handler struct {
	queryService *usecase.QueryService
	logger       *logging.Logger
}

func NewHandler(queryService *usecase.QueryService, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		queryService: queryService,
		logger:       logger.Named("httpapi"),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "Healthz")
	defer span.End()

	writeJSON(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListHistory returns the latest ledger entries, newest first.
func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "ListHistory")
	defer span.End()

	entries, err := h.queryService.RecentHistory(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list history failed", "error", err)
		writeError(ctx, w, err, "Error al obtener historial")
		return
	}

	writeList(ctx, w, mapSlice(entries, historyEntryToDTO))
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "ListTeams")
	defer span.End()

	teams, err := h.queryService.Teams(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list teams failed", "error", err)
		writeError(ctx, w, err, "Error al obtener equipos")
		return
	}

	writeList(ctx, w, mapSlice(teams, teamToDTO))
}

// GetTeamRoster returns the accepted offers of one team.
func (h *Handler) GetTeamRoster(w http.ResponseWriter, r *http.Request) {
	roleID := strings.TrimSpace(chi.URLParam(r, "roleID"))
	ctx, span := startSpan(r.Context(), "GetTeamRoster", attribute.String("team.role_id", roleID))
	defer span.End()

	offers, err := h.queryService.TeamRoster(ctx, roleID)
	if err != nil {
		h.logger.ErrorContext(ctx, "get team roster failed", "role_id", roleID, "error", err)
		writeError(ctx, w, err, "Error al obtener plantilla")
		return
	}

	writeList(ctx, w, mapSlice(offers, offerToDTO))
}

// ListOffers returns raw offer rows, optionally narrowed by ?estado=.
func (h *Handler) ListOffers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "ListOffers")
	defer span.End()

	h.listOffers(w, r.WithContext(ctx), "")
}

func (h *Handler) ListTeamOffers(w http.ResponseWriter, r *http.Request) {
	teamRoleID := strings.TrimSpace(chi.URLParam(r, "teamRoleID"))
	ctx, span := startSpan(r.Context(), "ListTeamOffers", attribute.String("team.role_id", teamRoleID))
	defer span.End()

	h.listOffers(w, r.WithContext(ctx), teamRoleID)
}

func (h *Handler) listOffers(w http.ResponseWriter, r *http.Request, teamRoleID string) {
	ctx := r.Context()

	status, err := parseStatusQuery(r.URL.Query().Get("estado"))
	if err != nil {
		writeError(ctx, w, err, "Parámetro estado inválido")
		return
	}

	offers, err := h.queryService.Offers(ctx, transfer.Filter{TeamRoleID: teamRoleID, Status: status})
	if err != nil {
		h.logger.ErrorContext(ctx, "list offers failed", "team_role_id", teamRoleID, "error", err)
		writeError(ctx, w, err, "Error al obtener fichajes")
		return
	}

	writeList(ctx, w, mapSlice(offers, offerToDTO))
}

func parseStatusQuery(raw string) (transfer.Status, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return "", nil
	}
	for status, label := range statusLabels {
		if raw == label || raw == string(status) {
			return status, nil
		}
	}
	return "", fmt.Errorf("%w: unknown estado %q", usecase.ErrInvalidInput, raw)
}

func mapSlice[T, D any](items []T, fn func(T) D) []D {
	out := make([]D, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}
