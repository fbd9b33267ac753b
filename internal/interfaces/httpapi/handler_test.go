package httpapi

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/haxball-league/internal/domain/history"
	"github.com/riskibarqy/haxball-league/internal/domain/team"
	"github.com/riskibarqy/haxball-league/internal/domain/transfer"
	"github.com/riskibarqy/haxball-league/internal/infrastructure/repository/memory"
	historymock "github.com/riskibarqy/haxball-league/internal/mocks/domain/history"
	teammock "github.com/riskibarqy/haxball-league/internal/mocks/domain/team"
	transfermock "github.com/riskibarqy/haxball-league/internal/mocks/domain/transfer"
	"github.com/riskibarqy/haxball-league/internal/usecase"
)

var fixedTime = time.Date(2026, time.March, 1, 20, 0, 0, 0, time.UTC)

type seededStore struct {
	teams   *memory.TeamRepository
	offers  *memory.TransferRepository
	history *memory.HistoryRepository
}

func newSeededStore(t *testing.T) seededStore {
	t.Helper()
	ctx := t.Context()

	teams := memory.NewTeamRepository()
	historyRepo := memory.NewHistoryRepository()
	offers := memory.NewTransferRepository(historyRepo)

	_, err := teams.Create(ctx, team.Team{RoleID: "300", Name: "Rayos", LogoURL: "https://example.com/rayos.png", CreatedAt: fixedTime})
	require.NoError(t, err)
	_, err = teams.Create(ctx, team.Team{RoleID: "301", Name: "Truenos", LogoURL: "https://example.com/truenos.png", CreatedAt: fixedTime})
	require.NoError(t, err)

	accepted, err := offers.Create(ctx, transfer.Offer{
		PlayerID: "2", PlayerName: "Pibe", TeamRoleID: "300", TeamName: "Rayos",
		Position: "DEL", JerseyNumber: 9, ManagerID: "1", ManagerName: "Capitán",
		Status: transfer.StatusPending, CreatedAt: fixedTime,
	})
	require.NoError(t, err)
	ok, err := offers.Accept(ctx, accepted.ID, fixedTime.Add(time.Minute), history.Entry{
		Kind: history.KindSigning, PlayerID: "2", PlayerName: "Pibe", TeamName: "Rayos",
		Position: "DEL", JerseyNumber: 9, OccurredAt: fixedTime.Add(time.Minute),
	})
	require.NoError(t, err)
	require.True(t, ok)

	_, err = offers.Create(ctx, transfer.Offer{
		PlayerID: "3", PlayerName: "Flaco", TeamRoleID: "300", TeamName: "Rayos",
		Position: "GK", ManagerID: "1", ManagerName: "Capitán",
		Status: transfer.StatusPending, CreatedAt: fixedTime,
	})
	require.NoError(t, err)

	return seededStore{teams: teams, offers: offers, history: historyRepo}
}

func newTestRouter(teams team.Repository, offers transfer.Repository, historyRepo history.Repository) http.Handler {
	handler := NewHandler(usecase.NewQueryService(teams, offers, historyRepo), nil)
	return NewRouter(handler, nil, []string{"*"})
}

func get(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var out []map[string]any
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestReadAPI_Teams(t *testing.T) {
	t.Parallel()
	store := newSeededStore(t)
	router := newTestRouter(store.teams, store.offers, store.history)

	rec := get(t, router, "/api/equipos")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	teams := decodeList(t, rec)
	require.Len(t, teams, 2)
	assert.Equal(t, "300", teams[0]["roleId"])
	assert.Equal(t, "Rayos", teams[0]["nombre"])
	assert.Equal(t, "https://example.com/rayos.png", teams[0]["logo"])
}

func TestReadAPI_TeamRosterListsAcceptedOnly(t *testing.T) {
	t.Parallel()
	store := newSeededStore(t)
	router := newTestRouter(store.teams, store.offers, store.history)

	roster := decodeList(t, get(t, router, "/api/equipo/300"))
	require.Len(t, roster, 1)
	assert.Equal(t, "2", roster[0]["jugadorId"])
	assert.Equal(t, "aceptado", roster[0]["estado"])
	assert.EqualValues(t, 9, roster[0]["dorsal"])

	empty := get(t, router, "/api/equipo/999")
	require.Equal(t, http.StatusOK, empty.Code)
	assert.Equal(t, "[]\n", empty.Body.String())
}

func TestReadAPI_Offers(t *testing.T) {
	t.Parallel()
	store := newSeededStore(t)
	router := newTestRouter(store.teams, store.offers, store.history)

	all := decodeList(t, get(t, router, "/api/fichajes"))
	assert.Len(t, all, 2)

	pending := decodeList(t, get(t, router, "/api/fichajes/300?estado=pendiente"))
	require.Len(t, pending, 1)
	assert.Equal(t, "3", pending[0]["jugadorId"])
	assert.Equal(t, "pendiente", pending[0]["estado"])

	other := decodeList(t, get(t, router, "/api/fichajes/301"))
	assert.Empty(t, other)

	bad := get(t, router, "/api/fichajes?estado=quizas")
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestReadAPI_History(t *testing.T) {
	t.Parallel()
	store := newSeededStore(t)
	router := newTestRouter(store.teams, store.offers, store.history)

	entries := decodeList(t, get(t, router, "/api/historial"))
	require.Len(t, entries, 1)
	assert.Equal(t, "fichaje", entries[0]["tipo"])
	assert.EqualValues(t, fixedTime.Add(time.Minute).UnixMilli(), entries[0]["timestamp"])
}

func TestReadAPI_StoreFailureIsGeneric500(t *testing.T) {
	t.Parallel()

	teams := teammock.NewRepository(t)
	offers := transfermock.NewRepository(t)
	historyRepo := historymock.NewRepository(t)
	storeErr := errors.New("database is locked")

	teams.On("List", mock.Anything).Return(nil, storeErr).Once()
	offers.On("List", mock.Anything, transfer.Filter{TeamRoleID: "300", Status: transfer.StatusAccepted}).Return(nil, storeErr).Once()
	historyRepo.On("ListRecent", mock.Anything, history.MaxRecent).Return(nil, storeErr).Once()

	router := newTestRouter(teams, offers, historyRepo)
	for path, want := range map[string]string{
		"/api/equipos":    "Error al obtener equipos",
		"/api/equipo/300": "Error al obtener plantilla",
		"/api/historial":  "Error al obtener historial",
	} {
		rec := get(t, router, path)
		require.Equal(t, http.StatusInternalServerError, rec.Code, path)

		var body map[string]string
		require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, want, body["error"], path)
		assert.NotContains(t, rec.Body.String(), "locked", path)
	}
}

func TestReadAPI_HealthzAndMethods(t *testing.T) {
	t.Parallel()
	store := newSeededStore(t)
	router := newTestRouter(store.teams, store.offers, store.history)

	rec := get(t, router, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodPost, "/api/equipos", nil)
	post := httptest.NewRecorder()
	router.ServeHTTP(post, req)
	assert.Equal(t, http.StatusMethodNotAllowed, post.Code)
}
