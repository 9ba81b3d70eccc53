package clients

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	clients map[int64]*Client
	nextID  int64
	byPhone map[string]int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{clients: make(map[int64]*Client), byPhone: make(map[string]int64), nextID: 1}
}

func (f *fakeRepo) Create(_ context.Context, req CreateClientRequest) (*Client, error) {
	if _, dup := f.byPhone[req.Phone]; dup {
		return nil, ErrDuplicatePhone
	}
	c := &Client{ID: f.nextID, Name: req.Name, Phone: req.Phone, IsActive: true}
	f.clients[c.ID] = c
	f.byPhone[c.Phone] = c.ID
	f.nextID++
	return c, nil
}

func (f *fakeRepo) Get(_ context.Context, id int64) (*Client, error) {
	c, ok := f.clients[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

func (f *fakeRepo) List(context.Context, ListClientsRequest) ([]Client, int, error) {
	var out []Client
	for _, c := range f.clients {
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Update(_ context.Context, id int64, req UpdateClientRequest) error {
	c, ok := f.clients[id]
	if !ok {
		return ErrNotFound
	}
	if req.Name != nil {
		c.Name = *req.Name
	}
	return nil
}

func (f *fakeRepo) Deactivate(_ context.Context, id int64) error {
	c, ok := f.clients[id]
	if !ok {
		return ErrNotFound
	}
	c.IsActive = false
	return nil
}

func newTestRouter(repo RepositoryPort) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(logger, NewService(repo))
	r := chi.NewRouter()
	r.Route("/clients", h.MountRoutes)
	return r
}

func TestCreateClient(t *testing.T) {
	router := newTestRouter(newFakeRepo())

	req := httptest.NewRequest(http.MethodPost, "/clients/",
		strings.NewReader(`{"name":"María González","phone":"11-4444-0001"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "María González")
}

func TestCreateClientDuplicatePhone(t *testing.T) {
	repo := newFakeRepo()
	_, err := repo.Create(context.Background(), CreateClientRequest{Name: "Primero", Phone: "11-4444-0001"})
	require.NoError(t, err)
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodPost, "/clients/",
		strings.NewReader(`{"name":"Segundo","phone":"11-4444-0001"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateClientValidation(t *testing.T) {
	router := newTestRouter(newFakeRepo())

	req := httptest.NewRequest(http.MethodPost, "/clients/", strings.NewReader(`{"phone":"11-4444-0001"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetClientNotFound(t *testing.T) {
	router := newTestRouter(newFakeRepo())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/clients/99", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeactivateClient(t *testing.T) {
	repo := newFakeRepo()
	created, err := repo.Create(context.Background(), CreateClientRequest{Name: "María", Phone: "11-4444-0001"})
	require.NoError(t, err)
	router := newTestRouter(repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/clients/1", nil))

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, repo.clients[created.ID].IsActive)
}
