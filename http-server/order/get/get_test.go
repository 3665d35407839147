package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"checkmaster/internal/service/runner"
	"checkmaster/internal/storage"
)

type MockOrderProvider struct {
	mock.Mock
}

func (m *MockOrderProvider) GetOrders(ctx context.Context) ([]storage.ServiceOrder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.ServiceOrder), args.Error(1)
}

func (m *MockOrderProvider) GetOrder(ctx context.Context, id string) (*storage.ServiceOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.ServiceOrder), args.Error(1)
}

type MockSessionProvider struct {
	mock.Mock
}

func (m *MockSessionProvider) Start(ctx context.Context, templateID string) (*runner.Session, error) {
	args := m.Called(ctx, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*runner.Session), args.Error(1)
}

func (m *MockSessionProvider) Edit(ctx context.Context, orderID string) (*runner.Session, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*runner.Session), args.Error(1)
}

func router(orders OrderProvider, sessions SessionProvider) http.Handler {
	log := slog.Default()
	r := chi.NewRouter()
	r.Get("/api/orders", GetAllOrders(log, orders))
	r.Get("/api/orders/{id}", GetOrderByID(log, orders))
	r.Get("/api/orders/{id}/session", EditSession(log, sessions))
	r.Get("/api/run/{templateID}", StartSession(log, sessions))
	return r
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func TestGetAllOrders(t *testing.T) {
	orders := new(MockOrderProvider)
	orders.On("GetOrders", mock.Anything).Return([]storage.ServiceOrder{
		{ID: "o1", ClientName: "Transportadora Sul", TotalValue: 250, Date: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)},
	}, nil)

	rr := get(router(orders, nil), "/api/orders")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp ResponseAllOrders
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp))
	require.Len(t, resp.Orders, 1)
	assert.Equal(t, "Transportadora Sul", resp.Orders[0].ClientName)
}

func TestGetAllOrders_EmptyIsArray(t *testing.T) {
	orders := new(MockOrderProvider)
	orders.On("GetOrders", mock.Anything).Return(nil, nil)

	rr := get(router(orders, nil), "/api/orders")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"orders":[]}`, rr.Body.String())
}

func TestGetAllOrders_StorageError(t *testing.T) {
	orders := new(MockOrderProvider)
	orders.On("GetOrders", mock.Anything).Return(nil, errors.New("disk gone"))

	rr := get(router(orders, nil), "/api/orders")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "disk gone")
}

func TestGetOrderByID_NotFound(t *testing.T) {
	orders := new(MockOrderProvider)
	orders.On("GetOrder", mock.Anything, "nope").Return(nil, storage.ErrNotFound)

	rr := get(router(orders, nil), "/api/orders/nope")

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestEditSession(t *testing.T) {
	sessions := new(MockSessionProvider)
	sessions.On("Edit", mock.Anything, "o1").Return(&runner.Session{
		OrderID:    "o1",
		ClientName: "Maria",
		Values:     map[string]any{"placa": "ABC1D23"},
	}, nil)

	rr := get(router(nil, sessions), "/api/orders/o1/session")
	require.Equal(t, http.StatusOK, rr.Code)

	var sess runner.Session
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &sess))
	assert.Equal(t, "o1", sess.OrderID)
	assert.Equal(t, "ABC1D23", sess.Values["placa"])
}

func TestStartSession(t *testing.T) {
	sessions := new(MockSessionProvider)
	sessions.On("Start", mock.Anything, "tpl-1").Return(&runner.Session{
		Template:   storage.ChecklistTemplate{ID: "tpl-1", Name: "Instalação"},
		ClientName: "Instalação",
	}, nil)
	sessions.On("Start", mock.Anything, "tpl-x").Return(nil, storage.ErrNotFound)

	rr := get(router(nil, sessions), "/api/run/tpl-1")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"clientName":"Instalação"`)

	rr = get(router(nil, sessions), "/api/run/tpl-x")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
