package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"checkmaster/internal/service/dashboard"
	"checkmaster/internal/storage"
)

type MockDashboardProvider struct {
	mock.Mock
}

func (m *MockDashboardProvider) Get(ctx context.Context) (*dashboard.Dashboard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dashboard.Dashboard), args.Error(1)
}

func TestGetDashboard(t *testing.T) {
	p := new(MockDashboardProvider)
	p.On("Get", mock.Anything).Return(&dashboard.Dashboard{
		Stats:     dashboard.Stats{Today: 2, Gains: 480.5, Clients: 2},
		Favorites: []storage.ChecklistTemplate{{ID: "t1", Name: "Instalação", IsFavorite: true}},
		Recent:    []storage.ServiceOrder{{ID: "o2"}, {ID: "o1"}},
	}, nil)

	rr := httptest.NewRecorder()
	GetDashboard(slog.Default(), p).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))

	require.Equal(t, http.StatusOK, rr.Code)

	var got dashboard.Dashboard
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &got))
	assert.Equal(t, dashboard.Stats{Today: 2, Gains: 480.5, Clients: 2}, got.Stats)
	assert.Equal(t, "o2", got.Recent[0].ID)
	assert.Contains(t, rr.Body.String(), `"recentOrders"`)
}

func TestGetDashboard_Error(t *testing.T) {
	p := new(MockDashboardProvider)
	p.On("Get", mock.Anything).Return(nil, errors.New("boom"))

	rr := httptest.NewRecorder()
	GetDashboard(slog.Default(), p).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
