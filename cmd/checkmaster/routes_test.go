package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkmaster/internal/config"
	"checkmaster/internal/service/dashboard"
	"checkmaster/internal/service/runner"
	"checkmaster/internal/storage"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()

	frontend := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(frontend, "index.html"), []byte("<html>checkmaster</html>"), 0o644))

	return config.Config{
		Env:            envLocal,
		StorageDriver:  config.DriverSQLite,
		StoragePath:    ":memory:",
		FrontendDir:    frontend,
		AllowedOrigins: []string{"http://localhost:5173"},
		Vision:         config.Vision{MaxImageSize: 1 << 20},
	}
}

func testServer(t *testing.T, cfg config.Config) *httptest.Server {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	a, err := newApp(context.Background(), &cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	srv := httptest.NewServer(routes(cfg, log, a))
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestRoutes_InspectionFlow(t *testing.T) {
	srv := testServer(t, testConfig(t))

	resp := call(t, http.MethodGet, srv.URL+"/api/templates", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list struct {
		Templates []storage.ChecklistTemplate `json:"templates"`
	}
	decode(t, resp, &list)
	require.Len(t, list.Templates, 3)
	tplID := list.Templates[0].ID

	resp = call(t, http.MethodGet, srv.URL+"/api/run/"+tplID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sess runner.Session
	decode(t, resp, &sess)
	assert.Equal(t, list.Templates[0].Name, sess.ClientName)

	for _, f := range sess.Template.Fields {
		switch f.Type {
		case storage.FieldAIPlaca:
			sess.Values[f.ID] = "BRA2E19"
		case storage.FieldPrice:
			sess.Values[f.ID] = "180"
		case storage.FieldBoolean:
			sess.Values[f.ID] = true
		}
	}
	sess.ClientName = "Locadora Rota"

	resp = call(t, http.MethodPost, srv.URL+"/api/orders/total", sess)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var preview runner.Preview
	decode(t, resp, &preview)
	assert.Equal(t, 180.0, preview.Total)

	resp = call(t, http.MethodPost, srv.URL+"/api/orders", sess)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var order storage.ServiceOrder
	decode(t, resp, &order)
	assert.Equal(t, "BRA2E19", order.Vehicle.Placa)
	assert.Equal(t, storage.StatusCompleted, order.Status)

	resp = call(t, http.MethodGet, srv.URL+"/api/dashboard", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var d dashboard.Dashboard
	decode(t, resp, &d)
	assert.Equal(t, dashboard.Stats{Today: 1, Gains: 180, Clients: 1}, d.Stats)
	require.Len(t, d.Recent, 1)
	assert.Equal(t, order.ID, d.Recent[0].ID)

	resp = call(t, http.MethodGet, srv.URL+"/api/orders/"+order.ID+"/export.csv", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "Vistoria_BRA2E19.csv")

	resp = call(t, http.MethodGet, srv.URL+"/api/orders/"+order.ID+"/session", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var edit runner.Session
	decode(t, resp, &edit)
	assert.Equal(t, order.ID, edit.OrderID)
	assert.Equal(t, "Locadora Rota", edit.ClientName)
}

func TestRoutes_TemplateEditing(t *testing.T) {
	srv := testServer(t, testConfig(t))

	resp := call(t, http.MethodPost, srv.URL+"/api/templates", storage.ChecklistTemplate{Name: "Retirada"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var saved struct {
		Template storage.ChecklistTemplate `json:"template"`
	}
	decode(t, resp, &saved)
	id := saved.Template.ID
	require.NotEmpty(t, id)

	resp = call(t, http.MethodPost, srv.URL+"/api/templates/"+id+"/fields", map[string]string{"type": "multiselect", "label": "Acessórios"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tpl storage.ChecklistTemplate
	decode(t, resp, &tpl)
	require.Len(t, tpl.Fields, 1)
	assert.Equal(t, "Opção 1", tpl.Fields[0].Options[0].Label)

	resp = call(t, http.MethodPost, srv.URL+"/api/templates/"+id+"/fields/"+tpl.Fields[0].ID+"/preset", map[string]string{"preset": "truck_brands"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &tpl)
	assert.Len(t, tpl.Fields[0].Options, 6)

	resp = call(t, http.MethodPost, srv.URL+"/api/templates/"+id+"/favorite", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = call(t, http.MethodDelete, srv.URL+"/api/templates/"+id, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = call(t, http.MethodGet, srv.URL+"/api/templates/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRoutes_AdminAuth(t *testing.T) {
	cfg := testConfig(t)
	cfg.AdminLogin = "admin"
	cfg.AdminPass = "s3nha"
	srv := testServer(t, cfg)

	resp := call(t, http.MethodGet, srv.URL+"/api/templates", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = call(t, http.MethodPost, srv.URL+"/api/templates", storage.ChecklistTemplate{Name: "X"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/templates", strings.NewReader(`{"name":"X"}`))
	require.NoError(t, err)
	req.SetBasicAuth("admin", "s3nha")
	authed, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer authed.Body.Close()
	assert.Equal(t, http.StatusOK, authed.StatusCode)
}

func TestRoutes_VisionDisabled(t *testing.T) {
	srv := testServer(t, testConfig(t))

	resp := call(t, http.MethodPost, srv.URL+"/api/vision/analyze", nil)

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestRoutes_SPAFallback(t *testing.T) {
	srv := testServer(t, testConfig(t))

	resp := call(t, http.MethodGet, srv.URL+"/history/123", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "checkmaster")
}
