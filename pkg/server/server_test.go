// Copyright 2025 The GardenWorker Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	endpoint, _ := newTestEndpoint(t)
	srv, err := New(Config{}, zerolog.Nop(), endpoint, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return srv
}

func invoke(t *testing.T, handler echo.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	if err := handler(c); err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	return rec
}

func TestHandleRPCOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	rec := invoke(t, srv.handleRPC, http.MethodPost, "/mcp", `{"jsonrpc":"2.0","method":"ping","id":1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	resp := decodeResponse(t, rec.Body.Bytes())
	result := resultOf(t, resp)
	if len(result) != 0 {
		t.Errorf("expected an empty result, got %v", result)
	}
}

func TestHandleRPCNotificationOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	rec := invoke(t, srv.handleRPC, http.MethodPost, "/mcp", `{"jsonrpc":"2.0","method":"notifications/initialized"}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected an empty body, got %s", rec.Body.String())
	}
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t)

	rec := invoke(t, srv.handleHealth, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var status healthStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("cannot decode body: %v", err)
	}
	if status.Status != "healthy" {
		t.Errorf("expected status healthy, got %q", status.Status)
	}
	if status.Name != "gardenworker-test" || status.Version != "0.0.1" {
		t.Errorf("unexpected identity %q %q", status.Name, status.Version)
	}
	if status.Tools != 3 {
		t.Errorf("expected 3 tools, got %d", status.Tools)
	}
	if status.Started == "" {
		t.Errorf("expected a started timestamp")
	}
}

func TestHandleTools(t *testing.T) {
	srv := newTestServer(t)

	rec := invoke(t, srv.handleTools, http.MethodGet, "/tools", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var result toolsListResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("cannot decode body: %v", err)
	}
	if len(result.Tools) != 3 {
		t.Fatalf("expected 3 tools, got %d", len(result.Tools))
	}
	if result.Tools[0].Name != "greet" || result.Tools[1].Name != "fail_soft" || result.Tools[2].Name != "fail_hard" {
		t.Errorf("unexpected tool order %v", result.Tools)
	}
}
