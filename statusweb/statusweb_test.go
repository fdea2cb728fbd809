package statusweb

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zenazn/goji/web"

	"github.com/Deep-In-Sight/ply2lcc/progressrpc"
)

func TestStatusHandlerReportsLastEvent(t *testing.T) {
	server := progressrpc.NewServer("localhost:0", nil, nil)
	handler := statusHandler(server)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	handler(web.C{}, rec, req)

	var body struct {
		Percent int    `json:"percent"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Percent != 0 || body.Message != "" {
		t.Errorf("expected zero-value status before any report, got %+v", body)
	}
}
