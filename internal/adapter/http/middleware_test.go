package adapthttp_test

import (
	"bytes"
	"log"
	"net/http"
	"os"
	"strings"
	"testing"
)

func TestLoggingMiddleware_RecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodGet, "/api/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health returned %d", rec.Code)
	}
	if !strings.Contains(buf.String(), "GET /api/health 200") {
		t.Fatalf("expected request line in log, got %q", buf.String())
	}

	buf.Reset()
	rec = doJSON(t, h, http.MethodGet, "/api/u/ghost", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("lookup returned %d", rec.Code)
	}
	if !strings.Contains(buf.String(), "GET /api/u/ghost 404") {
		t.Fatalf("expected 404 in log, got %q", buf.String())
	}
}
