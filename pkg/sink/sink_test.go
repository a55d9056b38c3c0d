package sink

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/renomhq/renom/pkg/restore"
)

func TestNominatePostsDocument(t *testing.T) {
	var gotBody string
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	info := &restore.RestoreInfo{
		TargetFrameworks: []restore.TargetFrameworkInfo{{Moniker: "net6.0"}},
		ToolReferences:   []restore.ReferenceItem{},
	}

	err := New(srv.URL).Nominate(context.Background(), "/src/app/App.csproj", info)
	if err != nil {
		t.Fatalf("nominate: %v", err)
	}
	if gotContentType != "application/json" {
		t.Fatalf("content type = %q", gotContentType)
	}
	if !strings.Contains(gotBody, `"projectPath":"/src/app/App.csproj"`) {
		t.Fatalf("body missing project path: %s", gotBody)
	}
	if !strings.Contains(gotBody, `"net6.0"`) {
		t.Fatalf("body missing framework: %s", gotBody)
	}
}

func TestNominateRejectedByService(t *testing.T) {
	// 400 is not retried by the client, so the test stays fast.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad nomination", http.StatusBadRequest)
	}))
	defer srv.Close()

	err := New(srv.URL).Nominate(context.Background(), "/src/app/App.csproj", &restore.RestoreInfo{})
	if err == nil {
		t.Fatal("expected an error for a non-2xx response")
	}
	if !strings.Contains(err.Error(), "400") {
		t.Fatalf("error should carry the status code: %v", err)
	}
}
