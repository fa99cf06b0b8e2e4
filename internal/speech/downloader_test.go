package speech

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureModelDownloads(t *testing.T) {
	payload := []byte("ggml model bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ggml-medium.bin" {
			http.NotFound(w, r)
			return
		}
		w.Write(payload)
	}))
	defer srv.Close()

	dir := t.TempDir()
	d := NewDownloader(dir)
	d.BaseURL = srv.URL + "/"

	mdl, _ := LookupModel("medium")
	got, err := d.EnsureModel(context.Background(), mdl)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if got.Existed {
		t.Error("fresh download reported as cached")
	}
	if got.Path != filepath.Join(dir, mdl.GGMLName) {
		t.Errorf("unexpected path %q", got.Path)
	}

	data, err := os.ReadFile(got.Path)
	if err != nil {
		t.Fatalf("read downloaded model: %v", err)
	}
	if string(data) != string(payload) {
		t.Errorf("downloaded content mismatch: %q", data)
	}
	if _, err := os.Stat(got.Path + ".downloading"); !os.IsNotExist(err) {
		t.Error("temp file left behind after rename")
	}
}

func TestEnsureModelCached(t *testing.T) {
	dir := t.TempDir()
	mdl, _ := LookupModel("large-v2")
	if err := os.WriteFile(filepath.Join(dir, mdl.GGMLName), []byte("cached"), 0o644); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	d := NewDownloader(dir)
	d.BaseURL = "http://127.0.0.1:1/" // must never be contacted

	got, err := d.EnsureModel(context.Background(), mdl)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if !got.Existed {
		t.Error("cached model reported as fresh download")
	}
}

func TestEnsureModelUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	dir := t.TempDir()
	d := NewDownloader(dir)
	d.BaseURL = srv.URL + "/"

	mdl, _ := LookupModel("large-v3")
	if _, err := d.EnsureModel(context.Background(), mdl); err == nil {
		t.Fatal("expected error for missing upstream model")
	}
	if _, err := os.Stat(filepath.Join(dir, mdl.GGMLName+".downloading")); !os.IsNotExist(err) {
		t.Error("temp file left behind after failed fetch")
	}
}
