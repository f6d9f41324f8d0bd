package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/plastinin/renderclient/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRenderService поднимает фейковый Render Service: задача job-1 дважды pending, затем completed
func newRenderService(t *testing.T, finalStatus string) *httptest.Server {
	t.Helper()
	var polls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload", func(w http.ResponseWriter, r *http.Request) {
		if _, _, err := r.FormFile("file"); err != nil {
			http.Error(w, "no file", http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"task_id": "job-1"})
	})
	mux.HandleFunc("GET /status/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "job-1" {
			http.NotFound(w, r)
			return
		}
		if polls.Add(1) < 3 {
			_ = json.NewEncoder(w).Encode(map[string]any{"status": "pending"})
			return
		}
		if finalStatus == "failed" {
			_ = json.NewEncoder(w).Encode(map[string]any{"status": "failed", "error": "decode error"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":     "completed",
			"file_paths": []string{"/renders/a.png", "/renders/b.png"},
		})
	})
	mux.HandleFunc("GET /renders/{name}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = io.WriteString(w, "png:"+r.PathValue("name"))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func setupEnv(t *testing.T) string {
	t.Helper()
	outDir := t.TempDir()
	t.Setenv("RENDER_BASE_URL", "")
	t.Setenv("RENDER_POLL_INTERVAL", "10ms")
	t.Setenv("OUTPUT_BACKEND", "local")
	t.Setenv("OUTPUT_DIR", outDir)
	t.Setenv("LOG_LEVEL", "error")
	return outDir
}

func writeScene(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "scene.obj")
	require.NoError(t, os.WriteFile(p, []byte("v 0 0 0"), 0o644))
	return p
}

func TestRun_Render(t *testing.T) {
	outDir := setupEnv(t)
	srv := newRenderService(t, "completed")

	var out bytes.Buffer
	err := run(context.Background(), []string{
		"renderclient", "--base-url", srv.URL, "render", "--fetch", writeScene(t),
	}, &out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, []string{
		"Uploading...",
		"Processing...",
		"Rendering complete",
		srv.URL + "/renders/a.png",
		srv.URL + "/renders/b.png",
		"saved " + filepath.Join(outDir, "a.png"),
		"saved " + filepath.Join(outDir, "b.png"),
	}, lines)

	data, err := os.ReadFile(filepath.Join(outDir, "b.png"))
	require.NoError(t, err)
	assert.Equal(t, "png:b.png", string(data))
}

func TestRun_Render_Failed(t *testing.T) {
	setupEnv(t)
	srv := newRenderService(t, "failed")

	var out bytes.Buffer
	err := run(context.Background(), []string{
		"renderclient", "--base-url", srv.URL, "render", writeScene(t),
	}, &out)

	require.ErrorIs(t, err, domain.ErrJobFailed)
	assert.Contains(t, err.Error(), "Rendering failed: decode error")
	assert.Contains(t, out.String(), "Rendering failed: decode error")
}

func TestRun_Render_MissingFile(t *testing.T) {
	setupEnv(t)
	srv := newRenderService(t, "completed")

	err := run(context.Background(), []string{
		"renderclient", "--base-url", srv.URL, "render", filepath.Join(t.TempDir(), "nope.obj"),
	}, io.Discard)

	assert.Error(t, err)
}

func TestRun_Status(t *testing.T) {
	setupEnv(t)
	srv := newRenderService(t, "completed")

	var out bytes.Buffer
	err := run(context.Background(), []string{
		"renderclient", "--base-url", srv.URL, "status", "job-1",
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, "pending\n", out.String())
}

func TestRun_Fetch(t *testing.T) {
	outDir := setupEnv(t)
	srv := newRenderService(t, "completed")

	var out bytes.Buffer
	err := run(context.Background(), []string{
		"renderclient", "--base-url", srv.URL, "fetch", srv.URL + "/renders/c.png",
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, "saved "+filepath.Join(outDir, "c.png")+"\n", out.String())
}

func TestRun_Fetch_NoURLs(t *testing.T) {
	setupEnv(t)
	srv := newRenderService(t, "completed")

	err := run(context.Background(), []string{
		"renderclient", "--base-url", srv.URL, "fetch",
	}, io.Discard)
	assert.ErrorIs(t, err, domain.ErrNoResults)
}

func TestRun_MissingBaseURL(t *testing.T) {
	setupEnv(t)

	err := run(context.Background(), []string{"renderclient", "status", "job-1"}, io.Discard)
	assert.Error(t, err)
}
