package api

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumipallolabs/sizescope/internal/core"
	"github.com/lumipallolabs/sizescope/internal/model"
	"github.com/lumipallolabs/sizescope/internal/stats"
)

func writeFile(t *testing.T, root, rel string, size int) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0644))
	return path
}

func dataTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "a", 100)
	writeFile(t, root, "b", 2048)
	writeFile(t, root, filepath.Join("c", "d"), 1048576)
	return root
}

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	cfg := core.DefaultConfig()
	cfg.Stats = stats.NewManagerAt(filepath.Join(t.TempDir(), "stats.json"))
	svc := core.NewService(cfg)
	t.Cleanup(func() { svc.Close() })
	return NewServer(svc)
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

type sseEvent struct {
	name string
	data string
}

func parseSSE(t *testing.T, body string) []sseEvent {
	t.Helper()
	var events []sseEvent
	var cur sseEvent
	sc := bufio.NewScanner(strings.NewReader(body))
	sc.Buffer(make([]byte, 1<<20), 1<<20)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			cur.name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			cur.data = strings.TrimPrefix(line, "data: ")
		case line == "":
			if cur.name != "" {
				events = append(events, cur)
			}
			cur = sseEvent{}
		}
	}
	return events
}

func startScan(t *testing.T, e *echo.Echo, body string) core.Ack {
	t.Helper()
	rec := do(e, http.MethodPost, "/api/scans", body)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	var ack core.Ack
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ack))
	return ack
}

func TestGetVolumes(t *testing.T) {
	e := newTestServer(t)

	rec := do(e, http.MethodGet, "/api/volumes", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var volumes []model.Volume
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &volumes))
	for _, v := range volumes {
		assert.NotEmpty(t, v.Path)
		assert.LessOrEqual(t, v.UsagePercent, float32(100))
	}
}

func TestStartScanAndStreamEvents(t *testing.T) {
	e := newTestServer(t)
	root := dataTree(t)

	ack := startScan(t, e, `{"path":`+jsonString(root)+`}`)
	assert.Equal(t, "Scan started", ack.Message)

	// The stream ends when the scan does
	rec := do(e, http.MethodGet, "/api/scans/"+ack.ID+"/events", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get(echo.HeaderContentType))

	events := parseSSE(t, rec.Body.String())
	require.NotEmpty(t, events)

	var result model.Result
	var sawComplete bool
	for _, ev := range events {
		if ev.name == "complete" {
			sawComplete = true
			require.NoError(t, json.Unmarshal([]byte(ev.data), &result))
		}
	}
	require.True(t, sawComplete)
	require.Len(t, result, 3)
	assert.Equal(t, "c", result[0].Name)
	assert.Equal(t, "1.00 MB", result[0].Size)

	last := events[len(events)-1]
	require.Equal(t, "progress", last.name)
	var progress struct {
		CurrentPath  string  `json:"current_path"`
		FilesScanned uint64  `json:"files_scanned"`
		Progress     float32 `json:"progress"`
	}
	require.NoError(t, json.Unmarshal([]byte(last.data), &progress))
	assert.Equal(t, "Complete", progress.CurrentPath)
	assert.Equal(t, uint64(3), progress.FilesScanned)
	assert.Equal(t, float32(100), progress.Progress)

	rec = do(e, http.MethodGet, "/api/scans/"+ack.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var status ScanStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "Complete", status.State)
	assert.Equal(t, 3, status.Results)
}

func TestStartScanDeepWithHumanMinSize(t *testing.T) {
	e := newTestServer(t)
	root := dataTree(t)

	ack := startScan(t, e, `{"path":`+jsonString(root)+`,"mode":"deep","min_size":"1MiB"}`)

	events := parseSSE(t, do(e, http.MethodGet, "/api/scans/"+ack.ID+"/events", "").Body.String())
	var result model.Result
	for _, ev := range events {
		if ev.name == "complete" {
			require.NoError(t, json.Unmarshal([]byte(ev.data), &result))
		}
	}
	require.Len(t, result, 1)
	assert.Equal(t, "d", result[0].Name)
}

func TestStartScanErrors(t *testing.T) {
	e := newTestServer(t)
	missing := filepath.Join(t.TempDir(), "missing")
	file := writeFile(t, t.TempDir(), "f", 1)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"no path", `{}`, http.StatusBadRequest},
		{"bad mode", `{"path":"/","mode":"sideways"}`, http.StatusBadRequest},
		{"bad size", `{"path":"/","min_size":"lots"}`, http.StatusBadRequest},
		{"missing root", `{"path":` + jsonString(missing) + `}`, http.StatusNotFound},
		{"file root", `{"path":` + jsonString(file) + `}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, http.MethodPost, "/api/scans", tt.body)
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
		})
	}
}

func TestUnknownScan(t *testing.T) {
	e := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, do(e, http.MethodGet, "/api/scans/nope", "").Code)
	assert.Equal(t, http.StatusNotFound, do(e, http.MethodGet, "/api/scans/nope/events", "").Code)
	assert.Equal(t, http.StatusNotFound, do(e, http.MethodDelete, "/api/scans/nope", "").Code)
}

func TestListDirectory(t *testing.T) {
	e := newTestServer(t)
	root := dataTree(t)

	rec := do(e, http.MethodGet, "/api/ls?order=dirs&path="+url.QueryEscape(root), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var result []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result, 3)
	assert.Equal(t, "c", result[0]["name"])
	assert.Equal(t, "directory", result[0]["type"])
	assert.Equal(t, "a", result[1]["name"])
	assert.Equal(t, "100 bytes", result[1]["size"])
	assert.Equal(t, float64(2048), result[2]["size_bytes"])
	assert.Contains(t, result[0], "last_modified")
	assert.Equal(t, filepath.Join(root, "c"), result[0]["id"])
}

func TestListDirectoryErrors(t *testing.T) {
	e := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodGet, "/api/ls", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodGet, "/api/ls?order=weird&path=/", "").Code)
	missing := filepath.Join(t.TempDir(), "missing")
	assert.Equal(t, http.StatusNotFound, do(e, http.MethodGet, "/api/ls?path="+url.QueryEscape(missing), "").Code)
}

func TestGetTree(t *testing.T) {
	e := newTestServer(t)
	root := dataTree(t)

	rec := do(e, http.MethodGet, "/api/tree?depth=2&path="+url.QueryEscape(root), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var tree model.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tree))
	require.Len(t, tree.Children, 3)
	require.Len(t, tree.Children[0].Children, 1)
	assert.Equal(t, "d", tree.Children[0].Children[0].Name)

	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodGet, "/api/tree?depth=0&path="+url.QueryEscape(root), "").Code)
}

func TestDeleteEntry(t *testing.T) {
	e := newTestServer(t)
	victim := writeFile(t, t.TempDir(), "big.bin", 300*1024)

	rec := do(e, http.MethodDelete, "/api/entries?path="+url.QueryEscape(victim), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp RemovalResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint64(300*1024), resp.Bytes)
	assert.Equal(t, "300.00 KB", resp.Size)
	assert.Equal(t, uint64(300*1024), resp.SessionFreed)
	assert.NoFileExists(t, victim)

	rec = do(e, http.MethodDelete, "/api/entries?path="+url.QueryEscape(victim), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTrashEntryValidation(t *testing.T) {
	e := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodPost, "/api/trash", `{}`).Code)
	missing := filepath.Join(t.TempDir(), "missing")
	assert.Equal(t, http.StatusNotFound, do(e, http.MethodPost, "/api/trash", `{"path":`+jsonString(missing)+`}`).Code)
}

func TestCancelScan(t *testing.T) {
	e := newTestServer(t)
	root := t.TempDir()
	for i := range 50 {
		writeFile(t, root, filepath.Join(fmt.Sprintf("d%d", i%5), fmt.Sprintf("f%02d", i)), 10)
	}

	ack := startScan(t, e, `{"path":`+jsonString(root)+`,"mode":"deep"}`)
	rec := do(e, http.MethodDelete, "/api/scans/"+ack.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// Whether or not the cancel won the race, the stream terminates
	done := make(chan struct{})
	go func() {
		do(e, http.MethodGet, "/api/scans/"+ack.ID+"/events", "")
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("event stream did not end")
	}
}

// jsonString quotes s as a JSON string
func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
