// Package api exposes the core service over HTTP with echo. Scan progress
// is streamed as Server-Sent Events.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/lumipallolabs/sizescope/internal/core"
	"github.com/lumipallolabs/sizescope/internal/logging"
	"github.com/lumipallolabs/sizescope/internal/model"
	"github.com/lumipallolabs/sizescope/internal/scanner"
)

const (
	defaultTreeDepth = 2
	maxTreeDepth     = 8
	// maxEndedFeeds bounds how many finished event streams stay replayable
	maxEndedFeeds = 32
)

// Handler serves the HTTP API
type Handler struct {
	svc    *core.Service
	tracer trace.Tracer

	mu    sync.Mutex
	feeds map[string]*scanFeed
}

// NewHandler creates a handler backed by svc
func NewHandler(svc *core.Service) *Handler {
	return &Handler{
		svc:    svc,
		tracer: otel.Tracer("api/handlers"),
		feeds:  make(map[string]*scanFeed),
	}
}

// Register adds the API routes to e
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/api/volumes", h.GetVolumes)
	e.POST("/api/scans", h.StartScan)
	e.GET("/api/scans/:id", h.GetScan)
	e.DELETE("/api/scans/:id", h.CancelScan)
	e.GET("/api/scans/:id/events", h.StreamScanEvents)
	e.GET("/api/ls", h.ListDirectory)
	e.GET("/api/tree", h.GetTree)
	e.DELETE("/api/entries", h.DeleteEntry)
	e.POST("/api/trash", h.TrashEntry)
}

func (h *Handler) startSpan(c echo.Context, name string) (context.Context, trace.Span) {
	ctx, span := h.tracer.Start(c.Request().Context(), name)
	c.SetRequest(c.Request().WithContext(ctx))
	return ctx, span
}

// GetVolumes returns the mounted volumes with their capacity
func (h *Handler) GetVolumes(c echo.Context) error {
	_, span := h.startSpan(c, "GetVolumes")
	defer span.End()

	volumes, err := h.svc.Volumes()
	if err != nil {
		span.RecordError(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list volumes: "+err.Error())
	}
	span.SetAttributes(attribute.Int("volumes", len(volumes)))
	return c.JSON(http.StatusOK, volumes)
}

// StartScan accepts a scan request and answers before scanning starts
func (h *Handler) StartScan(c echo.Context) error {
	ctx, span := h.startSpan(c, "StartScan")
	defer span.End()

	var req ScanRequest
	if err := c.Bind(&req); err != nil {
		span.RecordError(err)
		return err
	}
	if req.Path == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "path is required")
	}
	mode, err := scanner.ParseMode(req.Mode)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	span.SetAttributes(
		attribute.String("path", req.Path),
		attribute.String("mode", mode.String()),
	)

	feed := newScanFeed()
	// The scan outlives this request; DELETE /api/scans/:id cancels it
	ack, err := h.svc.StartScan(context.WithoutCancel(ctx), req.Path, mode, feed,
		core.WithMinSize(uint64(req.MinSize)),
		core.WithShowHidden(req.ShowHidden),
	)
	if err != nil {
		span.RecordError(err)
		return toHTTPError(err)
	}
	h.addFeed(ack.ID, feed)

	logging.API.Printf("scan %s started for %s (%s)", ack.ID, req.Path, mode)
	return c.JSON(http.StatusAccepted, ack)
}

func (h *Handler) addFeed(id string, feed *scanFeed) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.feeds[id] = feed

	type ended struct {
		id string
		at time.Time
	}
	var done []ended
	for feedID, f := range h.feeds {
		if at := f.endedAt(); !at.IsZero() {
			done = append(done, ended{feedID, at})
		}
	}
	if len(done) <= maxEndedFeeds {
		return
	}
	sort.Slice(done, func(i, j int) bool { return done[i].at.Before(done[j].at) })
	for _, d := range done[:len(done)-maxEndedFeeds] {
		delete(h.feeds, d.id)
	}
}

func (h *Handler) feed(id string) (*scanFeed, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	f, ok := h.feeds[id]
	return f, ok
}

// GetScan returns the state of a scan
func (h *Handler) GetScan(c echo.Context) error {
	_, span := h.startSpan(c, "GetScan")
	defer span.End()

	id := c.Param("id")
	span.SetAttributes(attribute.String("scan_id", id))
	state, ok := h.svc.Scan(id)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Unknown scan "+id)
	}

	status := ScanStatus{
		ID:           state.ID,
		Root:         state.Root,
		Mode:         state.Mode.String(),
		State:        state.Phase.String(),
		FilesScanned: state.FilesScanned,
		Results:      state.Results,
		ElapsedMs:    state.Elapsed().Milliseconds(),
	}
	if state.Err != nil {
		status.Error = state.Err.Error()
	}
	if skipped, dropped, ok := h.svc.Skipped(id); ok {
		for _, s := range skipped {
			status.Skipped = append(status.Skipped, s.Path+": "+s.Reason)
		}
		status.Dropped = dropped
	}
	return c.JSON(http.StatusOK, status)
}

// CancelScan stops a running scan
func (h *Handler) CancelScan(c echo.Context) error {
	_, span := h.startSpan(c, "CancelScan")
	defer span.End()

	id := c.Param("id")
	if !h.svc.CancelScan(id) {
		return echo.NewHTTPError(http.StatusNotFound, "Unknown scan "+id)
	}
	return c.NoContent(http.StatusNoContent)
}

// StreamScanEvents streams progress and completion events of a scan until
// it ends or the client goes away
func (h *Handler) StreamScanEvents(c echo.Context) error {
	id := c.Param("id")
	feed, ok := h.feed(id)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Unknown scan "+id)
	}

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set(echo.HeaderConnection, "keep-alive")
	w.WriteHeader(http.StatusOK)

	ctx := c.Request().Context()
	var seq uint64
	for {
		events, ended, changed := feed.since(seq)
		for _, ev := range events {
			if err := writeEvent(w, ev); err != nil {
				return nil
			}
			seq = ev.seq
		}
		w.Flush()
		if ended {
			return nil
		}

		select {
		case <-changed:
		case <-ctx.Done():
			return nil
		}
	}
}

func writeEvent(w *echo.Response, ev feedEvent) error {
	data, err := json.Marshal(ev.data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", ev.seq, ev.name, data)
	return err
}

// ListDirectory lists the immediate children of a directory
func (h *Handler) ListDirectory(c echo.Context) error {
	ctx, span := h.startSpan(c, "ListDirectory")
	defer span.End()

	path := c.QueryParam("path")
	if path == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "path parameter is required")
	}
	order, err := model.ParseOrder(c.QueryParam("order"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	span.SetAttributes(attribute.String("path", path), attribute.String("order", order.String()))

	result, err := h.svc.ListDirectory(ctx, path, order)
	if err != nil {
		span.RecordError(err)
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, result)
}

// GetTree returns a directory with children attached down to depth levels
func (h *Handler) GetTree(c echo.Context) error {
	ctx, span := h.startSpan(c, "GetDirectoryTree")
	defer span.End()

	path := c.QueryParam("path")
	if path == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "path parameter is required")
	}
	depth := defaultTreeDepth
	if s := c.QueryParam("depth"); s != "" {
		d, err := strconv.Atoi(s)
		if err != nil || d < 1 || d > maxTreeDepth {
			return echo.NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("depth must be between 1 and %d", maxTreeDepth))
		}
		depth = d
	}
	span.SetAttributes(attribute.String("path", path), attribute.Int("depth", depth))

	tree, err := h.svc.Tree(ctx, path, depth)
	if err != nil {
		span.RecordError(err)
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, tree)
}

// DeleteEntry permanently removes a file or directory
func (h *Handler) DeleteEntry(c echo.Context) error {
	ctx, span := h.startSpan(c, "DeleteEntry")
	defer span.End()

	path := c.QueryParam("path")
	if path == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "path parameter is required")
	}
	span.SetAttributes(attribute.String("path", path))

	r, err := h.svc.Delete(ctx, path)
	if err != nil {
		span.RecordError(err)
		return toHTTPError(err)
	}
	logging.API.Printf("deleted %s (%d bytes)", path, r.Bytes)
	return c.JSON(http.StatusOK, h.removal(r))
}

// TrashEntry moves a file or directory to the trash
func (h *Handler) TrashEntry(c echo.Context) error {
	ctx, span := h.startSpan(c, "TrashEntry")
	defer span.End()

	var req TrashRequest
	if err := c.Bind(&req); err != nil {
		span.RecordError(err)
		return err
	}
	if req.Path == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "path is required")
	}
	span.SetAttributes(attribute.String("path", req.Path))

	r, err := h.svc.Trash(ctx, req.Path)
	if err != nil {
		span.RecordError(err)
		return toHTTPError(err)
	}
	logging.API.Printf("trashed %s (%d bytes)", req.Path, r.Bytes)
	return c.JSON(http.StatusOK, h.removal(r))
}

func (h *Handler) removal(r core.Removal) RemovalResponse {
	freed := h.svc.Freed()
	return RemovalResponse{
		Path:         r.Path,
		Bytes:        r.Bytes,
		Size:         model.FormatBytes(r.Bytes),
		Trashed:      r.Trashed,
		SessionFreed: freed.Session,
		TotalFreed:   freed.Lifetime,
	}
}

// toHTTPError maps service errors onto status codes. Requests on missing
// paths are 404, other precondition failures 400, anything else 500.
func toHTTPError(err error) error {
	var pe *scanner.PreconditionError
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.As(err, &pe):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
