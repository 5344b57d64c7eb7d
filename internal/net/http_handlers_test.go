package net

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"moorfell/server/internal/nav"
	"moorfell/server/internal/terrain"
	"moorfell/server/logging"
)

type plannerDiag struct {
	planner *nav.Planner
}

func (d plannerDiag) GridSnapshot() *nav.Grid    { return d.planner.GridSnapshot() }
func (d plannerDiag) ObstacleCounts() (int, int) { return d.planner.ObstacleCounts() }

func TestHealthEndpoint(t *testing.T) {
	planner, err := nav.NewPlanner(terrain.Flat(8, 8, 1, 0), nav.DefaultSlopeConfig(), nav.DefaultSearchConfig())
	if err != nil {
		t.Fatalf("planner: %v", err)
	}
	handler := NewHTTPHandler(plannerDiag{planner}, HTTPHandlerConfig{Logger: logging.Discard()})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	if rec.Code != 200 || rec.Body.String() != "ok" {
		t.Fatalf("health: %d %q", rec.Code, rec.Body.String())
	}
}

func TestDiagnosticsEndpoint(t *testing.T) {
	planner, err := nav.NewPlanner(terrain.Flat(8, 8, 1, 0), nav.DefaultSlopeConfig(), nav.DefaultSearchConfig())
	if err != nil {
		t.Fatalf("planner: %v", err)
	}
	if err := planner.SetStaticObjects([]nav.PlacedObject{
		{Type: "tree_oak", Scale: mgl32.Vec3{2, 3, 2}},
	}); err != nil {
		t.Fatalf("bake: %v", err)
	}
	handler := NewHTTPHandler(plannerDiag{planner}, HTTPHandlerConfig{Logger: logging.Discard()})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/diagnostics", nil))
	if rec.Code != 200 {
		t.Fatalf("diagnostics status %d", rec.Code)
	}

	var payload struct {
		Status          string `json:"status"`
		GridWidth       int    `json:"gridWidth"`
		GridHeight      int    `json:"gridHeight"`
		WalkableCells   int    `json:"walkableCells"`
		StaticObstacles int    `json:"staticObstacles"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Status != "ok" || payload.GridWidth != 8 || payload.GridHeight != 8 {
		t.Fatalf("bad payload: %+v", payload)
	}
	if payload.StaticObstacles != 1 {
		t.Fatalf("expected one static obstacle, got %d", payload.StaticObstacles)
	}
	if payload.WalkableCells >= 64 || payload.WalkableCells == 0 {
		t.Fatalf("the tree must block at least one of 64 cells, got %d walkable", payload.WalkableCells)
	}
}
