// Package net carries the plain-HTTP side of the service: health and
// grid diagnostics. The websocket path protocol lives in net/ws.
package net

import (
	"encoding/json"
	nethttp "net/http"
	"time"

	"github.com/sirupsen/logrus"

	"moorfell/server/internal/nav"
)

// Diagnostics is what the handlers read from the planner's owner.
type Diagnostics interface {
	GridSnapshot() *nav.Grid
	ObstacleCounts() (static, dynamic int)
}

type HTTPHandlerConfig struct {
	Logger *logrus.Logger
}

// NewHTTPHandler mounts /health and /diagnostics.
func NewHTTPHandler(diag Diagnostics, cfg HTTPHandlerConfig) nethttp.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	mux := nethttp.NewServeMux()

	mux.HandleFunc("/health", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/diagnostics", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		grid := diag.GridSnapshot()
		static, dynamic := diag.ObstacleCounts()

		walkable := 0
		for z := 0; z < grid.Height(); z++ {
			for x := 0; x < grid.Width(); x++ {
				if grid.Walkable(nav.Cell{X: x, Z: z}) {
					walkable++
				}
			}
		}

		payload := struct {
			Status           string  `json:"status"`
			ServerTime       int64   `json:"serverTime"`
			GridWidth        int     `json:"gridWidth"`
			GridHeight       int     `json:"gridHeight"`
			CellSize         float32 `json:"cellSize"`
			WalkableCells    int     `json:"walkableCells"`
			StaticObstacles  int     `json:"staticObstacles"`
			DynamicObstacles int     `json:"dynamicObstacles"`
		}{
			Status:           "ok",
			ServerTime:       time.Now().UnixMilli(),
			GridWidth:        grid.Width(),
			GridHeight:       grid.Height(),
			CellSize:         grid.CellSize(),
			WalkableCells:    walkable,
			StaticObstacles:  static,
			DynamicObstacles: dynamic,
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logger.WithError(err).Warn("encode diagnostics")
		}
	})

	return mux
}
