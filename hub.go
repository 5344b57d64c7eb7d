package main

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"

	"moorfell/server/internal/config"
	"moorfell/server/internal/nav"
	"moorfell/server/internal/net/proto"
)

// Hub owns the planner and adapts the wire protocol onto it. The
// planner does its own locking; the hub adds no state of its own
// beyond the logger, so every method is safe for concurrent use.
type Hub struct {
	planner *nav.Planner
	logger  *logrus.Logger
}

func newHub(planner *nav.Planner, logger *logrus.Logger) *Hub {
	return &Hub{planner: planner, logger: logger}
}

// ResolvePath answers one path query.
func (h *Hub) ResolvePath(req proto.PathRequest) ([]mgl32.Vec3, bool) {
	path, ok := h.planner.FindPath(req.Start, req.Goal, req.Radius)
	h.logger.WithFields(logrus.Fields{
		"id":        req.ID,
		"radius":    req.Radius,
		"found":     ok,
		"waypoints": len(path),
	}).Debug("path query")
	return path, ok
}

// UpdateEntities replaces the dynamic obstacle set from the protocol's
// entity states and rebakes.
func (h *Hub) UpdateEntities(entities []proto.EntityState) error {
	obstacles := make([]nav.Obstacle, 0, len(entities))
	for _, e := range entities {
		obstacles = append(obstacles, nav.EntityObstacle(e.ID, entityKind(e.Kind), e.Position, e.Radius))
	}
	if err := h.planner.UpdateDynamic(obstacles); err != nil {
		return err
	}
	static, dynamic := h.planner.ObstacleCounts()
	h.logger.WithFields(logrus.Fields{
		"static":  static,
		"dynamic": dynamic,
	}).Debug("rebaked after entity update")
	return nil
}

// ApplyNavConfig swaps the query tuning on config reload. Grid-shaping
// fields (slope, slop) need a restart and are ignored here.
func (h *Hub) ApplyNavConfig(cfg config.NavConfig) {
	h.planner.SetSearchConfig(searchConfig(cfg))
	h.logger.WithFields(logrus.Fields{
		"waypoint_spacing": cfg.WaypointSpacing,
		"max_expansions":   cfg.MaxExpansions,
	}).Info("applied search config")
}

func entityKind(kind string) nav.EntityKind {
	switch kind {
	case proto.KindEnemy:
		return nav.EntityEnemy
	case proto.KindProjectile:
		return nav.EntityProjectile
	case proto.KindTemporaryEffect:
		return nav.EntityTemporaryEffect
	default:
		return nav.EntityPlayer
	}
}

func slopeConfig(cfg config.NavConfig) nav.SlopeConfig {
	return nav.SlopeConfig{
		MaxWalkableSlopeDeg: float32(cfg.MaxWalkableSlopeDeg),
		SlopeCostFactor:     float32(cfg.SlopeCostFactor),
		ClearanceSlop:       float32(cfg.ClearanceSlop),
	}
}

func searchConfig(cfg config.NavConfig) nav.SearchConfig {
	return nav.SearchConfig{
		WaypointSpacing: float32(cfg.WaypointSpacing),
		MaxExpansions:   cfg.MaxExpansions,
	}
}
