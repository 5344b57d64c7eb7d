// Package ws serves the path protocol over a websocket endpoint.
package ws

import (
	nethttp "net/http"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"moorfell/server/internal/net/proto"
)

// Backend is the planner-owning side of the service. Implementations
// must be safe for concurrent use; every connection calls in from its
// own goroutine.
type Backend interface {
	ResolvePath(req proto.PathRequest) ([]mgl32.Vec3, bool)
	UpdateEntities(entities []proto.EntityState) error
}

type HandlerConfig struct {
	Logger *logrus.Logger
}

type Handler struct {
	backend  Backend
	logger   *logrus.Logger
	upgrader websocket.Upgrader
}

func NewHandler(backend Backend, cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *nethttp.Request) bool {
			return true
		},
	}

	return &Handler{
		backend:  backend,
		logger:   logger,
		upgrader: upgrader,
	}
}

func (h *Handler) Handle(w nethttp.ResponseWriter, r *nethttp.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	h.logger.WithField("remote", remote).Debug("client connected")

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			h.logger.WithField("remote", remote).WithError(err).Debug("client disconnected")
			return
		}
		if !h.dispatch(conn, payload) {
			return
		}
	}
}

// dispatch handles one inbound payload; false stops the connection.
// Malformed messages get an error reply and the connection stays up.
func (h *Handler) dispatch(conn *websocket.Conn, payload []byte) bool {
	env, err := proto.DecodeEnvelope(payload)
	if err != nil {
		return h.writeError(conn, "", err.Error())
	}

	switch env.Type {
	case proto.TypePathRequest:
		req, err := proto.DecodePathRequest(payload)
		if err != nil {
			return h.writeError(conn, req.ID, err.Error())
		}
		return h.handlePathRequest(conn, req)
	case proto.TypeEntityUpdate:
		upd, err := proto.DecodeEntityUpdate(payload)
		if err != nil {
			return h.writeError(conn, "", err.Error())
		}
		if err := h.backend.UpdateEntities(upd.Entities); err != nil {
			return h.writeError(conn, "", err.Error())
		}
		return true
	case proto.TypeHeartbeat:
		return true
	default:
		return h.writeError(conn, "", "unknown message type "+env.Type)
	}
}

func (h *Handler) handlePathRequest(conn *websocket.Conn, req proto.PathRequest) bool {
	waypoints, found := h.backend.ResolvePath(req)

	data, err := proto.EncodePathResponse(req.ID, waypoints, found)
	if err != nil {
		h.logger.WithError(err).Error("encode path response")
		return false
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return false
	}
	return true
}

func (h *Handler) writeError(conn *websocket.Conn, id, message string) bool {
	data, err := proto.EncodeError(id, message)
	if err != nil {
		h.logger.WithError(err).Error("encode error message")
		return false
	}
	return conn.WriteMessage(websocket.TextMessage, data) == nil
}
