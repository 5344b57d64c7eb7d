package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"moorfell/server/internal/config"
	"moorfell/server/internal/mapstore"
	"moorfell/server/internal/nav"
	servernet "moorfell/server/internal/net"
	"moorfell/server/internal/net/ws"
	"moorfell/server/internal/terrain"
	"moorfell/server/logging"
)

const shutdownTimeout = 5 * time.Second

func main() {
	var (
		configPath string
		mapName    string
	)
	flag.StringVar(&configPath, "config", "config/server.yaml", "path to the server config")
	flag.StringVar(&mapName, "map", "moor", "map to load from the store")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		logging.New("info", "text").WithError(err).Fatal("load config")
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format)

	store, err := mapstore.Open(cfg.MapDBPath)
	if err != nil {
		logger.WithError(err).Fatal("open map store")
	}
	defer store.Close()

	ctx := context.Background()
	hm, objects, err := store.LoadMap(ctx, mapName)
	if errors.Is(err, mapstore.ErrNotFound) {
		logger.WithField("map", mapName).Info("map not found, seeding default moor")
		hm, objects = defaultMoor()
		if err := store.SaveMap(ctx, mapName, hm, objects); err != nil {
			logger.WithError(err).Fatal("seed default map")
		}
	} else if err != nil {
		logger.WithError(err).Fatal("load map")
	}

	planner, err := nav.NewPlanner(hm, slopeConfig(cfg.Nav), searchConfig(cfg.Nav))
	if err != nil {
		logger.WithError(err).Fatal("build navigation grid")
	}
	if err := planner.SetStaticObjects(objects); err != nil {
		logger.WithError(err).Fatal("bake static obstacles")
	}
	static, _ := planner.ObstacleCounts()
	logger.WithFields(map[string]any{
		"map":     mapName,
		"width":   hm.Width,
		"height":  hm.Height,
		"statics": static,
	}).Info("navigation grid baked")

	hub := newHub(planner, logger)
	handler := ws.NewHandler(hub, ws.HandlerConfig{Logger: logger})

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", handler.Handle)
	mux.Handle("/", servernet.NewHTTPHandler(planner, servernet.HTTPHandlerConfig{Logger: logger}))
	server := &http.Server{Addr: cfg.ListenAddr, Handler: mux}

	watcher, err := config.NewWatcher(configPath)
	if err != nil {
		logger.WithError(err).Warn("config watcher disabled")
	} else {
		defer watcher.Close()
		go func() {
			for {
				select {
				case next, ok := <-watcher.Updates:
					if !ok {
						return
					}
					hub.ApplyNavConfig(next.Nav)
				case err, ok := <-watcher.Errors:
					if !ok {
						return
					}
					logger.WithError(err).Warn("config reload failed")
				}
			}
		}()
	}

	go func() {
		logger.WithField("addr", cfg.ListenAddr).Info("path service listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("serve")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("shutdown")
	}
}

// defaultMoor seeds a small playable map for first boot: gently
// rolling flat ground with a scattering of placed objects.
func defaultMoor() (*terrain.Heightmap, []nav.PlacedObject) {
	hm := terrain.Flat(64, 64, 1, 0)
	objects := []nav.PlacedObject{
		{Type: "tree_oak", Position: mgl32.Vec3{10, 0, 8}, Scale: mgl32.Vec3{2, 4, 2}},
		{Type: "tree_pine", Position: mgl32.Vec3{-12, 0, 15}, Scale: mgl32.Vec3{1.5, 5, 1.5}},
		{Type: "rock_small", Position: mgl32.Vec3{4, 0, -9}, Scale: mgl32.Vec3{1, 1, 1}},
		{Type: "boulder_mossy", Position: mgl32.Vec3{-6, 0, -14}, Scale: mgl32.Vec3{3, 2, 3}},
		{Type: "grass_tuft", Position: mgl32.Vec3{2, 0, 3}, Scale: mgl32.Vec3{1, 1, 1}},
		{Type: "ruin_wall", Position: mgl32.Vec3{18, 0, -2}, Scale: mgl32.Vec3{8, 3, 1}},
	}
	return hm, objects
}
