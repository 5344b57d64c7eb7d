package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the server's YAML-backed tuning surface. A missing file
// yields the defaults; a present but malformed file is an error so a
// typo never silently reverts the whole config.
type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	MapDBPath  string `yaml:"map_db_path"`

	Log LogConfig `yaml:"log"`
	Nav NavConfig `yaml:"nav"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// NavConfig tunes grid construction, search, and replanning.
type NavConfig struct {
	MaxWalkableSlopeDeg float64 `yaml:"max_walkable_slope_deg"`
	SlopeCostFactor     float64 `yaml:"slope_cost_factor"`
	ClearanceSlop       float64 `yaml:"clearance_slop"`

	WaypointSpacing float64 `yaml:"waypoint_spacing"`
	// MaxExpansions bounds a single search; 0 means unbounded.
	MaxExpansions int `yaml:"max_expansions"`

	ReplanIntervalMs  int     `yaml:"replan_interval_ms"`
	ReachDistance     float64 `yaml:"reach_distance"`
	StalenessDistance float64 `yaml:"staleness_distance"`
}

func Default() Config {
	return Config{
		ListenAddr: ":8080",
		MapDBPath:  "data/maps.db",
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Nav: NavConfig{
			MaxWalkableSlopeDeg: 45,
			SlopeCostFactor:     0.5,
			ClearanceSlop:       0.1,
			WaypointSpacing:     2.0,
			MaxExpansions:       0,
			ReplanIntervalMs:    2000,
			ReachDistance:       0.5,
			StalenessDistance:   1.0,
		},
	}
}

// Load reads the config at path, layering it over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Nav.MaxWalkableSlopeDeg <= 0 || c.Nav.MaxWalkableSlopeDeg >= 90 {
		return fmt.Errorf("max_walkable_slope_deg must be in (0, 90), got %v", c.Nav.MaxWalkableSlopeDeg)
	}
	if c.Nav.ClearanceSlop < 0 {
		return fmt.Errorf("clearance_slop must be non-negative, got %v", c.Nav.ClearanceSlop)
	}
	if c.Nav.WaypointSpacing < 0 {
		return fmt.Errorf("waypoint_spacing must be non-negative, got %v", c.Nav.WaypointSpacing)
	}
	if c.Nav.MaxExpansions < 0 {
		return fmt.Errorf("max_expansions must be non-negative, got %d", c.Nav.MaxExpansions)
	}
	if c.Nav.ReplanIntervalMs <= 0 {
		return fmt.Errorf("replan_interval_ms must be positive, got %d", c.Nav.ReplanIntervalMs)
	}
	if c.Nav.ReachDistance <= 0 {
		return fmt.Errorf("reach_distance must be positive, got %v", c.Nav.ReachDistance)
	}
	if c.Nav.StalenessDistance <= 0 {
		return fmt.Errorf("staleness_distance must be positive, got %v", c.Nav.StalenessDistance)
	}
	return nil
}

func (c NavConfig) ReplanInterval() time.Duration {
	return time.Duration(c.ReplanIntervalMs) * time.Millisecond
}
