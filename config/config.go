// Package config loads and validates the JSON mission configuration
// consumed by the flightplan CLI.
package config

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/skyfield-uas/flightplan/motionplan"
)

// GeoCoordinate is a geodetic position: latitude and longitude in degrees,
// altitude in meters above the environment's home altitude.
type GeoCoordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude"`
}

// EnvironmentConfig locates the obstacle data and sets the safety margin.
type EnvironmentConfig struct {
	ObstacleFile string  `json:"obstacle_file"`
	SafetyMargin float64 `json:"safety_margin"`
}

// VolumeConfig describes an axis-aligned volume by center and half sizes,
// in the local frame.
type VolumeConfig struct {
	Center    [3]float64 `json:"center"`
	HalfSizes [3]float64 `json:"halfsizes"`
}

// LatticeConfig configures lattice construction.
type LatticeConfig struct {
	Volume       VolumeConfig `json:"volume"`
	Resolution   float64      `json:"resolution"`
	Connectivity string       `json:"connectivity"`
}

// SearchConfig gives the start and goal of the mission.
type SearchConfig struct {
	Start GeoCoordinate `json:"start"`
	Goal  GeoCoordinate `json:"goal"`
}

// PRMConfig configures roadmap construction.
type PRMConfig struct {
	Volume    VolumeConfig `json:"volume"`
	Density   float64      `json:"density"`
	Count     int          `json:"count"`
	Neighbors int          `json:"neighbors"`
	Seed      int64        `json:"seed"`
}

// RRTConfig configures tree growth.
type RRTConfig struct {
	StepSize      float64 `json:"step_size"`
	GoalTolerance float64 `json:"goal_tolerance"`
	MaxIterations int     `json:"max_iterations"`
	Seed          int64   `json:"seed"`
}

// TrajectoryConfig configures trajectory generation and export.
type TrajectoryConfig struct {
	AverageSpeed    float64 `json:"average_speed"`
	SampleInterval  float64 `json:"sample_interval"`
	OutputDirectory string  `json:"output_directory"`
}

// Config is the complete mission configuration.
type Config struct {
	Environment EnvironmentConfig `json:"environment"`
	Lattice     LatticeConfig     `json:"lattice"`
	Search      SearchConfig      `json:"search"`
	PRM         PRMConfig         `json:"prm"`
	RRT         RRTConfig         `json:"rrt"`
	Trajectory  TrajectoryConfig  `json:"trajectory"`
}

// Read loads and validates a configuration file.
func Read(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening config")
	}
	defer f.Close()
	cfg, err := FromReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// FromReader parses and validates configuration JSON.
func FromReader(r io.Reader) (*Config, error) {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	var cfg Config
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "decoding config JSON")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate ensures the configuration is complete and well formed.
func (cfg *Config) Validate() error {
	if cfg.Environment.ObstacleFile == "" {
		return errors.New("environment.obstacle_file is required")
	}
	if cfg.Environment.SafetyMargin < 0 {
		return errors.Errorf("environment.safety_margin must be non-negative, got %v", cfg.Environment.SafetyMargin)
	}
	if cfg.Lattice.Resolution <= 0 {
		return errors.Errorf("lattice.resolution must be positive, got %v", cfg.Lattice.Resolution)
	}
	if _, err := motionplan.ParseConnectivity(cfg.Lattice.Connectivity); err != nil {
		return errors.Wrap(err, "lattice.connectivity")
	}
	if cfg.PRM.Count <= 0 && cfg.PRM.Density <= 0 {
		return errors.New("prm requires a positive count or density")
	}
	if cfg.PRM.Neighbors <= 0 {
		return errors.Errorf("prm.neighbors must be positive, got %d", cfg.PRM.Neighbors)
	}
	if cfg.RRT.StepSize <= 0 {
		return errors.Errorf("rrt.step_size must be positive, got %v", cfg.RRT.StepSize)
	}
	if cfg.RRT.MaxIterations <= 0 {
		return errors.Errorf("rrt.max_iterations must be positive, got %d", cfg.RRT.MaxIterations)
	}
	if cfg.Trajectory.AverageSpeed <= 0 {
		return errors.Errorf("trajectory.average_speed must be positive, got %v", cfg.Trajectory.AverageSpeed)
	}
	if cfg.Trajectory.SampleInterval <= 0 {
		return errors.Errorf("trajectory.sample_interval must be positive, got %v", cfg.Trajectory.SampleInterval)
	}
	return nil
}
