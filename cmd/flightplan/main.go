// Package main is the flightplan CLI: it walks a mission configuration
// through the planning pipeline stage by stage, from obstacle loading to a
// sampled motion profile on disk.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/skyfield-uas/flightplan/config"
	"github.com/skyfield-uas/flightplan/environment"
	"github.com/skyfield-uas/flightplan/motionplan"
	"github.com/skyfield-uas/flightplan/trajectory"
)

func main() {
	app := &cli.App{
		Name:            "flightplan",
		Usage:           "plan collision-free paths and smooth flight trajectories",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.json",
				Usage:   "load mission configuration from `FILE`",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "environment",
				Usage:  "load the obstacle data and print a summary",
				Action: environmentAction,
			},
			{
				Name:   "lattice",
				Usage:  "build the free-space lattice and search it with A*",
				Action: latticeAction,
			},
			{
				Name:   "roadmap",
				Usage:  "build a probabilistic roadmap and search it with A*",
				Action: roadmapAction,
			},
			{
				Name:   "rrt",
				Usage:  "grow a random tree from start to goal",
				Action: rrtAction,
			},
			{
				Name:   "mission",
				Usage:  "run the full pipeline and write the motion profile",
				Action: missionAction,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(c *cli.Context) golog.Logger {
	if c.Bool("debug") {
		return golog.NewDebugLogger("flightplan")
	}
	return golog.NewLogger("flightplan")
}

// loadMission reads the configuration, loads the obstacle environment, and
// converts the configured geodetic start and goal into the local frame.
func loadMission(c *cli.Context) (*config.Config, *environment.Environment, r3.Vector, r3.Vector, error) {
	var zero r3.Vector
	cfg, err := config.Read(c.String("config"))
	if err != nil {
		return nil, nil, zero, zero, err
	}
	env, err := environment.LoadCSV(cfg.Environment.ObstacleFile, cfg.Environment.SafetyMargin)
	if err != nil {
		return nil, nil, zero, zero, err
	}
	start, err := env.LocalFromGeo(cfg.Search.Start.Latitude, cfg.Search.Start.Longitude, cfg.Search.Start.Altitude)
	if err != nil {
		return nil, nil, zero, zero, errors.Wrap(err, "converting start")
	}
	goal, err := env.LocalFromGeo(cfg.Search.Goal.Latitude, cfg.Search.Goal.Longitude, cfg.Search.Goal.Altitude)
	if err != nil {
		return nil, nil, zero, zero, errors.Wrap(err, "converting goal")
	}
	return cfg, env, start, goal, nil
}

func environmentAction(c *cli.Context) error {
	logger := newLogger(c)
	cfg, err := config.Read(c.String("config"))
	if err != nil {
		return err
	}
	env, err := environment.LoadCSV(cfg.Environment.ObstacleFile, cfg.Environment.SafetyMargin)
	if err != nil {
		return err
	}
	logger.Info(env.Summary())
	return nil
}

func latticeAction(c *cli.Context) error {
	logger := newLogger(c)
	cfg, env, start, goal, err := loadMission(c)
	if err != nil {
		return err
	}
	path, err := planLattice(c.Context, cfg, env, start, goal, logger)
	if err != nil {
		return err
	}
	logPath(logger, "lattice", path)
	return nil
}

func roadmapAction(c *cli.Context) error {
	logger := newLogger(c)
	cfg, env, start, goal, err := loadMission(c)
	if err != nil {
		return err
	}
	path, err := planRoadmap(c.Context, cfg, env, start, goal, logger)
	if err != nil {
		return err
	}
	logPath(logger, "roadmap", path)
	return nil
}

func rrtAction(c *cli.Context) error {
	logger := newLogger(c)
	cfg, env, start, goal, err := loadMission(c)
	if err != nil {
		return err
	}
	path, err := planRRT(c.Context, cfg, env, start, goal, logger)
	if err != nil {
		return err
	}
	logPath(logger, "rrt", path)
	return nil
}

func missionAction(c *cli.Context) error {
	logger := newLogger(c)
	cfg, env, start, goal, err := loadMission(c)
	if err != nil {
		return err
	}
	logger.Info(env.Summary())

	path, err := planLattice(c.Context, cfg, env, start, goal, logger)
	if err != nil {
		return errors.Wrap(err, "lattice planning")
	}
	path = motionplan.Shortcut(env, path)
	logPath(logger, "mission", path)

	segments, err := trajectory.Fit(path, cfg.Trajectory.AverageSpeed)
	if err != nil {
		return errors.Wrap(err, "fitting trajectory")
	}
	samples, err := trajectory.Sample(segments, cfg.Trajectory.SampleInterval)
	if err != nil {
		return errors.Wrap(err, "sampling trajectory")
	}
	outDir := cfg.Trajectory.OutputDirectory
	if outDir == "" {
		outDir = "."
	}
	if err := trajectory.SaveProfile(outDir, samples); err != nil {
		return err
	}
	logger.Infow("motion profile written",
		"samples", len(samples),
		"duration", trajectory.TotalDuration(segments),
		"dir", outDir,
	)
	return nil
}

func planLattice(
	ctx context.Context,
	cfg *config.Config,
	env *environment.Environment,
	start, goal r3.Vector,
	logger golog.Logger,
) (motionplan.Path, error) {
	connectivity, err := motionplan.ParseConnectivity(cfg.Lattice.Connectivity)
	if err != nil {
		return nil, err
	}
	planner, err := motionplan.NewLatticePlanner(
		env,
		toVector(cfg.Lattice.Volume.Center),
		toVector(cfg.Lattice.Volume.HalfSizes),
		cfg.Lattice.Resolution,
		connectivity,
		logger,
	)
	if err != nil {
		return nil, err
	}
	return planner.Plan(ctx, start, goal)
}

func planRoadmap(
	ctx context.Context,
	cfg *config.Config,
	env *environment.Environment,
	start, goal r3.Vector,
	logger golog.Logger,
) (motionplan.Path, error) {
	opts := &motionplan.RoadmapOptions{
		Count:     cfg.PRM.Count,
		Density:   cfg.PRM.Density,
		Neighbors: cfg.PRM.Neighbors,
	}
	planner, err := motionplan.NewRoadmapPlanner(
		env,
		toVector(cfg.PRM.Volume.Center),
		toVector(cfg.PRM.Volume.HalfSizes),
		opts,
		rand.New(rand.NewSource(cfg.PRM.Seed)),
		logger,
	)
	if err != nil {
		return nil, err
	}
	return planner.Plan(ctx, start, goal)
}

func planRRT(
	ctx context.Context,
	cfg *config.Config,
	env *environment.Environment,
	start, goal r3.Vector,
	logger golog.Logger,
) (motionplan.Path, error) {
	opts := &motionplan.RRTOptions{
		StepSize:      cfg.RRT.StepSize,
		GoalTolerance: cfg.RRT.GoalTolerance,
		PlanIter:      cfg.RRT.MaxIterations,
	}
	if opts.GoalTolerance <= 0 {
		opts.GoalTolerance = opts.StepSize
	}
	planner := motionplan.NewRRTPlanner(env, opts, rand.New(rand.NewSource(cfg.RRT.Seed)), logger)
	return planner.Plan(ctx, start, goal)
}

func logPath(logger golog.Logger, stage string, path motionplan.Path) {
	logger.Infow("path found",
		"planner", stage,
		"waypoints", len(path),
		"length", path.Length(),
	)
	for i, pt := range path {
		logger.Debugf("  %2d: (%.1f, %.1f, %.1f)", i, pt.X, pt.Y, pt.Z)
	}
}

func toVector(v [3]float64) r3.Vector {
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}
}
