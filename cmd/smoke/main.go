package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/Carmen-Shannon/oxy-chase/common"
	"github.com/Carmen-Shannon/oxy-chase/config"
	"github.com/Carmen-Shannon/oxy-chase/engine"
	"github.com/Carmen-Shannon/oxy-chase/engine/camera"
	"github.com/Carmen-Shannon/oxy-chase/engine/game"
	"github.com/Carmen-Shannon/oxy-chase/engine/game_object"
	"github.com/Carmen-Shannon/oxy-chase/engine/input"
	"github.com/Carmen-Shannon/oxy-chase/engine/loader"
	"github.com/Carmen-Shannon/oxy-chase/engine/renderer"
	"github.com/Carmen-Shannon/oxy-chase/engine/scene"
	"github.com/Carmen-Shannon/oxy-chase/logger"
	"github.com/sirupsen/logrus"
)

const frameDelta = float32(1.0 / 60)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	frames := flag.Int("frames", -1, "frames to render; negative uses the config value")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	log := logger.Init(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.WithError(err).Fatal("configuration rejected")
	}
	if *frames >= 0 {
		cfg.Frames = *frames
	}

	if !smoke(cfg, log) {
		os.Exit(1)
	}
}

// smoke runs the whole pipeline against the recording backend and reports whether the
// success sentinel fired with no failed frame.
func smoke(cfg config.Config, log *logrus.Logger) bool {
	rec := renderer.NewRecordingBackend()
	r, err := renderer.NewRenderer(renderer.BackendTypeRecording, nil,
		renderer.WithBackend(rec),
		renderer.WithLogger(log),
	)
	if err != nil {
		log.WithError(err).Error("create renderer")
		return false
	}
	defer r.Release()
	if err := r.Init(cfg.Window.Width, cfg.Window.Height); err != nil {
		log.WithError(err).Error("init renderer")
		return false
	}

	sc := scene.NewScene(scene.WithName("smoke"))
	game.PopulateScene(sc, cfg.Game)
	cam := camera.NewCamera(
		camera.WithAspect(float32(cfg.Window.Width)/float32(cfg.Window.Height)),
		camera.WithController(camera.NewController(cfg.Camera.Mode,
			camera.WithDistance(cfg.Camera.Distance),
			camera.WithFollow(true),
		)),
	)
	sampler := input.NewSampler()
	chase := game.NewController(sc,
		game.WithTuning(cfg.Game),
		game.WithLogger(log),
		game.WithRayCaster(engine.ScreenRayCaster(cam, r)),
	)
	ts, err := engine.ParseTimestep(cfg.Timestep.Mode, cfg.Timestep.TickRate)
	if err != nil {
		log.WithError(err).Error("timestep")
		return false
	}
	eng := engine.NewEngine(
		engine.WithScene(sc),
		engine.WithCamera(cam),
		engine.WithRenderer(r),
		engine.WithGame(chase),
		engine.WithSampler(sampler),
		engine.WithTimestep(ts),
		engine.WithLogger(log),
		engine.WithProfiling(cfg.Profile),
	)
	eng.Resize(cfg.Window.Width, cfg.Window.Height)

	if cfg.Assets.Player != "" {
		ld := loader.NewLoader(loader.WithFS(os.DirFS(cfg.Assets.Dir)), loader.WithLogger(log))
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if player := sc.FirstOfKind(game_object.KindPlayer); player != nil {
			_ = ld.LoadInto(ctx, sc, player.ID(), cfg.Assets.Player)
		}
		cancel()
		ld.Close()
	}

	var stats renderer.FrameStats
	for i := 1; i <= cfg.Frames; i++ {
		script(i, sampler, cfg)
		report, err := eng.Step(frameDelta)
		if err != nil {
			log.WithError(err).WithField("frame", i).Error("frame failed")
			continue
		}
		stats = report.Render
	}

	session := chase.Session()
	fields := logrus.Fields{
		"frames":   eng.Frame(),
		"failures": eng.Failures(),
		"draws":    stats.Draws,
		"skipped":  stats.Skipped,
		"uploads":  len(rec.Uploads()),
		"phase":    session.Phase.String(),
		"score":    session.Score,
		"lives":    session.Lives,
	}
	if failed := r.FailedMaterials(); len(failed) > 0 {
		fields["failedMaterials"] = failed
	}

	if !r.Recolored() || eng.Failures() > 0 {
		log.WithFields(fields).Error("smoke failed: sentinel did not fire or a frame failed")
		return false
	}
	log.WithFields(fields).Infof("%d frames elapsed without fatal error, canvas recolored", eng.Frame())
	return true
}

// script feeds a fixed input sequence: start, walk forward while sprinting, hop, turn
// and dash toward the middle of the screen.
func script(frame int, s input.Sampler, cfg config.Config) {
	switch frame {
	case 1:
		s.Press(input.ActionStart)
	case 3:
		s.KeyDown(common.KeyW)
	case 10:
		s.Press(input.ActionSprint)
	case 20:
		s.Release(input.ActionSprint)
		s.Press(input.ActionHop)
	case 21:
		s.Release(input.ActionHop)
	case 25:
		s.KeyUp(common.KeyW)
		s.KeyDown(common.KeyD)
	case 35:
		s.KeyUp(common.KeyD)
		x, y := float32(cfg.Window.Width)/2, float32(cfg.Window.Height)*0.6
		s.MouseDown(common.MouseButtonLeft, x, y)
		s.MouseUp(common.MouseButtonLeft, x, y)
	case 45:
		s.MouseMove(100, 100)
		s.MouseDown(common.MouseButtonRight, 100, 100)
		s.MouseMove(160, 110)
		s.MouseUp(common.MouseButtonRight, 160, 110)
		s.Scroll(1)
	}
}
