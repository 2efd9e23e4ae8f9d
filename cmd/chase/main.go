package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Carmen-Shannon/oxy-chase/config"
	"github.com/Carmen-Shannon/oxy-chase/engine"
	"github.com/Carmen-Shannon/oxy-chase/engine/camera"
	"github.com/Carmen-Shannon/oxy-chase/engine/debug"
	"github.com/Carmen-Shannon/oxy-chase/engine/game"
	"github.com/Carmen-Shannon/oxy-chase/engine/game_object"
	"github.com/Carmen-Shannon/oxy-chase/engine/loader"
	"github.com/Carmen-Shannon/oxy-chase/engine/renderer"
	"github.com/Carmen-Shannon/oxy-chase/engine/scene"
	"github.com/Carmen-Shannon/oxy-chase/engine/window"
	"github.com/Carmen-Shannon/oxy-chase/logger"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	log := logger.Init(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.WithError(err).Fatal("configuration rejected")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("chase exited")
	}
}

// run owns the window and GPU for the lifetime of the game. The frame loop stays on the
// calling goroutine, which holds the OS thread the window was created on; the debug server
// and asset loads run in an errgroup beside it.
func run(ctx context.Context, cfg config.Config, log *logrus.Logger) error {
	win, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
		window.WithMinSize(cfg.Window.MinWidth, cfg.Window.MinHeight),
		window.WithMaxSize(cfg.Window.MaxWidth, cfg.Window.MaxHeight),
	)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer win.Close()

	present := renderer.PresentModeUncapped
	if cfg.Window.VSync {
		present = renderer.PresentModeVSync
	}
	r, err := renderer.NewRenderer(renderer.BackendTypeWGPU, win,
		renderer.WithLogger(log),
		renderer.WithPresentMode(present),
		renderer.WithMSAA(renderer.MSAASampleCount(cfg.Window.MSAA)),
		renderer.WithForceSoftwareRenderer(cfg.Window.ForceSoftware),
		renderer.WithFrustumCulling(true),
	)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	defer r.Release()
	if err := r.Init(win.Width(), win.Height()); err != nil {
		return fmt.Errorf("init renderer: %w", err)
	}

	sc := scene.NewScene(scene.WithName("chase"))
	game.PopulateScene(sc, cfg.Game)

	cam := camera.NewCamera(
		camera.WithAspect(float32(win.Width())/float32(win.Height())),
		camera.WithController(camera.NewController(cfg.Camera.Mode,
			camera.WithDistance(cfg.Camera.Distance),
			camera.WithFollow(true),
		)),
	)

	chase := game.NewController(sc,
		game.WithTuning(cfg.Game),
		game.WithLogger(log),
		game.WithRayCaster(engine.ScreenRayCaster(cam, r)),
	)

	ts, err := engine.ParseTimestep(cfg.Timestep.Mode, cfg.Timestep.TickRate)
	if err != nil {
		return err
	}

	options := []engine.EngineBuilderOption{
		engine.WithWindow(win),
		engine.WithScene(sc),
		engine.WithCamera(cam),
		engine.WithRenderer(r),
		engine.WithGame(chase),
		engine.WithLogger(log),
		engine.WithTimestep(ts),
		engine.WithProfiling(cfg.Profile),
		engine.WithMaxFPS(cfg.Window.MaxFPS),
	}

	var hub debug.Hub
	if cfg.Debug.Addr != "" {
		hub = debug.NewHub(16)
		options = append(options, engine.WithDebugHub(hub))
	}
	eng := engine.NewEngine(options...)

	ld := loader.NewLoader(loader.WithFS(os.DirFS(cfg.Assets.Dir)), loader.WithLogger(log))
	defer ld.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if hub != nil {
		srv := debug.NewServer(hub, debug.WithAddr(cfg.Debug.Addr), debug.WithLogger(log))
		g.Go(func() error {
			return srv.ListenAndServe(gctx)
		})
	}

	if player := sc.FirstOfKind(game_object.KindPlayer); player != nil && cfg.Assets.Player != "" {
		g.Go(func() error {
			// The placeholder sphere stays on failure; LoadInto has already logged why.
			_ = ld.LoadInto(gctx, sc, player.ID(), cfg.Assets.Player)
			return nil
		})
	}

	log.WithFields(logrus.Fields{
		"width":    win.Width(),
		"height":   win.Height(),
		"timestep": ts.Mode.String(),
		"camera":   cfg.Camera.Mode,
	}).Info("press Enter to start and R to restart")

	runErr := eng.Run(gctx)
	cancel()
	if err := g.Wait(); err != nil {
		return err
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}
