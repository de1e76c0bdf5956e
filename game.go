package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"
	"golang.org/x/image/colornames"

	"github.com/milk9111/bullets/assets"
	"github.com/milk9111/bullets/bullets"
	"github.com/milk9111/bullets/bullets/physics"
	"github.com/milk9111/bullets/bullets/render"
	"github.com/milk9111/bullets/config"
	"github.com/milk9111/bullets/pattern"
	"github.com/milk9111/bullets/prefabs"
)

const (
	targetRadius = 6
	targetLayer  = 2
	targetMask   = 1 | 4
)

type emitterState struct {
	spec    prefabs.PatternSpec
	emitter *pattern.Emitter
	kit     *bullets.Kit
	pulse   *pattern.Pulse
	origin  cp.Vector
}

type Game struct {
	cfg *config.Config
	log *zap.Logger

	canvas  *render.Canvas
	server  *physics.Server
	manager *bullets.Manager
	stage   *prefabs.Stage

	emitters []*emitterState
	meter    pattern.Meter
	measure  *pattern.Pulse
	click    *audio.Player

	target  *cp.Shape
	watcher *prefabs.Watcher

	frames  int
	elapsed float64
	hits    int
	paused  bool
	camX    float64
	camY    float64
}

func NewGame(cfg *config.Config, logger *zap.Logger) (*Game, error) {
	canvas := render.NewCanvas()
	server := physics.NewServer(nil, cfg.Simulation.MaxShapes)
	g := &Game{
		cfg:     cfg,
		log:     logger,
		canvas:  canvas,
		server:  server,
		manager: bullets.NewManager(canvas, server, bullets.WithLogger(logger)),
		camX:    -float64(cfg.Window.Width) / 2,
		camY:    -float64(cfg.Window.Height) / 2,
	}
	g.target = server.AddTarget(cp.Vector{X: 0, Y: 120}, targetRadius, targetLayer, targetMask)

	if err := g.loadStage(); err != nil {
		return nil, err
	}

	if click, err := assets.LoadAudioPlayer("tick.wav"); err != nil {
		logger.Warn("metronome disabled", zap.Error(err))
	} else {
		click.SetVolume(0.3)
		g.click = click
	}

	if cfg.Environment.HotReload {
		w, err := prefabs.NewWatcher(cfg.Environment.WatchDir, 0)
		if err != nil {
			logger.Warn("hot reload disabled", zap.String("dir", cfg.Environment.WatchDir), zap.Error(err))
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

func loadTexture(key string) (bullets.Texture, error) {
	img, err := render.LoadTexture(key)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// loadStage builds the configured environment and swaps it in. A load error
// leaves the current stage running; a failed mount leaves nothing mounted.
func (g *Game) loadStage() error {
	stage, err := prefabs.LoadEnvironment(g.cfg.Environment.Name, loadTexture)
	if err != nil {
		return err
	}

	emitters := make([]*emitterState, 0, len(stage.Patterns))
	meter := pattern.NewMeter(stage.Music.BPM, stage.Music.TimeSigTop, stage.Music.TimeSigBottom)
	for _, spec := range stage.Patterns {
		kit := stage.Environment.Kit(spec.Kit)
		if kit == nil {
			g.log.Warn("pattern skipped: unknown kit", zap.String("pattern", spec.Name), zap.String("kit", spec.Kit))
			continue
		}
		e, err := pattern.Load(spec.Script)
		if err != nil {
			return err
		}
		base := bullets.Properties{bullets.PropModulate: spec.Modulate.Modulate()}
		for k, v := range spec.Data {
			base[k] = v
		}
		e.SetBase(base)
		count := spec.Count
		if count <= 0 {
			count = 1
		}
		emitters = append(emitters, &emitterState{
			spec:    spec,
			emitter: e,
			kit:     kit,
			pulse:   pattern.NewPulse(meter.NoteSeconds(spec.Note, count)),
			origin:  cp.Vector{X: spec.Origin[0], Y: spec.Origin[1]},
		})
	}

	if err := g.manager.Mount(stage.Environment); err != nil {
		return err
	}
	g.stage = stage
	g.emitters = emitters
	g.meter = meter
	g.measure = pattern.NewPulse(meter.SecondsPerMeasure())
	g.elapsed = 0
	g.log.Info("stage loaded",
		zap.String("environment", stage.Environment.Name),
		zap.Stringer("id", stage.Environment.ID),
		zap.Int("bullets", g.manager.TotalBullets()),
		zap.Int("patterns", len(emitters)),
	)
	return nil
}

func (g *Game) reload(reason string) {
	if err := g.loadStage(); err != nil {
		g.log.Error("reload failed", zap.String("reason", reason), zap.Error(err))
	}
}

func (g *Game) Update() error {
	g.frames++
	g.pollWatcher()
	g.handleInput()
	if g.paused {
		return nil
	}

	dt := g.cfg.Simulation.StepSeconds()
	g.elapsed += dt

	if g.measure.Advance(dt) > 0 && g.click != nil {
		_ = g.click.SetPosition(0)
		g.click.Play()
	}
	for _, e := range g.emitters {
		first := e.pulse.Ticks()
		n := e.pulse.Advance(dt)
		for i := 0; i < n; i++ {
			if _, err := e.emitter.Fire(g.manager, e.kit, first+i, g.elapsed, e.origin); err != nil {
				g.log.Warn("pattern failed", zap.String("pattern", e.spec.Name), zap.Error(err))
			}
		}
	}

	g.manager.Process(dt)
	g.server.Step(dt)
	for _, c := range g.server.Contacts() {
		h := g.manager.BulletFromShape(c.Domain, c.Shape)
		if g.manager.Release(h) {
			g.hits++
		}
	}
	return nil
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	select {
	case batch, ok := <-g.watcher.Changes():
		if ok {
			g.log.Info("prefabs changed", zap.Strings("files", batch))
			g.reload("watch")
		}
	case err, ok := <-g.watcher.Errors():
		if ok {
			g.log.Warn("watch error", zap.Error(err))
		}
	default:
	}
}

func (g *Game) handleInput() {
	cx, cy := ebiten.CursorPosition()
	if body := g.target.Body(); body != nil {
		body.SetPosition(cp.Vector{X: float64(cx) + g.camX, Y: float64(cy) + g.camY})
		body.SetVelocity(0, 0)
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.reload("key")
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		g.paused = !g.paused
	case inpututil.IsKeyJustPressed(ebiten.KeyD):
		g.cfg.Debug.DrawShapes = !g.cfg.Debug.DrawShapes
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		if kit := g.manager.KitByName("spark"); kit != nil {
			g.manager.ApplyAnimationToKit(kit, "flash")
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		if kit := g.manager.KitByName("needle"); kit != nil {
			pool := g.manager.Pool(kit)
			g.manager.EnableCollisionsToKit(kit, !pool.CollisionsEnabled())
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyX):
		g.manager.Clear()
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)
	g.canvas.Draw(screen, g.camX, g.camY, 1)

	if g.cfg.Debug.DrawShapes {
		render.DrawSpaceDebug(screen, g.server.Space(), g.camX, g.camY, 1)
	}
	if body := g.target.Body(); body != nil {
		p := body.Position()
		vector.StrokeCircle(screen, float32(p.X-g.camX), float32(p.Y-g.camY), targetRadius, 1.5, color.White, true)
	}

	if g.cfg.Debug.Overlay {
		name := ""
		if env := g.manager.Environment(); env != nil {
			name = env.Name
		}
		ebitenutil.DebugPrint(screen, fmt.Sprintf(
			"FPS %.1f  env %s\nbullets %d/%d  hits %d\n%.0f bpm  measure %.2fs%s",
			ebiten.ActualFPS(), name,
			g.manager.TotalActive(), g.manager.TotalBullets(), g.hits,
			g.meter.BPM, g.meter.SecondsPerMeasure(), pausedLabel(g.paused),
		))
	}
}

func pausedLabel(paused bool) string {
	if paused {
		return "  [paused]"
	}
	return ""
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Window.Width, g.cfg.Window.Height
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	g.manager.Unmount()
}
