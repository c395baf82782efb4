package main

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/kartpilot/config"
	"github.com/milk9111/kartpilot/ecs"
	"github.com/milk9111/kartpilot/ecs/component"
	"github.com/milk9111/kartpilot/ecs/system"
	"github.com/milk9111/kartpilot/race"
	"github.com/milk9111/kartpilot/track"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

type Game struct {
	configPath string
	trackName  string

	race    *race.Race
	render  *system.TrackRenderSystem
	watcher *track.Watcher
	paused  bool
	loadErr error
}

func NewGame(configPath, trackName string, watch bool) (*Game, error) {
	g := &Game{configPath: configPath, trackName: trackName}
	if err := g.reload(); err != nil {
		return nil, err
	}
	if watch {
		if _, ok := track.ModTime(trackName); ok {
			w, err := track.NewWatcher(filepath.Dir(trackName))
			if err != nil {
				return nil, err
			}
			g.watcher = w
		} else {
			log.Printf("Game: %q is embedded, not watching", trackName)
		}
	}
	return g, nil
}

func (g *Game) reload() error {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return err
	}
	tr, err := track.LoadAndBuild(g.trackName)
	if err != nil {
		return err
	}
	r, err := race.New(cfg, tr)
	if err != nil {
		return err
	}

	center, extent, _ := tr.Spec.GridSettings(cfg.Grid)
	scale := 0.9 * min(baseWidth, baseHeight) / extent
	render := system.NewTrackRenderSystem(tr, system.Camera{
		Center: center,
		Scale:  scale,
		Width:  baseWidth,
		Height: baseHeight,
	})
	if g.render != nil {
		render.ShowProbes = g.render.ShowProbes
		render.ShowExplored = g.render.ShowExplored
	}
	r.Scheduler.Add(render)

	g.race = r
	g.render = render
	return nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	if g.watcher != nil {
		select {
		case name := <-g.watcher.Events:
			log.Printf("Game: %s changed, reloading", name)
			g.loadErr = g.reload()
		default:
		}
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.paused = !g.paused
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.loadErr = g.reload()
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		g.render.ShowProbes = !g.render.ShowProbes
	case inpututil.IsKeyJustPressed(ebiten.KeyE):
		g.render.ShowExplored = !g.render.ShowExplored
	}

	if !g.paused && !g.race.Done() {
		g.race.Step()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.race.Scheduler.Draw(g.race.World, screen)

	rep := g.race.Report()
	msg := fmt.Sprintf("Frame: %d    FPS: %.2f    Plan: %s", rep.Frames, ebiten.ActualFPS(), rep.Plan.Status)
	if in, ok := ecs.Get(g.race.World, g.race.Kart, component.DriveInputComponent.Kind()); ok {
		msg += fmt.Sprintf("    Accel: %t  Brake: %t", in.Accelerate, in.Brake)
	}
	if lap, ok := rep.LapTime(); ok {
		msg += fmt.Sprintf("    Lap: %.2fs", lap)
	}
	if g.paused {
		msg += "    [paused]"
	}
	if g.loadErr != nil {
		msg += fmt.Sprintf("\nreload failed: %v", g.loadErr)
	}
	msg += "\nspace: pause  r: restart  p: probes  e: explored"
	ebitenutil.DebugPrint(screen, msg)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}
