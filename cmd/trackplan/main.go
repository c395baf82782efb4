package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/milk9111/kartpilot/config"
	"github.com/milk9111/kartpilot/race"
	"github.com/milk9111/kartpilot/track"
)

func main() {
	configPath := flag.String("config", "", "config file overlaid on the built-in defaults")
	trackName := flag.String("track", "oval", "track file path, or embedded track name")
	frames := flag.Int("frames", 0, "frame limit (0 uses sim.max_frames)")
	planOnly := flag.Bool("plan", false, "stop once the path is planned")
	watch := flag.Bool("watch", false, "re-run whenever the track, its script or the config changes")
	list := flag.Bool("list", false, "list embedded tracks and exit")
	flag.Parse()

	if *list {
		for _, name := range track.Names() {
			fmt.Println(name)
		}
		return
	}

	if err := run(*configPath, *trackName, *frames, *planOnly); err != nil {
		if !*watch {
			log.Fatal(err)
		}
		log.Printf("trackplan: %v", err)
	}
	if !*watch {
		return
	}

	dirs := watchDirs(*configPath, *trackName)
	if len(dirs) == 0 {
		log.Fatal("trackplan: -watch needs a track or config file on disk")
	}
	w, err := track.NewWatcher(dirs...)
	if err != nil {
		log.Fatalf("trackplan: watch: %v", err)
	}
	defer w.Close()

	log.Printf("trackplan: watching %v", dirs)
	for {
		select {
		case name, ok := <-w.Events:
			if !ok {
				return
			}
			log.Printf("trackplan: %s changed, re-running", name)
			if err := run(*configPath, *trackName, *frames, *planOnly); err != nil {
				log.Printf("trackplan: %v", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Printf("trackplan: watch error: %v", err)
		}
	}
}

func run(configPath, trackName string, frames int, planOnly bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	tr, err := track.LoadAndBuild(trackName)
	if err != nil {
		return err
	}
	r, err := race.New(cfg, tr)
	if err != nil {
		return err
	}

	var rep race.Report
	if planOnly {
		rep = r.RunUntilPlanned(frames)
	} else {
		rep = r.Run(frames)
	}
	rep.Write(os.Stdout)
	return nil
}

func watchDirs(configPath, trackName string) []string {
	seen := map[string]bool{}
	var dirs []string
	for _, path := range []string{configPath, trackName} {
		if path == "" {
			continue
		}
		if _, ok := track.ModTime(path); !ok {
			continue
		}
		dir := filepath.Dir(path)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
		if scripts := filepath.Join(dir, "scripts"); !seen[scripts] {
			if _, ok := track.ModTime(scripts); ok {
				seen[scripts] = true
				dirs = append(dirs, scripts)
			}
		}
	}
	return dirs
}
