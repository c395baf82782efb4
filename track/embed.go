package track

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

//go:embed tracks/*.yaml
var TracksFS embed.FS

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

// Load returns the track file named name. A file on disk wins over the
// embedded copy of the same name.
func Load(name string) ([]byte, error) {
	if data, err := os.ReadFile(name); err == nil {
		return data, nil
	}
	return TracksFS.ReadFile(cleanTrackPath(name))
}

// LoadScript returns a tengo script. dir is the directory of the track file
// that referenced it and is searched before the embedded scripts.
func LoadScript(dir, name string) ([]byte, error) {
	if dir != "" {
		if data, err := os.ReadFile(filepath.Join(dir, name)); err == nil {
			return data, nil
		}
		if data, err := os.ReadFile(filepath.Join(dir, "scripts", name)); err == nil {
			return data, nil
		}
	}
	return ScriptsFS.ReadFile(cleanScriptPath(name))
}

// ModTime reports the modification time of a track file on disk.
func ModTime(name string) (time.Time, bool) {
	info, err := os.Stat(name)
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// Names lists the embedded track names.
func Names() []string {
	entries, err := TracksFS.ReadDir("tracks")
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
	}
	return out
}

func cleanTrackPath(path string) string {
	s := filepath.ToSlash(path)
	s = strings.TrimPrefix(s, "tracks/")
	if filepath.Ext(s) == "" {
		s += ".yaml"
	}
	return fmt.Sprintf("tracks/%s", s)
}

func cleanScriptPath(path string) string {
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		s = after
	}
	return fmt.Sprintf("scripts/%s", s)
}
