package track

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"gopkg.in/yaml.v3"
)

// RunScript evaluates a wall generator script. The script sees the track
// params as `params` and must leave an array of shape maps in `walls`,
// using the same keys as the YAML walls section.
func RunScript(src []byte, params map[string]any) ([]ShapeSpec, error) {
	script := tengo.NewScript(src)
	if params == nil {
		params = map[string]any{}
	}
	if err := script.Add("params", params); err != nil {
		return nil, fmt.Errorf("track: script params: %w", err)
	}
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Run()
	if err != nil {
		return nil, fmt.Errorf("track: run script: %w", err)
	}

	v := compiled.Get("walls")
	if v.IsUndefined() {
		return nil, nil
	}
	raw := v.Array()
	if raw == nil {
		return nil, fmt.Errorf("track: script walls is %s, want array", v.ValueType())
	}

	// Round-trip through YAML so script output decodes exactly like the
	// walls section of a track file.
	data, err := yaml.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("track: encode script walls: %w", err)
	}
	var walls []ShapeSpec
	if err := yaml.Unmarshal(data, &walls); err != nil {
		return nil, fmt.Errorf("track: decode script walls: %w", err)
	}
	for i, w := range walls {
		if err := w.validate(); err != nil {
			return nil, fmt.Errorf("track: script walls[%d]: %w", i, err)
		}
	}
	return walls, nil
}
