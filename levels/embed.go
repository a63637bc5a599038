package levels

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultLevel is loaded when no name is given.
const DefaultLevel = "tutorial"

//go:embed *.yaml
var LevelsFS embed.FS

// Load reads a level by name, preferring levels/<name>.yaml on disk so edits
// show up without a rebuild.
func Load(name string) (*Level, error) {
	if name == "" {
		name = DefaultLevel
	}
	file := cleanLevelPath(name)
	data, err := os.ReadFile(filepath.Join("levels", file))
	if err != nil {
		data, err = LevelsFS.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("levels: load %s: %w", name, err)
		}
	}
	lvl, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("levels: load %s: %w", name, err)
	}
	if lvl.Name == "" {
		lvl.Name = strings.TrimSuffix(file, ".yaml")
	}
	return lvl, nil
}

// List returns the names of the embedded levels.
func List() ([]string, error) {
	files, err := fs.Glob(LevelsFS, "*.yaml")
	if err != nil {
		return nil, fmt.Errorf("levels: list: %w", err)
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, strings.TrimSuffix(f, ".yaml"))
	}
	sort.Strings(names)
	return names, nil
}

func cleanLevelPath(name string) string {
	s := filepath.ToSlash(name)
	s = strings.TrimPrefix(s, "levels/")
	if !strings.HasSuffix(s, ".yaml") {
		s += ".yaml"
	}
	return s
}
