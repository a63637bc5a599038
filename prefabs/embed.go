package prefabs

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Dir is the source tree directory checked before the embedded copies, so
// edited files take effect without a rebuild.
var Dir = "prefabs"

//go:embed *.yaml scenarios/*.yaml scripts/*.tengo
var PrefabsFS embed.FS

// Load reads a prefab file such as "tuning.yaml" or "scenarios/unplug.yaml".
func Load(name string) ([]byte, error) {
	return read(cleanPath(name))
}

// LoadScript reads scripts/<name>, adding the .tengo extension if missing.
func LoadScript(name string) ([]byte, error) {
	p := strings.TrimPrefix(cleanPath(name), "scripts/")
	if path.Ext(p) != ".tengo" {
		p += ".tengo"
	}
	return read(path.Join("scripts", p))
}

func read(rel string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(Dir, filepath.FromSlash(rel)))
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return PrefabsFS.ReadFile(rel)
}

// cleanPath makes name relative to the prefabs directory, slash separated.
func cleanPath(name string) string {
	s := filepath.ToSlash(name)
	s = strings.TrimPrefix(s, "prefabs/")
	return strings.TrimPrefix(s, "./")
}
