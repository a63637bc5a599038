package prefabs

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 100 * time.Millisecond

// ChangeKind tells what kind of file changed on disk.
type ChangeKind int

const (
	ChangeTuning ChangeKind = iota
	ChangeLevel
	ChangeScenario
	ChangeScript
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeLevel:
		return "level"
	case ChangeScenario:
		return "scenario"
	case ChangeScript:
		return "script"
	}
	return "tuning"
}

type Change struct {
	Path string
	Kind ChangeKind
}

// Watcher reports edits to tuning, level, scenario and script files.
// Repeated writes to the same file within Debounce are reported once.
type Watcher struct {
	Events   chan Change
	Errors   chan error
	Debounce time.Duration

	watcher *fsnotify.Watcher
	closeCh chan struct{}
	once    sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		Events:   make(chan Change, 16),
		Errors:   make(chan error, 1),
		Debounce: defaultDebounce,
		watcher:  w,
		closeCh:  make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.Events)
	defer close(w.Errors)

	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			kind, ok := classify(event.Name)
			if !ok {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < w.Debounce {
				continue
			}
			last[event.Name] = now
			select {
			case w.Events <- Change{Path: event.Name, Kind: kind}:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func classify(path string) (ChangeKind, bool) {
	slashed := filepath.ToSlash(path)
	switch {
	case isScriptFile(path):
		return ChangeScript, true
	case !isSpecFile(path):
		return 0, false
	case strings.Contains(slashed, "levels/"):
		return ChangeLevel, true
	case strings.Contains(slashed, scenarioDir+"/"):
		return ChangeScenario, true
	case filepath.Base(path) == TuningFile:
		return ChangeTuning, true
	}
	return 0, false
}

func isSpecFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func isScriptFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".tengo"
}
