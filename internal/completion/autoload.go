package completion

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ef-ds/deque"
	"github.com/fsnotify/fsnotify"
	"github.com/google/shlex"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/reef-shell/reef/internal/logger"
	"github.com/reef-shell/reef/internal/rerrors"
)

// definitionExts lists the definition file extensions tried for a
// command, in order of preference.
var definitionExts = []string{".yml", ".yaml", ".reef"}

// triedCacheSize bounds the set of commands whose load attempts are
// remembered.
const triedCacheSize = 1024

// Autoloader lazily loads completion definitions from the configured
// directories the first time a command is completed, and invalidates
// them when the files change on disk. Invalidation events from the
// watcher goroutine are queued and applied on the completion thread.
type Autoloader struct {
	eng  *Engine
	dirs []string
	log  *logger.Logger

	mu      sync.Mutex
	tried   *lru.Cache[string, struct{}]
	pending deque.Deque
	watcher *fsnotify.Watcher
}

// NewAutoloader builds an autoloader over the given directories.
func NewAutoloader(eng *Engine, dirs []string, log *logger.Logger) *Autoloader {
	tried, _ := lru.New[string, struct{}](triedCacheSize)
	return &Autoloader{
		eng:   eng,
		dirs:  dirs,
		log:   log,
		tried: tried,
	}
}

// LoadForCommand ensures the definitions for cmd are loaded. A
// command is attempted once; further requests are no-ops until the
// definition file changes. Path-qualified commands are reduced to
// their basename.
func (a *Autoloader) LoadForCommand(ctx context.Context, cmd string) {
	a.DrainPending()

	cmd = filepath.Base(cmd)
	if cmd == "" || cmd == "." || cmd == "/" {
		return
	}

	a.mu.Lock()
	if _, ok := a.tried.Get(cmd); ok {
		a.mu.Unlock()
		return
	}
	a.tried.Add(cmd, struct{}{})
	a.mu.Unlock()

	for _, dir := range a.dirs {
		if ctx.Err() != nil {
			return
		}
		for _, ext := range definitionExts {
			path := filepath.Join(dir, cmd+ext)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			if err := a.loadFile(path, ext); err != nil {
				a.log.Warn().Str("command", cmd).Str("path", path).Err(err).Msg("definition load failed")
				continue
			}
			a.log.Debug().Str("command", cmd).Str("path", path).Msg("definitions loaded")
			return
		}
	}
}

func (a *Autoloader) loadFile(path, ext string) error {
	if ext == ".reef" {
		return a.loadScript(path)
	}
	def, err := LoadDefinition(path)
	if err != nil {
		return err
	}
	def.Apply(a.eng)
	return nil
}

// loadScript evaluates a definition script: a sequence of `complete`
// builtin lines, one per line, with #-comments.
func (a *Autoloader) loadScript(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return rerrors.NewDefinitionError(path, "failed to read definition", err)
	}
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		argv, err := shlex.Split(line)
		if err != nil {
			return rerrors.NewDefinitionError(path, "unparsable line", err)
		}
		if len(argv) == 0 {
			continue
		}
		if argv[0] != "complete" {
			return rerrors.NewDefinitionError(path, "only complete commands are allowed", nil)
		}
		req, err := ParseBuiltinArgs(argv[1:])
		if err != nil {
			return rerrors.NewDefinitionError(path, "invalid complete call", err)
		}
		if req.DoCompleteSet {
			return rerrors.NewDefinitionError(path, "do-complete is not allowed in definitions", nil)
		}
		if err := a.eng.ApplyBuiltin(req); err != nil {
			return rerrors.NewDefinitionError(path, "complete call rejected", err)
		}
	}
	return nil
}

// LoadScriptFile evaluates a script of `complete` lines at path.
func (a *Autoloader) LoadScriptFile(path string) error {
	return a.loadScript(path)
}

// LoadAll eagerly loads every definition file in the configured
// directories. The first error is returned after all files were
// attempted.
func (a *Autoloader) LoadAll() error {
	var firstErr error
	for _, dir := range a.dirs {
		files, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			cmd, ok := commandForFile(f.Name())
			if !ok {
				continue
			}
			path := filepath.Join(dir, f.Name())
			if err := a.loadFile(path, filepath.Ext(f.Name())); err != nil {
				a.log.Warn().Str("path", path).Err(err).Msg("definition load failed")
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			a.mu.Lock()
			a.tried.Add(cmd, struct{}{})
			a.mu.Unlock()
		}
	}
	return firstErr
}

// Watch starts watching the completion directories for changes.
func (a *Autoloader) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	for _, dir := range a.dirs {
		if err := watcher.Add(dir); err != nil {
			a.log.Warn().Str("dir", dir).Err(err).Msg("cannot watch completion dir")
		}
	}

	a.mu.Lock()
	a.watcher = watcher
	a.mu.Unlock()

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Remove|fsnotify.Rename|fsnotify.Create) == 0 {
					continue
				}
				cmd, ok := commandForFile(event.Name)
				if !ok {
					continue
				}
				a.mu.Lock()
				a.pending.PushBack(cmd)
				a.mu.Unlock()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				a.log.Warn().Err(err).Msg("completion watch error")
			}
		}
	}()
	return nil
}

// DrainPending applies queued invalidations: the command's rules are
// dropped and its load attempt forgotten, so the next completion
// reloads from disk.
func (a *Autoloader) DrainPending() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for {
		v, ok := a.pending.PopFront()
		if !ok {
			return
		}
		cmd := v.(string)
		a.tried.Remove(cmd)
		a.eng.reg.RemoveAll(cmd, false)
		a.log.Debug().Str("command", cmd).Msg("definitions invalidated")
	}
}

// Close stops the watcher.
func (a *Autoloader) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.watcher == nil {
		return nil
	}
	err := a.watcher.Close()
	a.watcher = nil
	return err
}

// commandForFile maps a definition file path back to its command.
func commandForFile(path string) (string, bool) {
	base := filepath.Base(path)
	for _, ext := range definitionExts {
		if strings.HasSuffix(base, ext) {
			return strings.TrimSuffix(base, ext), true
		}
	}
	return "", false
}
