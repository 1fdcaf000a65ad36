package shellenv

import (
	"sort"
	"strings"
	"sync"
)

// FuncTable is an in-memory table of shell functions reported by the
// host shell. Hidden helpers use a leading underscore.
type FuncTable struct {
	mu    sync.RWMutex
	descs map[string]string
}

// NewFuncTable builds a table from name to description.
func NewFuncTable(descs map[string]string) *FuncTable {
	if descs == nil {
		descs = make(map[string]string)
	}
	return &FuncTable{descs: descs}
}

// ParseFuncTable reads "name<TAB>description" lines, one function per
// line, as produced by the shell integration script.
func ParseFuncTable(data string) *FuncTable {
	descs := make(map[string]string)
	for _, line := range strings.Split(data, "\n") {
		if line == "" {
			continue
		}
		name, desc, _ := strings.Cut(line, "\t")
		if name != "" {
			descs[name] = desc
		}
	}
	return &FuncTable{descs: descs}
}

// Add registers or replaces a function.
func (t *FuncTable) Add(name, desc string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.descs[name] = desc
}

// Names lists function names, sorted. Hidden functions are skipped
// unless includeHidden is set.
func (t *FuncTable) Names(includeHidden bool) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.descs))
	for name := range t.descs {
		if !includeHidden && strings.HasPrefix(name, "_") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Description returns the function's description, "" when unknown.
func (t *FuncTable) Description(name string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.descs[name]
}

// builtinDescs lists the shell builtins the engine knows about.
var builtinDescs = map[string]string{
	"bg":       "Send job to background",
	"cd":       "Change working directory",
	"complete": "Edit completion rules",
	"echo":     "Print arguments",
	"eval":     "Evaluate a string as a command",
	"exit":     "Exit the shell",
	"fg":       "Bring job to foreground",
	"jobs":     "Print currently running jobs",
	"pwd":      "Print working directory",
	"read":     "Read a line into variables",
	"set":      "Set or erase shell variables",
	"source":   "Evaluate a file",
	"status":   "Query shell status",
	"test":     "Evaluate a conditional expression",
	"type":     "Describe how a name would be interpreted",
	"ulimit":   "Set or get resource limits",
	"wait":     "Wait for jobs to complete",
}

// Builtins exposes the shell builtin table.
type Builtins struct{}

// Names lists builtin names, sorted.
func (Builtins) Names() []string {
	names := make([]string, 0, len(builtinDescs))
	for name := range builtinDescs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Description returns the builtin's description.
func (Builtins) Description(name string) string {
	return builtinDescs[name]
}
