package script

import (
	"fmt"
	"sort"
	"sync"
)

// Manager holds the loaded scripts by name. Reads from the tick loop and
// replacement by a reload goroutine may run concurrently.
type Manager struct {
	mu      sync.RWMutex
	scripts map[string]*ScriptDesc
}

func NewManager() *Manager {
	return &Manager{scripts: map[string]*ScriptDesc{}}
}

// Register adds scripts, failing on a duplicate or invalid descriptor.
func (m *Manager) Register(descs ...*ScriptDesc) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range descs {
		if err := d.Validate(); err != nil {
			return err
		}
		if _, ok := m.scripts[d.Name]; ok {
			return fmt.Errorf("script %s already registered", d.Name)
		}
		d.index()
		m.scripts[d.Name] = d
	}
	return nil
}

// Replace swaps in new descriptors. Instances created earlier keep running
// their old descriptor.
func (m *Manager) Replace(descs ...*ScriptDesc) error {
	for _, d := range descs {
		if err := d.Validate(); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range descs {
		d.index()
		m.scripts[d.Name] = d
	}
	return nil
}

func (m *Manager) Get(name string) (*ScriptDesc, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.scripts[name]
	return d, ok
}

// DataCount implements Registry.
func (m *Manager) DataCount(name string) (int, bool) {
	d, ok := m.Get(name)
	if !ok {
		return 0, false
	}
	return d.DataCount, true
}

// Names returns the registered script names, sorted.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.scripts))
	for name := range m.scripts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Instantiate creates a script instance with args as its data. Missing args
// are zero, extra args are kept.
func (m *Manager) Instantiate(name string, args []float32, opts ...Option) (*ScriptContext, error) {
	d, ok := m.Get(name)
	if !ok {
		return nil, fmt.Errorf("script %s: %w", name, FaultUnknownScript)
	}
	data := make([]float32, max(d.DataCount, len(args)))
	copy(data, args)
	return NewScriptContext(d, data, opts...), nil
}
