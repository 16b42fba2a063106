package generate

import "sync"

// backendRegistry holds registered backends.
var (
	backendRegistry = make(map[string]Backend)
	backendMu       sync.RWMutex
)

// RegisterBackend adds a backend to the registry.
func RegisterBackend(b Backend) {
	backendMu.Lock()
	defer backendMu.Unlock()
	backendRegistry[b.Name()] = b
}

// GetBackend retrieves a backend by name, or nil if not registered.
func GetBackend(name string) Backend {
	backendMu.RLock()
	defer backendMu.RUnlock()
	return backendRegistry[name]
}

// ListBackends returns all registered backend names.
func ListBackends() []string {
	backendMu.RLock()
	defer backendMu.RUnlock()

	names := make([]string, 0, len(backendRegistry))
	for name := range backendRegistry {
		names = append(names, name)
	}
	return names
}
