package engine

import (
	"fmt"
	"sort"
	"sync"
)

// Preference lists engine names in the order Default tries them. Engines not
// listed are only chosen when nothing listed is registered.
var Preference = []string{"libpcre", "coregex"}

var (
	registryMu sync.RWMutex
	registry   = map[string]Engine{}
)

// Register makes e available under e.Name().
func Register(e Engine) error {
	registryMu.Lock()
	defer registryMu.Unlock()

	name := e.Name()
	if _, ok := registry[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateEngine, name)
	}
	registry[name] = e
	return nil
}

// Lookup returns the engine registered under name.
func Lookup(name string) (Engine, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	e, ok := registry[name]
	return e, ok
}

// Names returns the registered engine names in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default returns the most preferred registered engine.
func Default() (Engine, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range Preference {
		if e, ok := registry[name]; ok {
			return e, nil
		}
	}
	if len(registry) == 0 {
		return nil, ErrNoEngine
	}
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return registry[names[0]], nil
}
