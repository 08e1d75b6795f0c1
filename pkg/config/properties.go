package config

import (
	"os"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// PropertySource answers placeholder lookups by name.
type PropertySource interface {
	Lookup(name string) (string, bool)
}

// MapSource is a fixed PropertySource. Presence is what counts: a name
// mapped to "" is found.
type MapSource map[string]string

// Lookup implements PropertySource.
func (m MapSource) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// Environment snapshots the process environment.
func Environment() MapSource {
	return MapSource(env.ToMap(os.Environ()))
}

// DotenvSource reads KEY=VALUE pairs from one or more dotenv files without
// touching the process environment. Later files override earlier ones.
func DotenvSource(paths ...string) (MapSource, error) {
	out := make(MapSource)
	for _, p := range paths {
		values, err := godotenv.Read(p)
		if err != nil {
			return nil, err
		}
		for k, v := range values {
			out[k] = v
		}
	}
	return out, nil
}

// Properties is a process-local, mutable override store consulted before the
// environment.
type Properties struct {
	mu     sync.RWMutex
	values map[string]string
}

// SystemProperties is the default override store used by Load.
var SystemProperties = NewProperties()

// NewProperties returns an empty store.
func NewProperties() *Properties {
	return &Properties{values: make(map[string]string)}
}

// Set stores value under name.
func (p *Properties) Set(name, value string) {
	p.mu.Lock()
	p.values[name] = value
	p.mu.Unlock()
}

// Get returns the value under name, or "" when absent.
func (p *Properties) Get(name string) string {
	v, _ := p.Lookup(name)
	return v
}

// Lookup implements PropertySource.
func (p *Properties) Lookup(name string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.values[name]
	return v, ok
}

// Delete removes name.
func (p *Properties) Delete(name string) {
	p.mu.Lock()
	delete(p.values, name)
	p.mu.Unlock()
}

// Clear removes every property.
func (p *Properties) Clear() {
	p.mu.Lock()
	p.values = make(map[string]string)
	p.mu.Unlock()
}

// Snapshot returns a copy of the current properties.
func (p *Properties) Snapshot() MapSource {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(MapSource, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}
