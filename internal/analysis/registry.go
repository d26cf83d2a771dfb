package analysis

import (
	"maps"
	"slices"
)

// SensorFactory creates the sensors contributed by one plugin
type SensorFactory func() []Sensor

// Registry maps server plugin keys to the sensors they enable
type Registry struct {
	factories map[string]SensorFactory
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]SensorFactory)}
}

// DefaultRegistry returns a registry with the built-in plugins
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(TextPluginKey, TextSensors)
	return r
}

// Register adds or replaces the factory of a plugin
func (r *Registry) Register(pluginKey string, factory SensorFactory) {
	r.factories[pluginKey] = factory
}

// Plugins returns registered plugin keys in sorted order
func (r *Registry) Plugins() []string {
	return slices.Sorted(maps.Keys(r.factories))
}

// Activate returns the sensors of every registered plugin for which installed reports true,
// ordered by plugin key
func (r *Registry) Activate(installed func(pluginKey string) bool) []Sensor {
	var sensors []Sensor
	for _, key := range r.Plugins() {
		if installed(key) {
			sensors = append(sensors, r.factories[key]()...)
		}
	}
	return sensors
}
