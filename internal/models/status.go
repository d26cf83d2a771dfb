package models

import (
	"maps"
	"slices"
	"time"
)

// GlobalSyncStatus is the marker written at the end of a successful global sync.
// Its presence means global storage is usable.
type GlobalSyncStatus struct {
	ServerID          string `json:"server_id"`
	ServerVersion     string `json:"server_version"`
	LastSyncTimestamp int64  `json:"last_sync_timestamp"` // unix milliseconds
}

// LastSyncTime returns the last sync time
func (s GlobalSyncStatus) LastSyncTime() time.Time {
	return time.UnixMilli(s.LastSyncTimestamp)
}

// ModuleSyncStatus is the per-module sync marker
type ModuleSyncStatus struct {
	ModuleKey         string `json:"module_key"`
	LastSyncTimestamp int64  `json:"last_sync_timestamp"` // unix milliseconds
}

// LastSyncTime returns the last sync time
func (s ModuleSyncStatus) LastSyncTime() time.Time {
	return time.UnixMilli(s.LastSyncTimestamp)
}

// ServerInfo ответ api/system/status
type ServerInfo struct {
	ID      string `json:"id"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

// Plugin представляет плагин, установленный на сервере
type Plugin struct {
	Key     string `json:"key"`
	Name    string `json:"name"`
	Version string `json:"version"`
	Hash    string `json:"hash"`
}

// PluginIndex представляет snapshot установленных плагинов: key -> Plugin
type PluginIndex struct {
	PluginsByKey map[string]Plugin `json:"plugins_by_key"`
}

// NewPluginIndex создает пустой индекс плагинов
func NewPluginIndex() *PluginIndex {
	return &PluginIndex{PluginsByKey: make(map[string]Plugin)}
}

// Put adds or replaces a plugin
func (p *PluginIndex) Put(plugin Plugin) {
	p.PluginsByKey[plugin.Key] = plugin
}

// Has reports whether a plugin with the key is installed
func (p *PluginIndex) Has(key string) bool {
	_, ok := p.PluginsByKey[key]
	return ok
}

// Keys returns plugin keys in sorted order
func (p *PluginIndex) Keys() []string {
	return slices.Sorted(maps.Keys(p.PluginsByKey))
}
