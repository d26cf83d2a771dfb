package storage

import (
	"net/url"
	"path"
	"strings"
)

// Version версия раскладки хранилища. При несовместимых изменениях формата
// увеличивается, и старые данные просто перестают читаться (нужен новый sync).
const Version = "1"

const (
	globalDir  = "global"
	modulesDir = "modules"
)

// Относительные пути snapshot-файлов внутри корня хранилища
var (
	ServerInfoPath       = globalPath("server_info.pb")
	PluginIndexPath      = globalPath("plugin_references.pb")
	RuleCatalogPath      = globalPath("rules.pb")
	ProjectListPath      = globalPath("project_list.pb")
	ModuleListPath       = globalPath("module_list.pb")
	GlobalSyncStatusPath = globalPath("sync_status.pb")
)

func globalPath(name string) string {
	return path.Join("v"+Version, globalDir, name)
}

// ModuleDir returns the directory holding all snapshots of one module.
// The key is escaped so that any module key maps to exactly one directory.
func ModuleDir(moduleKey string) string {
	return path.Join("v"+Version, modulesDir, escapeKey(moduleKey))
}

// ActiveRulesPath returns the path of the module active rules snapshot
func ActiveRulesPath(moduleKey string) string {
	return path.Join(ModuleDir(moduleKey), "active_rules.pb")
}

// ModuleSyncStatusPath returns the path of the module sync status marker
func ModuleSyncStatusPath(moduleKey string) string {
	return path.Join(ModuleDir(moduleKey), "sync_status.pb")
}

func escapeKey(key string) string {
	escaped := url.QueryEscape(key)
	// "." и ".." не должны превращаться в ссылки на родительские каталоги
	if strings.Trim(escaped, ".") == "" {
		escaped = strings.ReplaceAll(escaped, ".", "%2E")
	}
	if escaped == "" {
		escaped = "%00"
	}
	return escaped
}
