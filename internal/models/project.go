package models

import (
	"maps"
	"slices"
)

// Квалификаторы компонентов сервера
const (
	QualifierProject = "TRK" // QualifierProject корневой проект
	QualifierBranch  = "BRC" // QualifierBranch подмодуль (legacy multi-module проекты)
)

// Project представляет проект на сервере. Идентичность определяется Key.
type Project struct {
	Key  string `json:"key"`  // Key уникальный ключ проекта на сервере
	Name string `json:"name"` // Name отображаемое имя проекта
}

// ProjectList представляет snapshot списка проектов: key -> Project.
// Строится целиком за один прогон синхронизации и записывается атомарно.
type ProjectList struct {
	ProjectsByKey map[string]Project `json:"projects_by_key"`
}

// NewProjectList создает пустой список проектов
func NewProjectList() *ProjectList {
	return &ProjectList{ProjectsByKey: make(map[string]Project)}
}

// Put adds or replaces a project. The last write for a key wins.
// Returns true if the key was already present.
func (l *ProjectList) Put(p Project) bool {
	_, replaced := l.ProjectsByKey[p.Key]
	l.ProjectsByKey[p.Key] = p
	return replaced
}

// Len returns the number of projects
func (l *ProjectList) Len() int {
	return len(l.ProjectsByKey)
}

// Keys returns project keys in sorted order
func (l *ProjectList) Keys() []string {
	return slices.Sorted(maps.Keys(l.ProjectsByKey))
}

// Module представляет модуль (проект или подмодуль) на сервере
type Module struct {
	Key       string `json:"key"`       // Key уникальный ключ модуля
	Name      string `json:"name"`      // Name отображаемое имя
	Qualifier string `json:"qualifier"` // Qualifier TRK или BRC
}

// ModuleList представляет snapshot списка модулей: key -> Module
type ModuleList struct {
	ModulesByKey map[string]Module `json:"modules_by_key"`
}

// NewModuleList создает пустой список модулей
func NewModuleList() *ModuleList {
	return &ModuleList{ModulesByKey: make(map[string]Module)}
}

// Put adds or replaces a module, last write wins
func (l *ModuleList) Put(m Module) bool {
	_, replaced := l.ModulesByKey[m.Key]
	l.ModulesByKey[m.Key] = m
	return replaced
}

// Len returns the number of modules
func (l *ModuleList) Len() int {
	return len(l.ModulesByKey)
}

// Keys returns module keys in sorted order
func (l *ModuleList) Keys() []string {
	return slices.Sorted(maps.Keys(l.ModulesByKey))
}
