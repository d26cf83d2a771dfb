package models

// RemoteProject is the caller-facing view of a server project
type RemoteProject struct {
	Key  string
	Name string
}

// NewRemoteProject translates a stored project record
func NewRemoteProject(p Project) RemoteProject {
	return RemoteProject{Key: p.Key, Name: p.Name}
}

// RemoteModule is the caller-facing view of a server module
type RemoteModule struct {
	Key  string
	Name string
}

// NewRemoteModule translates a stored module record
func NewRemoteModule(m Module) RemoteModule {
	return RemoteModule{Key: m.Key, Name: m.Name}
}

// RemoteProjectsByKey translates a whole project list. A nil list yields an empty map.
func RemoteProjectsByKey(list *ProjectList) map[string]RemoteProject {
	result := make(map[string]RemoteProject)
	if list == nil {
		return result
	}
	for key, p := range list.ProjectsByKey {
		result[key] = NewRemoteProject(p)
	}
	return result
}

// RemoteModulesByKey translates a whole module list. A nil list yields an empty map.
func RemoteModulesByKey(list *ModuleList) map[string]RemoteModule {
	result := make(map[string]RemoteModule)
	if list == nil {
		return result
	}
	for key, m := range list.ModulesByKey {
		result[key] = NewRemoteModule(m)
	}
	return result
}
