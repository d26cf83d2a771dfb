package api

// Значения поля status в api/system/status
const (
	StatusUp       = "UP"
	StatusStarting = "STARTING"
	StatusDown     = "DOWN"
)

// SystemStatus ответ api/system/status
type SystemStatus struct {
	ID      string `json:"id"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

// InstalledPlugin элемент ответа api/plugins/installed
type InstalledPlugin struct {
	Key     string `json:"key"`
	Name    string `json:"name"`
	Version string `json:"version"`
	Hash    string `json:"hash"`
}

// InstalledPluginsResponse ответ api/plugins/installed
type InstalledPluginsResponse struct {
	Plugins []InstalledPlugin `json:"plugins"`
}

// QualityProfile элемент ответа api/qualityprofiles/search
type QualityProfile struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	Language  string `json:"language"`
	IsDefault bool   `json:"isDefault"`
}

// QualityProfilesResponse ответ api/qualityprofiles/search
type QualityProfilesResponse struct {
	Profiles []QualityProfile `json:"profiles"`
}
