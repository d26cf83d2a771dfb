package api

// LegacyProject элемент ответа api/projects/index?format=json (сервер < 6.3).
// Поля короткие: k = key, nm = name, qu = qualifier.
type LegacyProject struct {
	K  string `json:"k"`
	Nm string `json:"nm"`
	Qu string `json:"qu"`
}
