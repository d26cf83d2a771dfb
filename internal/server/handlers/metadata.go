package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/rulekeeper/internal/models"
	"github.com/iudanet/rulekeeper/internal/server/storage"
	"github.com/iudanet/rulekeeper/internal/version"
	"github.com/iudanet/rulekeeper/pkg/api"
)

// componentsSearchSince первая версия, в которой сервер отдаёт api/components/search
var componentsSearchSince = version.MustParse("6.3")

// ServerInfo is what api/system/status advertises
type ServerInfo struct {
	ID      string
	Version string
	Status  string
}

// MetadataHandler serves the read-only metadata API consumed by the synchronizer
type MetadataHandler struct {
	store  storage.MetadataStorage
	logger *slog.Logger
	info   ServerInfo
	modern bool
}

// NewMetadataHandler creates the handler. The advertised version decides whether
// api/components/search is available.
func NewMetadataHandler(store storage.MetadataStorage, info ServerInfo, logger *slog.Logger) (*MetadataHandler, error) {
	v, err := version.Parse(info.Version)
	if err != nil {
		return nil, fmt.Errorf("invalid advertised version: %w", err)
	}
	if info.Status == "" {
		info.Status = api.StatusUp
	}

	return &MetadataHandler{
		store:  store,
		logger: logger,
		info:   info,
		modern: v.AtLeast(componentsSearchSince),
	}, nil
}

// Status обрабатывает GET /api/system/status
func (h *MetadataHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, api.SystemStatus{
		ID:      h.info.ID,
		Version: h.info.Version,
		Status:  h.info.Status,
	})
}

// ComponentsSearch обрабатывает GET /api/components/search.protobuf
func (h *MetadataHandler) ComponentsSearch(w http.ResponseWriter, r *http.Request) {
	if !h.modern {
		WriteError(w, http.StatusNotFound, "Unknown url : "+r.URL.Path)
		return
	}

	page, err := parsePage(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	q := storage.ComponentQuery{
		Organization: r.URL.Query().Get("organization"),
		Qualifiers:   splitList(r.URL.Query().Get("qualifiers")),
	}
	if len(q.Qualifiers) == 0 {
		WriteError(w, http.StatusBadRequest, "The 'qualifiers' parameter is missing")
		return
	}

	components, total, err := h.store.SearchComponents(r.Context(), q, page)
	if err != nil {
		h.internalError(w, "search components", err)
		return
	}

	resp := &api.ComponentsSearchResponse{
		Components: make([]api.Component, 0, len(components)),
		Paging:     api.Paging{PageIndex: page.Index, PageSize: page.Size, Total: total},
	}
	for _, c := range components {
		resp.Components = append(resp.Components, api.Component{Key: c.Key, Name: c.Name, Qualifier: c.Qualifier})
	}

	writeProtobuf(w, h.logger, resp.Marshal())
}

// ProjectsIndex обрабатывает GET /api/projects/index?format=json[&subprojects=true]
func (h *MetadataHandler) ProjectsIndex(w http.ResponseWriter, r *http.Request) {
	if f := r.URL.Query().Get("format"); f != "" && f != "json" {
		WriteError(w, http.StatusBadRequest, "Only the json format is supported")
		return
	}

	qualifiers := []string{models.QualifierProject}
	if r.URL.Query().Get("subprojects") == "true" {
		qualifiers = append(qualifiers, models.QualifierBranch)
	}

	components, err := h.store.ListComponents(r.Context(), storage.ComponentQuery{
		Organization: r.URL.Query().Get("organization"),
		Qualifiers:   qualifiers,
	})
	if err != nil {
		h.internalError(w, "list components", err)
		return
	}

	resp := make([]api.LegacyProject, 0, len(components))
	for _, c := range components {
		resp = append(resp, api.LegacyProject{K: c.Key, Nm: c.Name, Qu: c.Qualifier})
	}

	writeJSON(w, h.logger, resp)
}

// RulesSearch обрабатывает GET /api/rules/search.protobuf.
// With activation=true the qprofile parameter is required and only rules active in it are returned.
func (h *MetadataHandler) RulesSearch(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	query := r.URL.Query()
	q := storage.RuleQuery{Organization: query.Get("organization")}
	if query.Get("activation") == "true" {
		q.ProfileKey = query.Get("qprofile")
		if q.ProfileKey == "" {
			WriteError(w, http.StatusBadRequest, "The 'qprofile' parameter is required when 'activation' is set")
			return
		}
	}

	rules, total, err := h.store.SearchRules(r.Context(), q, page)
	if errors.Is(err, storage.ErrProfileNotFound) {
		WriteError(w, http.StatusNotFound, fmt.Sprintf("Quality profile '%s' does not exist", q.ProfileKey))
		return
	}
	if err != nil {
		h.internalError(w, "search rules", err)
		return
	}

	resp := &api.RulesSearchResponse{
		Rules:  make([]api.Rule, 0, len(rules)),
		Paging: api.Paging{PageIndex: page.Index, PageSize: page.Size, Total: total},
	}
	for _, rule := range rules {
		resp.Rules = append(resp.Rules, api.Rule{
			Key:      rule.Key,
			Repo:     rule.Repo,
			Name:     rule.Name,
			HTMLDesc: rule.HTMLDesc,
			Severity: rule.Severity,
			Lang:     rule.Lang,
		})
	}

	writeProtobuf(w, h.logger, resp.Marshal())
}

// QualityProfiles обрабатывает GET /api/qualityprofiles/search?projectKey=...
func (h *MetadataHandler) QualityProfiles(w http.ResponseWriter, r *http.Request) {
	projectKey := r.URL.Query().Get("projectKey")
	if projectKey == "" {
		WriteError(w, http.StatusBadRequest, "The 'projectKey' parameter is missing")
		return
	}

	profiles, err := h.store.ProfilesForProject(r.Context(), projectKey, r.URL.Query().Get("organization"))
	if errors.Is(err, storage.ErrComponentNotFound) {
		WriteError(w, http.StatusNotFound, fmt.Sprintf("Component key '%s' not found", projectKey))
		return
	}
	if err != nil {
		h.internalError(w, "search quality profiles", err)
		return
	}

	resp := api.QualityProfilesResponse{Profiles: make([]api.QualityProfile, 0, len(profiles))}
	for _, p := range profiles {
		resp.Profiles = append(resp.Profiles, api.QualityProfile{
			Key:       p.Key,
			Name:      p.Name,
			Language:  p.Language,
			IsDefault: p.IsDefault,
		})
	}

	writeJSON(w, h.logger, resp)
}

// PluginsInstalled обрабатывает GET /api/plugins/installed
func (h *MetadataHandler) PluginsInstalled(w http.ResponseWriter, r *http.Request) {
	plugins, err := h.store.Plugins(r.Context())
	if err != nil {
		h.internalError(w, "list plugins", err)
		return
	}

	resp := api.InstalledPluginsResponse{Plugins: make([]api.InstalledPlugin, 0, len(plugins))}
	for _, p := range plugins {
		resp.Plugins = append(resp.Plugins, api.InstalledPlugin{
			Key:     p.Key,
			Name:    p.Name,
			Version: p.Version,
			Hash:    p.Hash,
		})
	}

	writeJSON(w, h.logger, resp)
}

func (h *MetadataHandler) internalError(w http.ResponseWriter, op string, err error) {
	h.logger.Error("Failed to "+op, "error", err)
	WriteError(w, http.StatusInternalServerError, "An error has occurred")
}

// splitList разбирает список через запятую, пропуская пустые элементы
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
