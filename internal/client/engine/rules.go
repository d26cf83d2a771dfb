package engine

import (
	"github.com/iudanet/rulekeeper/internal/analysis"
	"github.com/iudanet/rulekeeper/internal/models"
)

// moduleRules активные правила модуля; severity из профиля, иначе из каталога
type moduleRules struct {
	catalog *models.RuleCatalog
	active  *models.ActiveRules
}

var _ analysis.ActiveRules = moduleRules{}

func (r moduleRules) IsActive(ruleKey string) bool {
	return r.active.IsActive(ruleKey)
}

func (r moduleRules) Severity(ruleKey string) string {
	if a, ok := r.active.RulesByKey[ruleKey]; ok && a.Severity != "" {
		return a.Severity
	}
	if rule, ok := r.catalog.Get(ruleKey); ok {
		return rule.Severity
	}
	return ""
}

// catalogRules без модуля активен весь каталог с severity по умолчанию
type catalogRules struct {
	catalog *models.RuleCatalog
}

var _ analysis.ActiveRules = catalogRules{}

func (r catalogRules) IsActive(ruleKey string) bool {
	_, ok := r.catalog.Get(ruleKey)
	return ok
}

func (r catalogRules) Severity(ruleKey string) string {
	rule, _ := r.catalog.Get(ruleKey)
	return rule.Severity
}
