package models

import (
	"maps"
	"slices"
)

// Severity значения, которые возвращает сервер
const (
	SeverityInfo     = "INFO"
	SeverityMinor    = "MINOR"
	SeverityMajor    = "MAJOR"
	SeverityCritical = "CRITICAL"
	SeverityBlocker  = "BLOCKER"
)

// Rule представляет определение правила анализа
type Rule struct {
	Key             string `json:"key"`        // Key ключ правила вида "repo:rule"
	Repository      string `json:"repository"` // Repository репозиторий правил
	Name            string `json:"name"`       // Name название правила
	HTMLDescription string `json:"html_desc"`  // HTMLDescription описание в HTML
	Severity        string `json:"severity"`   // Severity серьезность по умолчанию
	Language        string `json:"language"`   // Language ключ языка
}

// RuleCatalog представляет snapshot всех правил сервера: key -> Rule
type RuleCatalog struct {
	RulesByKey map[string]Rule `json:"rules_by_key"`
}

// NewRuleCatalog создает пустой каталог правил
func NewRuleCatalog() *RuleCatalog {
	return &RuleCatalog{RulesByKey: make(map[string]Rule)}
}

// Put adds or replaces a rule
func (c *RuleCatalog) Put(r Rule) {
	c.RulesByKey[r.Key] = r
}

// Get returns the rule with the given key
func (c *RuleCatalog) Get(key string) (Rule, bool) {
	r, ok := c.RulesByKey[key]
	return r, ok
}

// Len returns the number of rules
func (c *RuleCatalog) Len() int {
	return len(c.RulesByKey)
}

// Keys returns rule keys in sorted order
func (c *RuleCatalog) Keys() []string {
	return slices.Sorted(maps.Keys(c.RulesByKey))
}

// ActiveRule представляет правило, активированное в quality profile модуля
type ActiveRule struct {
	RuleKey  string `json:"rule_key"`
	Severity string `json:"severity"`
	Language string `json:"language"`
}

// ActiveRules представляет snapshot активных правил модуля
type ActiveRules struct {
	ModuleKey  string                `json:"module_key"`
	RulesByKey map[string]ActiveRule `json:"rules_by_key"`
}

// NewActiveRules создает пустой набор активных правил для модуля
func NewActiveRules(moduleKey string) *ActiveRules {
	return &ActiveRules{ModuleKey: moduleKey, RulesByKey: make(map[string]ActiveRule)}
}

// Put adds or replaces an active rule
func (a *ActiveRules) Put(r ActiveRule) {
	a.RulesByKey[r.RuleKey] = r
}

// IsActive reports whether the rule is active
func (a *ActiveRules) IsActive(ruleKey string) bool {
	_, ok := a.RulesByKey[ruleKey]
	return ok
}

// Keys returns active rule keys in sorted order
func (a *ActiveRules) Keys() []string {
	return slices.Sorted(maps.Keys(a.RulesByKey))
}

// RuleDetails is the read-only view of a rule handed to callers.
// It is returned by value so callers cannot alter stored data.
type RuleDetails struct {
	Key             string
	Name            string
	HTMLDescription string
	Severity        string
	Language        string
}

// NewRuleDetails projects a stored rule into RuleDetails
func NewRuleDetails(r Rule) RuleDetails {
	return RuleDetails{
		Key:             r.Key,
		Name:            r.Name,
		HTMLDescription: r.HTMLDescription,
		Severity:        r.Severity,
		Language:        r.Language,
	}
}
