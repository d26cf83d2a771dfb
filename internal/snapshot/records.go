package snapshot

import (
	"fmt"

	"github.com/iudanet/rulekeeper/internal/models"
	"github.com/iudanet/rulekeeper/internal/protoutil"
)

// Codec связывает тип snapshot-записи с её protobuf-кодированием.
// Map-поля пишутся как repeated entries в порядке сортировки ключей,
// поэтому одинаковые данные всегда дают одинаковые байты.
type Codec[T any] struct {
	encode func(T) []byte
	decode func([]byte) (T, error)
	name   string
}

// Marshal encodes and seals a record
func (c Codec[T]) Marshal(v T) []byte {
	return Seal(c.encode(v))
}

// Unmarshal opens and decodes a record. Any failure wraps ErrCorrupt.
func (c Codec[T]) Unmarshal(data []byte) (T, error) {
	var zero T
	payload, err := Open(data)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", c.name, err)
	}
	v, err := c.decode(payload)
	if err != nil {
		return zero, fmt.Errorf("%s: %w: %v", c.name, ErrCorrupt, err)
	}
	return v, nil
}

// Codecs for every snapshot type
var (
	ProjectListCodec = Codec[*models.ProjectList]{name: "project list", encode: encodeProjectList, decode: decodeProjectList}
	ModuleListCodec  = Codec[*models.ModuleList]{name: "module list", encode: encodeModuleList, decode: decodeModuleList}
	RuleCatalogCodec = Codec[*models.RuleCatalog]{name: "rule catalog", encode: encodeRuleCatalog, decode: decodeRuleCatalog}
	ActiveRulesCodec = Codec[*models.ActiveRules]{name: "active rules", encode: encodeActiveRules, decode: decodeActiveRules}
	PluginIndexCodec = Codec[*models.PluginIndex]{name: "plugin index", encode: encodePluginIndex, decode: decodePluginIndex}
	ServerInfoCodec  = Codec[*models.ServerInfo]{name: "server info", encode: encodeServerInfo, decode: decodeServerInfo}

	GlobalSyncStatusCodec = Codec[*models.GlobalSyncStatus]{name: "global sync status", encode: encodeGlobalSyncStatus, decode: decodeGlobalSyncStatus}
	ModuleSyncStatusCodec = Codec[*models.ModuleSyncStatus]{name: "module sync status", encode: encodeModuleSyncStatus, decode: decodeModuleSyncStatus}
)

// ProjectList: projects=1 {key=1, name=2}
func encodeProjectList(l *models.ProjectList) []byte {
	var b []byte
	for _, key := range l.Keys() {
		p := l.ProjectsByKey[key]
		var pb []byte
		pb = protoutil.AppendString(pb, 1, p.Key)
		pb = protoutil.AppendString(pb, 2, p.Name)
		b = protoutil.AppendMessage(b, 1, pb)
	}
	return b
}

func decodeProjectList(b []byte) (*models.ProjectList, error) {
	l := models.NewProjectList()
	err := protoutil.Walk(b, func(f protoutil.Field) error {
		if f.Num != 1 {
			return nil
		}
		var p models.Project
		if err := protoutil.Walk(f.Bytes, func(pf protoutil.Field) error {
			switch pf.Num {
			case 1:
				p.Key = pf.String()
			case 2:
				p.Name = pf.String()
			}
			return nil
		}); err != nil {
			return err
		}
		l.Put(p)
		return nil
	})
	return l, err
}

// ModuleList: modules=1 {key=1, name=2, qualifier=3}
func encodeModuleList(l *models.ModuleList) []byte {
	var b []byte
	for _, key := range l.Keys() {
		m := l.ModulesByKey[key]
		var mb []byte
		mb = protoutil.AppendString(mb, 1, m.Key)
		mb = protoutil.AppendString(mb, 2, m.Name)
		mb = protoutil.AppendString(mb, 3, m.Qualifier)
		b = protoutil.AppendMessage(b, 1, mb)
	}
	return b
}

func decodeModuleList(b []byte) (*models.ModuleList, error) {
	l := models.NewModuleList()
	err := protoutil.Walk(b, func(f protoutil.Field) error {
		if f.Num != 1 {
			return nil
		}
		var m models.Module
		if err := protoutil.Walk(f.Bytes, func(mf protoutil.Field) error {
			switch mf.Num {
			case 1:
				m.Key = mf.String()
			case 2:
				m.Name = mf.String()
			case 3:
				m.Qualifier = mf.String()
			}
			return nil
		}); err != nil {
			return err
		}
		l.Put(m)
		return nil
	})
	return l, err
}

// RuleCatalog: rules=1 {key=1, repo=2, name=3, html_desc=4, severity=5, lang=6}
func encodeRuleCatalog(c *models.RuleCatalog) []byte {
	var b []byte
	for _, key := range c.Keys() {
		r := c.RulesByKey[key]
		var rb []byte
		rb = protoutil.AppendString(rb, 1, r.Key)
		rb = protoutil.AppendString(rb, 2, r.Repository)
		rb = protoutil.AppendString(rb, 3, r.Name)
		rb = protoutil.AppendString(rb, 4, r.HTMLDescription)
		rb = protoutil.AppendString(rb, 5, r.Severity)
		rb = protoutil.AppendString(rb, 6, r.Language)
		b = protoutil.AppendMessage(b, 1, rb)
	}
	return b
}

func decodeRuleCatalog(b []byte) (*models.RuleCatalog, error) {
	c := models.NewRuleCatalog()
	err := protoutil.Walk(b, func(f protoutil.Field) error {
		if f.Num != 1 {
			return nil
		}
		var r models.Rule
		if err := protoutil.Walk(f.Bytes, func(rf protoutil.Field) error {
			switch rf.Num {
			case 1:
				r.Key = rf.String()
			case 2:
				r.Repository = rf.String()
			case 3:
				r.Name = rf.String()
			case 4:
				r.HTMLDescription = rf.String()
			case 5:
				r.Severity = rf.String()
			case 6:
				r.Language = rf.String()
			}
			return nil
		}); err != nil {
			return err
		}
		c.Put(r)
		return nil
	})
	return c, err
}

// ActiveRules: module_key=1, rules=2 {rule_key=1, severity=2, lang=3}
func encodeActiveRules(a *models.ActiveRules) []byte {
	var b []byte
	b = protoutil.AppendString(b, 1, a.ModuleKey)
	for _, key := range a.Keys() {
		r := a.RulesByKey[key]
		var rb []byte
		rb = protoutil.AppendString(rb, 1, r.RuleKey)
		rb = protoutil.AppendString(rb, 2, r.Severity)
		rb = protoutil.AppendString(rb, 3, r.Language)
		b = protoutil.AppendMessage(b, 2, rb)
	}
	return b
}

func decodeActiveRules(b []byte) (*models.ActiveRules, error) {
	a := models.NewActiveRules("")
	err := protoutil.Walk(b, func(f protoutil.Field) error {
		switch f.Num {
		case 1:
			a.ModuleKey = f.String()
		case 2:
			var r models.ActiveRule
			if err := protoutil.Walk(f.Bytes, func(rf protoutil.Field) error {
				switch rf.Num {
				case 1:
					r.RuleKey = rf.String()
				case 2:
					r.Severity = rf.String()
				case 3:
					r.Language = rf.String()
				}
				return nil
			}); err != nil {
				return err
			}
			a.Put(r)
		}
		return nil
	})
	return a, err
}

// PluginIndex: plugins=1 {key=1, name=2, version=3, hash=4}
func encodePluginIndex(p *models.PluginIndex) []byte {
	var b []byte
	for _, key := range p.Keys() {
		plugin := p.PluginsByKey[key]
		var pb []byte
		pb = protoutil.AppendString(pb, 1, plugin.Key)
		pb = protoutil.AppendString(pb, 2, plugin.Name)
		pb = protoutil.AppendString(pb, 3, plugin.Version)
		pb = protoutil.AppendString(pb, 4, plugin.Hash)
		b = protoutil.AppendMessage(b, 1, pb)
	}
	return b
}

func decodePluginIndex(b []byte) (*models.PluginIndex, error) {
	p := models.NewPluginIndex()
	err := protoutil.Walk(b, func(f protoutil.Field) error {
		if f.Num != 1 {
			return nil
		}
		var plugin models.Plugin
		if err := protoutil.Walk(f.Bytes, func(pf protoutil.Field) error {
			switch pf.Num {
			case 1:
				plugin.Key = pf.String()
			case 2:
				plugin.Name = pf.String()
			case 3:
				plugin.Version = pf.String()
			case 4:
				plugin.Hash = pf.String()
			}
			return nil
		}); err != nil {
			return err
		}
		p.Put(plugin)
		return nil
	})
	return p, err
}

// ServerInfo: id=1, version=2, status=3
func encodeServerInfo(s *models.ServerInfo) []byte {
	var b []byte
	b = protoutil.AppendString(b, 1, s.ID)
	b = protoutil.AppendString(b, 2, s.Version)
	b = protoutil.AppendString(b, 3, s.Status)
	return b
}

func decodeServerInfo(b []byte) (*models.ServerInfo, error) {
	s := &models.ServerInfo{}
	err := protoutil.Walk(b, func(f protoutil.Field) error {
		switch f.Num {
		case 1:
			s.ID = f.String()
		case 2:
			s.Version = f.String()
		case 3:
			s.Status = f.String()
		}
		return nil
	})
	return s, err
}

// GlobalSyncStatus: server_id=1, server_version=2, last_sync_timestamp=3
func encodeGlobalSyncStatus(s *models.GlobalSyncStatus) []byte {
	var b []byte
	b = protoutil.AppendString(b, 1, s.ServerID)
	b = protoutil.AppendString(b, 2, s.ServerVersion)
	b = protoutil.AppendInt64(b, 3, s.LastSyncTimestamp)
	return b
}

func decodeGlobalSyncStatus(b []byte) (*models.GlobalSyncStatus, error) {
	s := &models.GlobalSyncStatus{}
	err := protoutil.Walk(b, func(f protoutil.Field) error {
		switch f.Num {
		case 1:
			s.ServerID = f.String()
		case 2:
			s.ServerVersion = f.String()
		case 3:
			s.LastSyncTimestamp = f.Int64()
		}
		return nil
	})
	return s, err
}

// ModuleSyncStatus: module_key=1, last_sync_timestamp=2
func encodeModuleSyncStatus(s *models.ModuleSyncStatus) []byte {
	var b []byte
	b = protoutil.AppendString(b, 1, s.ModuleKey)
	b = protoutil.AppendInt64(b, 2, s.LastSyncTimestamp)
	return b
}

func decodeModuleSyncStatus(b []byte) (*models.ModuleSyncStatus, error) {
	s := &models.ModuleSyncStatus{}
	err := protoutil.Walk(b, func(f protoutil.Field) error {
		switch f.Num {
		case 1:
			s.ModuleKey = f.String()
		case 2:
			s.LastSyncTimestamp = f.Int64()
		}
		return nil
	})
	return s, err
}
