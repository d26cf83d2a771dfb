package api

import (
	"github.com/iudanet/rulekeeper/internal/protoutil"
)

// Rule элемент ответа api/rules/search.
// Wire: key=1, repo=2, name=3, htmlDesc=4, severity=5, lang=6.
type Rule struct {
	Key      string
	Repo     string
	Name     string
	HTMLDesc string
	Severity string
	Lang     string
}

// RulesSearchResponse одна страница api/rules/search.protobuf.
// Wire: paging=1, rules=2.
type RulesSearchResponse struct {
	Rules  []Rule
	Paging Paging
}

// Marshal encodes the page as a protobuf message
func (r *RulesSearchResponse) Marshal() []byte {
	var b []byte
	b = protoutil.AppendMessage(b, fieldPaging, r.Paging.Marshal())
	for _, rule := range r.Rules {
		var rb []byte
		rb = protoutil.AppendString(rb, 1, rule.Key)
		rb = protoutil.AppendString(rb, 2, rule.Repo)
		rb = protoutil.AppendString(rb, 3, rule.Name)
		rb = protoutil.AppendString(rb, 4, rule.HTMLDesc)
		rb = protoutil.AppendString(rb, 5, rule.Severity)
		rb = protoutil.AppendString(rb, 6, rule.Lang)
		b = protoutil.AppendMessage(b, 2, rb)
	}
	return b
}

// UnmarshalRulesSearchResponse decodes one page
func UnmarshalRulesSearchResponse(b []byte) (*RulesSearchResponse, error) {
	resp := &RulesSearchResponse{}
	err := protoutil.Walk(b, func(f protoutil.Field) error {
		switch f.Num {
		case fieldPaging:
			p, err := UnmarshalPaging(f.Bytes)
			if err != nil {
				return err
			}
			resp.Paging = p
		case 2:
			var rule Rule
			err := protoutil.Walk(f.Bytes, func(rf protoutil.Field) error {
				switch rf.Num {
				case 1:
					rule.Key = rf.String()
				case 2:
					rule.Repo = rf.String()
				case 3:
					rule.Name = rf.String()
				case 4:
					rule.HTMLDesc = rf.String()
				case 5:
					rule.Severity = rf.String()
				case 6:
					rule.Lang = rf.String()
				}
				return nil
			})
			if err != nil {
				return err
			}
			resp.Rules = append(resp.Rules, rule)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// GetPaging returns page metadata
func (r *RulesSearchResponse) GetPaging() Paging {
	return r.Paging
}

// GetRules returns the items of the page
func (r *RulesSearchResponse) GetRules() []Rule {
	return r.Rules
}
