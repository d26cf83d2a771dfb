package api

import (
	"github.com/iudanet/rulekeeper/internal/protoutil"
)

// Component элемент ответа api/components/search.
// Wire: key=2, name=3, qualifier=4.
type Component struct {
	Key       string
	Name      string
	Qualifier string
}

// ComponentsSearchResponse одна страница api/components/search.protobuf.
// Wire: paging=1, components=2.
type ComponentsSearchResponse struct {
	Components []Component
	Paging     Paging
}

// Marshal encodes the page as a protobuf message
func (r *ComponentsSearchResponse) Marshal() []byte {
	var b []byte
	b = protoutil.AppendMessage(b, fieldPaging, r.Paging.Marshal())
	for _, c := range r.Components {
		var cb []byte
		cb = protoutil.AppendString(cb, 2, c.Key)
		cb = protoutil.AppendString(cb, 3, c.Name)
		cb = protoutil.AppendString(cb, 4, c.Qualifier)
		b = protoutil.AppendMessage(b, 2, cb)
	}
	return b
}

// UnmarshalComponentsSearchResponse decodes one page
func UnmarshalComponentsSearchResponse(b []byte) (*ComponentsSearchResponse, error) {
	resp := &ComponentsSearchResponse{}
	err := protoutil.Walk(b, func(f protoutil.Field) error {
		switch f.Num {
		case fieldPaging:
			p, err := UnmarshalPaging(f.Bytes)
			if err != nil {
				return err
			}
			resp.Paging = p
		case 2:
			c, err := unmarshalComponent(f.Bytes)
			if err != nil {
				return err
			}
			resp.Components = append(resp.Components, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func unmarshalComponent(b []byte) (Component, error) {
	var c Component
	err := protoutil.Walk(b, func(f protoutil.Field) error {
		switch f.Num {
		case 2:
			c.Key = f.String()
		case 3:
			c.Name = f.String()
		case 4:
			c.Qualifier = f.String()
		}
		return nil
	})
	return c, err
}

// GetPaging returns page metadata, used with the paginated reader
func (r *ComponentsSearchResponse) GetPaging() Paging {
	return r.Paging
}

// GetComponents returns the items of the page
func (r *ComponentsSearchResponse) GetComponents() []Component {
	return r.Components
}
