package api

import (
	"github.com/iudanet/rulekeeper/internal/protoutil"
	"google.golang.org/protobuf/encoding/protowire"
)

// Paging метаданные страницы постраничного ответа.
// Wire: pageIndex=1, pageSize=2, total=3.
type Paging struct {
	PageIndex int
	PageSize  int
	Total     int
}

// Marshal encodes paging as a protobuf message
func (p Paging) Marshal() []byte {
	var b []byte
	b = protoutil.AppendInt64(b, 1, int64(p.PageIndex))
	b = protoutil.AppendInt64(b, 2, int64(p.PageSize))
	b = protoutil.AppendInt64(b, 3, int64(p.Total))
	return b
}

// UnmarshalPaging decodes a paging message
func UnmarshalPaging(b []byte) (Paging, error) {
	var p Paging
	err := protoutil.Walk(b, func(f protoutil.Field) error {
		switch f.Num {
		case 1:
			p.PageIndex = f.Int()
		case 2:
			p.PageSize = f.Int()
		case 3:
			p.Total = f.Int()
		}
		return nil
	})
	return p, err
}

const fieldPaging protowire.Number = 1
