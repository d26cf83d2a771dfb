package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentsSearchResponse_MarshalUnmarshal(t *testing.T) {
	page := &ComponentsSearchResponse{
		Paging: Paging{PageIndex: 2, PageSize: 500, Total: 501},
		Components: []Component{
			{Key: "a", Name: "A", Qualifier: "TRK"},
			{Key: "b", Name: "B"},
		},
	}

	decoded, err := UnmarshalComponentsSearchResponse(page.Marshal())
	require.NoError(t, err)
	assert.Equal(t, page.Paging, decoded.GetPaging())
	assert.Equal(t, page.Components, decoded.GetComponents())
}

func TestUnmarshalComponentsSearchResponse_Empty(t *testing.T) {
	decoded, err := UnmarshalComponentsSearchResponse(nil)
	require.NoError(t, err)
	assert.Empty(t, decoded.Components)
	assert.Equal(t, Paging{}, decoded.Paging)
}

func TestUnmarshalComponentsSearchResponse_Garbage(t *testing.T) {
	_, err := UnmarshalComponentsSearchResponse([]byte{0x12, 0xff})
	assert.Error(t, err)
}

func TestRulesSearchResponse_MarshalUnmarshal(t *testing.T) {
	page := &RulesSearchResponse{
		Paging: Paging{PageIndex: 1, PageSize: 500, Total: 1},
		Rules: []Rule{{
			Key:      "text:LineLength",
			Repo:     "text",
			Name:     "Lines should not be too long",
			HTMLDesc: "<p>Keep lines short</p>",
			Severity: "MAJOR",
			Lang:     "text",
		}},
	}

	decoded, err := UnmarshalRulesSearchResponse(page.Marshal())
	require.NoError(t, err)
	assert.Equal(t, page.Paging, decoded.GetPaging())
	assert.Equal(t, page.Rules, decoded.GetRules())
}

func TestErrorResponse_Message(t *testing.T) {
	assert.Equal(t, "boom", NewErrorResponse("boom").Message())
	assert.Equal(t, "", ErrorResponse{}.Message())
}
