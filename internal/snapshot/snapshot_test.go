package snapshot

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/rulekeeper/internal/models"
)

func TestSealOpen_Small(t *testing.T) {
	payload := []byte("small payload")

	sealed := Seal(payload)
	assert.Equal(t, byte(0), sealed[len(magic)+1], "small payload should not be compressed")

	got, err := Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestSealOpen_Compressed(t *testing.T) {
	payload := []byte(strings.Repeat("<p>rule description</p>", 200))

	sealed := Seal(payload)
	assert.Equal(t, byte(flagZstd), sealed[len(magic)+1])
	assert.Less(t, len(sealed), len(payload))

	got, err := Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestOpen_Corrupt(t *testing.T) {
	sealed := Seal([]byte("payload"))

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "truncated header", data: sealed[:10]},
		{name: "bad magic", data: append([]byte("XXXX"), sealed[4:]...)},
		{name: "bad version", data: func() []byte {
			b := append([]byte(nil), sealed...)
			b[len(magic)] = 99
			return b
		}()},
		{name: "flipped payload byte", data: func() []byte {
			b := append([]byte(nil), sealed...)
			b[len(b)-1] ^= 0xff
			return b
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(tt.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrCorrupt)
		})
	}
}

func TestChecksum_StableForSameContent(t *testing.T) {
	a, err := Checksum(Seal([]byte("same")))
	require.NoError(t, err)
	b, err := Checksum(Seal([]byte("same")))
	require.NoError(t, err)
	c, err := Checksum(Seal([]byte("other")))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestChecksum_FlippedPayloadByte(t *testing.T) {
	sealed := Seal([]byte("payload"))
	sealed[len(sealed)-1] ^= 0xff

	_, err := Checksum(sealed)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestProjectListCodec_RoundTrip(t *testing.T) {
	list := models.NewProjectList()
	list.Put(models.Project{Key: "proj1", Name: "Project One"})
	list.Put(models.Project{Key: "proj2", Name: "Project Two"})

	got, err := ProjectListCodec.Unmarshal(ProjectListCodec.Marshal(list))
	require.NoError(t, err)
	assert.Equal(t, list, got)
}

func TestProjectListCodec_EmptyIsValid(t *testing.T) {
	data := ProjectListCodec.Marshal(models.NewProjectList())

	got, err := ProjectListCodec.Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
	assert.NotNil(t, got.ProjectsByKey)
}

func TestProjectListCodec_Deterministic(t *testing.T) {
	build := func(order []string) *models.ProjectList {
		l := models.NewProjectList()
		for _, k := range order {
			l.Put(models.Project{Key: k, Name: strings.ToUpper(k)})
		}
		return l
	}

	// Порядок вставки не должен влиять на байты snapshot
	a := ProjectListCodec.Marshal(build([]string{"a", "b", "c"}))
	b := ProjectListCodec.Marshal(build([]string{"c", "a", "b"}))
	assert.Equal(t, a, b)
}

func TestModuleListCodec_RoundTrip(t *testing.T) {
	list := models.NewModuleList()
	list.Put(models.Module{Key: "mod1", Name: "Module 1", Qualifier: models.QualifierProject})
	list.Put(models.Module{Key: "mod1:sub", Name: "Sub", Qualifier: models.QualifierBranch})

	got, err := ModuleListCodec.Unmarshal(ModuleListCodec.Marshal(list))
	require.NoError(t, err)
	assert.Equal(t, list, got)
}

func TestRuleCatalogCodec_RoundTrip(t *testing.T) {
	catalog := models.NewRuleCatalog()
	for i := 0; i < 50; i++ {
		catalog.Put(models.Rule{
			Key:             fmt.Sprintf("java:S%d", i),
			Repository:      "java",
			Name:            fmt.Sprintf("Rule %d", i),
			HTMLDescription: strings.Repeat("<p>description</p>", 10),
			Severity:        models.SeverityMajor,
			Language:        "java",
		})
	}

	got, err := RuleCatalogCodec.Unmarshal(RuleCatalogCodec.Marshal(catalog))
	require.NoError(t, err)
	assert.Equal(t, catalog, got)
}

func TestActiveRulesCodec_RoundTrip(t *testing.T) {
	active := models.NewActiveRules("mod1")
	active.Put(models.ActiveRule{RuleKey: "text:LineLength", Severity: models.SeverityMinor, Language: "text"})

	got, err := ActiveRulesCodec.Unmarshal(ActiveRulesCodec.Marshal(active))
	require.NoError(t, err)
	assert.Equal(t, active, got)
}

func TestPluginIndexCodec_RoundTrip(t *testing.T) {
	index := models.NewPluginIndex()
	index.Put(models.Plugin{Key: "text", Name: "Text", Version: "2.1", Hash: "abc"})

	got, err := PluginIndexCodec.Unmarshal(PluginIndexCodec.Marshal(index))
	require.NoError(t, err)
	assert.Equal(t, index, got)
}

func TestStatusCodecs_RoundTrip(t *testing.T) {
	global := &models.GlobalSyncStatus{ServerID: "srv", ServerVersion: "9.9", LastSyncTimestamp: 1700000000123}
	gotGlobal, err := GlobalSyncStatusCodec.Unmarshal(GlobalSyncStatusCodec.Marshal(global))
	require.NoError(t, err)
	assert.Equal(t, global, gotGlobal)

	module := &models.ModuleSyncStatus{ModuleKey: "mod1", LastSyncTimestamp: 42}
	gotModule, err := ModuleSyncStatusCodec.Unmarshal(ModuleSyncStatusCodec.Marshal(module))
	require.NoError(t, err)
	assert.Equal(t, module, gotModule)

	info := &models.ServerInfo{ID: "srv", Version: "6.3", Status: "UP"}
	gotInfo, err := ServerInfoCodec.Unmarshal(ServerInfoCodec.Marshal(info))
	require.NoError(t, err)
	assert.Equal(t, info, gotInfo)
}

func TestCodec_UnmarshalCorrupt(t *testing.T) {
	_, err := RuleCatalogCodec.Unmarshal([]byte("definitely not a snapshot"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.Contains(t, err.Error(), "rule catalog")

	// Валидный envelope, но payload не является protobuf
	_, err = RuleCatalogCodec.Unmarshal(Seal([]byte{0x0a, 0xff}))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorrupt)
}
