package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/rulekeeper/internal/version"
)

func TestSelectProtocol(t *testing.T) {
	tests := []struct {
		version string
		want    Protocol
	}{
		{"6.3", ProtocolModern},
		{"6.3.0", ProtocolModern},
		{"6.3-SNAPSHOT", ProtocolModern},
		{"6.3.0.12345", ProtocolModern},
		{"7.9.1 (build 1234)", ProtocolModern},
		{"10.0", ProtocolModern},
		{"6.2", ProtocolLegacy},
		{"6.2.99-RC1", ProtocolLegacy},
		{"5.6", ProtocolLegacy},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			got, err := SelectProtocol(tt.version)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectProtocol_Unparseable(t *testing.T) {
	_, err := SelectProtocol("latest")
	assert.ErrorIs(t, err, version.ErrUnparseable)
}

func TestProtocol_String(t *testing.T) {
	assert.Equal(t, "modern", ProtocolModern.String())
	assert.Equal(t, "legacy", ProtocolLegacy.String())
}
