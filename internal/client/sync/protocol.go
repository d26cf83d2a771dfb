package sync

import (
	"fmt"

	"github.com/iudanet/rulekeeper/internal/version"
)

// Protocol selects the server endpoint used to list components
type Protocol int

const (
	// ProtocolLegacy api/projects/index, a single JSON response
	ProtocolLegacy Protocol = iota
	// ProtocolModern api/components/search.protobuf, paginated
	ProtocolModern
)

func (p Protocol) String() string {
	if p == ProtocolModern {
		return "modern"
	}
	return "legacy"
}

var (
	// ComponentsSearchVersion первая версия сервера с api/components/search
	ComponentsSearchVersion = version.MustParse("6.3")

	// MinSupportedVersion минимальная поддерживаемая версия сервера
	MinSupportedVersion = version.MustParse("5.6")
)

// SelectProtocol chooses the listing protocol for the advertised server version.
// The version qualifier is ignored, so "6.3-SNAPSHOT" selects ProtocolModern.
func SelectProtocol(serverVersion string) (Protocol, error) {
	v, err := version.Parse(serverVersion)
	if err != nil {
		return ProtocolLegacy, fmt.Errorf("failed to parse server version: %w", err)
	}
	if v.AtLeast(ComponentsSearchVersion) {
		return ProtocolModern, nil
	}
	return ProtocolLegacy, nil
}
