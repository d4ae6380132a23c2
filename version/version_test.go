package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortCommitAndShort(t *testing.T) {
	info := Info{Version: "0.1.0", GitCommit: "0123456789abcdef", GitTreeDirty: true}
	assert.Equal(t, "0123456", info.ShortCommit())
	assert.Equal(t, "0.1.0+0123456-dirty", info.Short())

	info = Info{Version: "0.1.0"}
	assert.Equal(t, "0.1.0", info.Short())
}

func TestFormattedTime(t *testing.T) {
	assert.Equal(t, "unknown", Info{}.FormattedTime())
	assert.Equal(t, "not a time", Info{GitCommitTime: "not a time"}.FormattedTime())
	assert.Equal(t, "2024-01-02 03:04:05 UTC", Info{GitCommitTime: "2024-01-02T03:04:05Z"}.FormattedTime())
}

func TestString(t *testing.T) {
	info := Info{Version: "0.1.0", GitCommit: "abcdef0123", GoVersion: "go1.23.0"}
	s := info.String()
	assert.True(t, strings.HasPrefix(s, "solcpipe version 0.1.0\n"))
	assert.Contains(t, s, "Commit:     abcdef0")
	assert.Contains(t, s, "Go version: go1.23.0")
	assert.NotContains(t, s, "Built:")
}
