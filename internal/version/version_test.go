package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func restoreVars(t *testing.T) {
	t.Helper()
	v, r, b := Version, Revision, BuildDate
	t.Cleanup(func() {
		Version, Revision, BuildDate = v, r, b
	})
}

func TestVersionStrings(t *testing.T) {
	assert.NotEmpty(t, Version)
	assert.NotEmpty(t, Revision)

	assert.Contains(t, Short(), Version)
	assert.Contains(t, Short(), Revision)
	assert.True(t, strings.HasPrefix(ShortWithApp(), "StatusAPI "))

	detailed := Detailed()
	assert.Contains(t, detailed, Version)
	assert.Contains(t, detailed, "/")
	assert.True(t, strings.HasPrefix(DetailedWithApp(), AppName+" "))
}

func TestCurrent(t *testing.T) {
	restoreVars(t)
	Version, Revision, BuildDate = "1.0.0", "abc123", "2025-01-01T00:00:00Z"

	i := Current()
	assert.Equal(t, "StatusAPI", i.App)
	assert.Equal(t, "1.0.0", i.Version)
	assert.Equal(t, "abc123", i.Revision)
	assert.Equal(t, "2025-01-01T00:00:00Z", i.BuildDate)
	assert.NotEmpty(t, i.GoVersion)
	assert.Contains(t, i.Platform, "/")
}

func TestFillFromBuild_DevDefaults(t *testing.T) {
	restoreVars(t)
	Version, Revision, BuildDate = devVersion, "HEAD", ""

	fillFromBuild("v2.1.0", map[string]string{
		"vcs.revision": "abcdef1234567890",
		"vcs.modified": "true",
		"vcs.time":     "2025-12-12T01:00:00Z",
	})

	assert.Equal(t, "2.1.0", Version)
	assert.Equal(t, "abcdef1234567890-dirty", Revision)
	assert.Equal(t, "2025-12-12T01:00:00Z", BuildDate)
}

func TestFillFromBuild_DevelModuleKeepsDevVersion(t *testing.T) {
	restoreVars(t)
	Version, Revision, BuildDate = devVersion, "HEAD", ""

	fillFromBuild("(devel)", map[string]string{})

	assert.Equal(t, devVersion, Version)
	assert.Equal(t, "HEAD", Revision)
	assert.Empty(t, BuildDate)
}

func TestFillFromBuild_LdflagsWin(t *testing.T) {
	restoreVars(t)
	Version, Revision, BuildDate = "1.2.3", "deadbeef", "from-ldflags"

	fillFromBuild("v9.9.9", map[string]string{
		"vcs.revision": "abcdef",
		"vcs.time":     "2025-12-12T01:00:00Z",
	})

	assert.Equal(t, "1.2.3", Version)
	assert.Equal(t, "deadbeef", Revision)
	assert.Equal(t, "from-ldflags", BuildDate)
}
