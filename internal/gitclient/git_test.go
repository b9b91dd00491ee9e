package gitclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFileDiffLog(t *testing.T) {
	raw := commitDelimiter + "abc123|2025-01-02T03:04:05Z\n" +
		"diff --git a/foo.go b/foo.go\n" +
		"index 1111111..2222222 100644\n" +
		"--- a/foo.go\n" +
		"+++ b/foo.go\n" +
		"@@ -10,2 +10,3 @@\n" +
		"-old line\n" +
		"-old line 2\n" +
		"+new line\n" +
		"+new line 2\n" +
		"+new line 3\n" +
		commitDelimiter + "def456|2025-01-03T03:04:05Z\n" +
		"diff --git a/foo.go b/foo.go\n" +
		"index 2222222..3333333 100644\n" +
		"--- a/foo.go\n" +
		"+++ b/foo.go\n" +
		"@@ -20,0 +21,1 @@\n" +
		"+added\n"

	diffs, err := parseFileDiffLog([]byte(raw))
	require.NoError(t, err)
	require.Len(t, diffs, 2)

	first := diffs[0]
	assert.Equal(t, "abc123", first.CommitSHA)
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), first.CommitTime.UTC())
	require.Len(t, first.Hunks, 1)
	assert.Equal(t, 10, first.Hunks[0].NewStart)
	assert.Equal(t, 3, first.Hunks[0].NewLines)
	assert.Equal(t, 3, first.Hunks[0].LinesAdded)
	assert.Equal(t, 2, first.Hunks[0].LinesDeleted)

	second := diffs[1]
	assert.Equal(t, "def456", second.CommitSHA)
	require.Len(t, second.Hunks, 1)
	assert.Equal(t, 21, second.Hunks[0].NewStart)
	assert.Equal(t, 1, second.Hunks[0].LinesAdded)
	assert.Equal(t, 0, second.Hunks[0].LinesDeleted)
}

func TestParseFileDiffLogEmpty(t *testing.T) {
	diffs, err := parseFileDiffLog(nil)
	require.NoError(t, err)
	assert.Empty(t, diffs)
}

func TestParseCommitFileSets(t *testing.T) {
	raw := commitDelimiter + "abc123|2025-01-02T03:04:05Z\n" +
		"core/a.go\n" +
		"core/b.go\n" +
		"\n" +
		commitDelimiter + "def456|2025-01-03T03:04:05Z\n" +
		"core/a.go\n"

	sets, err := parseCommitFileSets([]byte(raw))
	require.NoError(t, err)
	require.Len(t, sets, 2)

	assert.Equal(t, "abc123", sets[0].CommitSHA)
	assert.Equal(t, []string{"core/a.go", "core/b.go"}, sets[0].Files)
	assert.Equal(t, []string{"core/a.go"}, sets[1].Files)
}

func TestParseCommitFileSetsBadTime(t *testing.T) {
	raw := commitDelimiter + "abc123|not-a-time\nfile.go\n"
	_, err := parseCommitFileSets([]byte(raw))
	assert.Error(t, err)
}
