package dirent_test

import (
	"testing"
	"time"

	"github.com/relvacode/fat12nav/dirent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeEntry(t *testing.T) []byte {
	t.Helper()
	return make([]byte, 32)
}

func TestClassify_EndOfDirectory(t *testing.T) {
	entry := makeEntry(t)
	entry[0] = 0x00

	rec := dirent.Classify(entry)
	assert.Equal(t, dirent.KindEndOfDirectory, rec.Kind)
}

func TestClassify_Free(t *testing.T) {
	entry := makeEntry(t)
	entry[0] = 0xE5

	rec := dirent.Classify(entry)
	assert.Equal(t, dirent.KindFree, rec.Kind)
}

func TestClassify_LongNameFragment(t *testing.T) {
	entry := makeEntry(t)
	entry[0] = 'X'
	entry[11] = 0x0F

	rec := dirent.Classify(entry)
	assert.Equal(t, dirent.KindLongNameFragment, rec.Kind)
}

func TestClassify_VolumeLabel(t *testing.T) {
	entry := makeEntry(t)
	copy(entry[0:11], []byte("MYDISK     "))
	entry[11] = 0x08

	rec := dirent.Classify(entry)
	require.Equal(t, dirent.KindVolumeLabel, rec.Kind)
	assert.Equal(t, "MYDISK", rec.Name)
}

func TestClassify_Subdirectory(t *testing.T) {
	entry := makeEntry(t)
	copy(entry[0:8], []byte("SUB     "))
	entry[11] = 0x10
	entry[26] = 3 // first cluster low byte
	entry[28] = 0
	entry[29] = 2 // size = 512

	rec := dirent.Classify(entry)
	require.Equal(t, dirent.KindSubdirectory, rec.Kind)
	assert.Equal(t, "SUB", rec.Name)
	assert.EqualValues(t, 3, rec.FirstCluster)
	assert.EqualValues(t, 512, rec.Size)
}

func TestClassify_RegularFile(t *testing.T) {
	entry := makeEntry(t)
	copy(entry[0:8], []byte("HELLO   "))
	copy(entry[8:11], []byte("TXT"))
	entry[26] = 2 // first cluster = 2

	rec := dirent.Classify(entry)
	require.Equal(t, dirent.KindRegularFile, rec.Kind)
	assert.Equal(t, "HELLO.TXT", rec.DisplayName())
}

func TestClassify_FirstClusterZeroOrOneDowngradesToFree(t *testing.T) {
	for _, cluster := range []uint16{0, 1} {
		entry := makeEntry(t)
		copy(entry[0:8], []byte("NAME    "))
		entry[26] = byte(cluster)

		rec := dirent.Classify(entry)
		assert.Equal(t, dirent.KindFree, rec.Kind, "cluster %d should downgrade to Free", cluster)
	}
}

func TestClassify_CreationTimestamp(t *testing.T) {
	entry := makeEntry(t)
	copy(entry[0:8], []byte("HELLO   "))
	entry[26] = 2

	// Date LE16 = 0x4A21, Time LE16 = 0x6000 -> 2017-01-01 12:00
	entry[16] = 0x21
	entry[17] = 0x4A
	entry[14] = 0x00
	entry[15] = 0x60

	rec := dirent.Classify(entry)
	require.Equal(t, dirent.KindRegularFile, rec.Kind)
	expected := time.Date(2017, time.January, 1, 12, 0, 0, 0, time.Local)
	assert.True(t, rec.CreatedAt.Equal(expected), "got %s want %s", rec.CreatedAt, expected)
}

func TestClassify_IsTotal(t *testing.T) {
	// Every classification must land in exactly one of the known kinds;
	// there is no "unclassifiable" outcome.
	cases := [][]byte{
		{0x00},
		{0xE5},
	}
	for _, c := range cases {
		entry := makeEntry(t)
		copy(entry, c)
		rec := dirent.Classify(entry)
		assert.Contains(t, []dirent.Kind{
			dirent.KindEndOfDirectory,
			dirent.KindFree,
			dirent.KindLongNameFragment,
			dirent.KindVolumeLabel,
			dirent.KindSubdirectory,
			dirent.KindRegularFile,
		}, rec.Kind)
	}
}
