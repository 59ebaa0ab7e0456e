package walk_test

import (
	"testing"
	"time"

	"github.com/relvacode/fat12nav/bootsector"
	"github.com/relvacode/fat12nav/dirent"
	"github.com/relvacode/fat12nav/image"
	"github.com/relvacode/fat12nav/internal/synth"
	"github.com/relvacode/fat12nav/walk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingVisitor struct {
	entered []string
	records []dirent.Record
}

func (v *recordingVisitor) EnterDirectory(name string, depth int) bool {
	v.entered = append(v.entered, name)
	return false
}

func (v *recordingVisitor) Visit(rec dirent.Record, depth int) bool {
	v.records = append(v.records, rec)
	return false
}

func decodeGeo(t *testing.T, r *image.Reader) bootsector.Geometry {
	t.Helper()
	geo, err := bootsector.Decode(r)
	require.NoError(t, err)
	return geo
}

func TestWalk_EmptyRoot(t *testing.T) {
	b := synth.New(2880, 9, 2, "MSDOS5.0")
	r := image.New(b.Bytes())
	geo := decodeGeo(t, r)

	v := &recordingVisitor{}
	require.NoError(t, walk.Walk(r, geo, v))

	assert.Equal(t, []string{"Root"}, v.entered)
	assert.Empty(t, v.records)
}

func TestWalk_SingleFileInRoot(t *testing.T) {
	b := synth.New(2880, 9, 2, "MSDOS5.0")
	b.WriteDirEntry(b.RootDirStartByte(), 0, synth.DirEntryOptions{
		Name:         "HELLO",
		Ext:          "TXT",
		FirstCluster: 2,
		Size:         1024,
		Created:      time.Date(2017, time.January, 1, 12, 0, 0, 0, time.Local),
	})

	r := image.New(b.Bytes())
	geo := decodeGeo(t, r)

	v := &recordingVisitor{}
	require.NoError(t, walk.Walk(r, geo, v))

	require.Len(t, v.records, 1)
	assert.Equal(t, dirent.KindRegularFile, v.records[0].Kind)
	assert.Equal(t, "HELLO.TXT", v.records[0].DisplayName())
	assert.EqualValues(t, 1024, v.records[0].Size)
}

func TestWalk_SubdirectoryIsTraversedPreOrder(t *testing.T) {
	b := synth.New(2880, 9, 2, "MSDOS5.0")
	b.WriteDirEntry(b.RootDirStartByte(), 0, synth.DirEntryOptions{
		Name:         "SUB",
		Attribute:    0x10,
		FirstCluster: 3,
		Size:         512,
	})
	b.WriteDirEntry(b.RootDirStartByte(), 1, synth.DirEntryOptions{
		Name:         "TOPLEVL",
		Ext:          "TXT",
		FirstCluster: 4,
		Size:         10,
	})
	b.WriteDirEntry(b.ClusterStartByte(3), 0, synth.DirEntryOptions{
		Name:         "INSUB",
		Ext:          "TXT",
		FirstCluster: 5,
		Size:         20,
	})

	r := image.New(b.Bytes())
	geo := decodeGeo(t, r)

	v := &recordingVisitor{}
	require.NoError(t, walk.Walk(r, geo, v))

	assert.Equal(t, []string{"Root", "SUB"}, v.entered)
	require.Len(t, v.records, 3)
	assert.Equal(t, dirent.KindSubdirectory, v.records[0].Kind)
	assert.Equal(t, "INSUB.TXT", v.records[1].DisplayName())
	assert.Equal(t, "TOPLEVL.TXT", v.records[2].DisplayName())
}

func TestWalk_DotEntriesAreNotTraversed(t *testing.T) {
	b := synth.New(2880, 9, 2, "MSDOS5.0")
	b.WriteDirEntry(b.RootDirStartByte(), 0, synth.DirEntryOptions{
		Name:         "SUB",
		Attribute:    0x10,
		FirstCluster: 3,
		Size:         1024,
	})
	// "." points back at SUB's own (valid, non-reserved) cluster.
	b.WriteDirEntry(b.ClusterStartByte(3), 0, synth.DirEntryOptions{
		Name:         ".",
		Attribute:    0x10,
		FirstCluster: 3,
	})
	b.WriteDirEntry(b.ClusterStartByte(3), 1, synth.DirEntryOptions{
		Name:         "REAL",
		Ext:          "TXT",
		FirstCluster: 5,
		Size:         1,
	})

	r := image.New(b.Bytes())
	geo := decodeGeo(t, r)

	v := &recordingVisitor{}
	require.NoError(t, walk.Walk(r, geo, v))

	// Only SUB (as a record) and REAL should be visited; "." must not
	// cause re-entry into SUB.
	require.Len(t, v.records, 2)
	assert.Equal(t, "REAL.TXT", v.records[1].DisplayName())
	assert.Equal(t, []string{"Root", "SUB"}, v.entered)
}

func TestWalk_StopSignalHaltsTraversal(t *testing.T) {
	b := synth.New(2880, 9, 2, "MSDOS5.0")
	b.WriteDirEntry(b.RootDirStartByte(), 0, synth.DirEntryOptions{
		Name: "A", Ext: "TXT", FirstCluster: 2, Size: 1,
	})
	b.WriteDirEntry(b.RootDirStartByte(), 1, synth.DirEntryOptions{
		Name: "B", Ext: "TXT", FirstCluster: 3, Size: 1,
	})

	r := image.New(b.Bytes())
	geo := decodeGeo(t, r)

	v := &stoppingVisitor{}
	require.NoError(t, walk.Walk(r, geo, v))
	assert.Len(t, v.records, 1)
}

type stoppingVisitor struct {
	records []dirent.Record
}

func (v *stoppingVisitor) EnterDirectory(name string, depth int) bool { return false }

func (v *stoppingVisitor) Visit(rec dirent.Record, depth int) bool {
	v.records = append(v.records, rec)
	return true
}
