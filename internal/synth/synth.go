// Package synth builds synthetic FAT12 disk images in memory, for use by
// tests across the module: a fixed-size output buffer wrapped in
// bytewriter.New, filled in with encoding/binary and raw Write calls.
package synth

import (
	"encoding/binary"
	"time"

	"github.com/noxer/bytewriter"
	"github.com/relvacode/fat12nav/layout"
)

// Builder assembles a byte slice shaped like a FAT12 image.
type Builder struct {
	data          []byte
	totalSectors  uint16
	sectorsPerFAT uint16
}

// New allocates a zeroed image of totalSectors sectors and writes the boot
// sector fields common to every test fixture: OEM name, sector/FAT counts,
// and number of FAT copies.
func New(totalSectors, sectorsPerFAT uint16, numFATs uint8, osName string) *Builder {
	b := &Builder{
		data:          make([]byte, int(totalSectors)*layout.SectorSize),
		totalSectors:  totalSectors,
		sectorsPerFAT: sectorsPerFAT,
	}

	w := bytewriter.New(b.data)
	w.Write(make([]byte, layout.OSNameOffset))
	w.Write(padRight(osName, layout.OSNameLength))

	binary.LittleEndian.PutUint16(b.data[layout.TotalSectorCountOffset:], totalSectors)
	b.data[layout.NumFATsOffset] = numFATs
	binary.LittleEndian.PutUint16(b.data[layout.SectorsPerFATOffset:], sectorsPerFAT)

	// Default label: all spaces, i.e. absent, so bootsector.Decode marks it
	// LabelAbsent and the summary report falls back to the root directory's
	// volume-label entry unless overridden.
	copy(b.data[layout.LabelOffset:layout.LabelOffset+layout.LabelLength], padRight("", layout.LabelLength))

	return b
}

// SetLabel writes the boot-sector volume label field directly.
func (b *Builder) SetLabel(label string) *Builder {
	copy(b.data[layout.LabelOffset:layout.LabelOffset+layout.LabelLength], padRight(label, layout.LabelLength))
	return b
}

// SetFATEntry packs a 12-bit value into the cluster'th entry of the first
// FAT copy on the image.
func (b *Builder) SetFATEntry(cluster uint, value uint16) *Builder {
	// Only the first FAT copy is written; the decoder never consults the
	// second.
	fatStart := uint64(layout.FATStartSector) * layout.SectorSize
	byteOffset := fatStart + uint64(cluster/2)*3

	b0, b1, b2 := b.data[byteOffset], b.data[byteOffset+1], b.data[byteOffset+2]
	if cluster%2 == 0 {
		b0 = byte(value)
		b1 = (b1 & 0xF0) | byte((value>>8)&0x0F)
	} else {
		b1 = (b1 & 0x0F) | byte((value&0x0F)<<4)
		b2 = byte(value >> 4)
	}
	b.data[byteOffset], b.data[byteOffset+1], b.data[byteOffset+2] = b0, b1, b2
	return b
}

// DirEntryOptions configures one 32-byte directory entry written by
// WriteDirEntry.
type DirEntryOptions struct {
	Name         string
	Ext          string
	Attribute    byte
	FirstCluster uint16
	Size         uint32
	Created      time.Time
}

// WriteDirEntry writes one directory entry at the given byte offset within
// a directory region (the root directory or a subdirectory's first
// cluster).
func (b *Builder) WriteDirEntry(dirStartByte uint64, index int, opts DirEntryOptions) *Builder {
	offset := dirStartByte + uint64(index)*layout.DirentSize
	entry := b.data[offset : offset+layout.DirentSize]

	copy(entry[layout.DirentNameOffset:], padRight(opts.Name, layout.DirentNameLength))
	copy(entry[layout.DirentExtOffset:], padRight(opts.Ext, layout.DirentExtLength))
	entry[layout.DirentAttributeOffset] = opts.Attribute
	binary.LittleEndian.PutUint16(entry[layout.DirentFirstClusterOffset:], opts.FirstCluster)
	binary.LittleEndian.PutUint32(entry[layout.DirentFileSizeOffset:], opts.Size)

	if !opts.Created.IsZero() {
		date := packDate(opts.Created)
		tm := packTime(opts.Created)
		binary.LittleEndian.PutUint16(entry[layout.DirentCreatedDateOffset:], date)
		binary.LittleEndian.PutUint16(entry[layout.DirentCreatedTimeOffset:], tm)
	}

	return b
}

// RootDirStartByte is the absolute byte offset of the root directory
// region, convenient for WriteDirEntry callers.
func (b *Builder) RootDirStartByte() uint64 {
	return uint64(layout.RootDirStartSector) * layout.SectorSize
}

// ClusterStartByte is the absolute byte offset of the given cluster's
// first sector, convenient for writing subdirectory contents.
func (b *Builder) ClusterStartByte(cluster uint16) uint64 {
	return layout.ClusterToSector(cluster) * layout.SectorSize
}

// Bytes returns the assembled image.
func (b *Builder) Bytes() []byte {
	return b.data
}

func padRight(s string, length int) []byte {
	out := make([]byte, length)
	for i := range out {
		out[i] = ' '
	}
	copy(out, s)
	return out
}

func packDate(t time.Time) uint16 {
	return uint16(((t.Year()-1980)&0x7F)<<9 | (int(t.Month())&0x0F)<<5 | (t.Day() & 0x1F))
}

func packTime(t time.Time) uint16 {
	return uint16((t.Hour()&0x1F)<<11 | (t.Minute()&0x3F)<<5)
}
