// Package dirent decodes and classifies 32-byte FAT12 directory entries.
package dirent

import (
	"bytes"
	"encoding/binary"
	"time"

	"github.com/relvacode/fat12nav/layout"
)

// Kind identifies which of the six classifications a directory entry
// record belongs to.
type Kind int

const (
	KindEndOfDirectory Kind = iota
	KindFree
	KindLongNameFragment
	KindVolumeLabel
	KindSubdirectory
	KindRegularFile
)

func (k Kind) String() string {
	switch k {
	case KindEndOfDirectory:
		return "EndOfDirectory"
	case KindFree:
		return "Free"
	case KindLongNameFragment:
		return "LongNameFragment"
	case KindVolumeLabel:
		return "VolumeLabel"
	case KindSubdirectory:
		return "Subdirectory"
	case KindRegularFile:
		return "RegularFile"
	default:
		return "Unknown"
	}
}

// Record is the decoded, classified form of one 32-byte directory entry.
// Only the fields relevant to the Kind are meaningful; e.g. FirstCluster
// and Size are zero for EndOfDirectory, Free, and LongNameFragment
// records.
type Record struct {
	Kind Kind

	// Name and Ext are the trimmed (trailing-space-stripped) 8.3 name
	// components. VolumeLabel records store the full 11-byte label in
	// Name with no Ext.
	Name string
	Ext  string

	FirstCluster uint16
	Size         uint32
	CreatedAt    time.Time
}

// DisplayName joins Name and Ext with a single '.', or returns Name alone
// if there is no extension.
func (r Record) DisplayName() string {
	if r.Ext == "" {
		return r.Name
	}
	return r.Name + "." + r.Ext
}

// dateParts unpacks a FAT date field: bits 9-15 years since 1980,
// bits 5-8 month, bits 0-4 day.
func dateParts(date uint16) (year int, month time.Month, day int) {
	year = int((date>>9)&0x7F) + 1980
	month = time.Month((date >> 5) & 0x0F)
	day = int(date & 0x1F)
	return
}

// timeParts unpacks a FAT time field: bits 11-15 hour, bits 5-10 minute.
// Seconds are not resolved to second precision: the seconds field is
// ignored as minute resolution is sufficient for the report.
func timeParts(t uint16) (hour, minute int) {
	hour = int((t >> 11) & 0x1F)
	minute = int((t >> 5) & 0x3F)
	return
}

// creationTimestamp combines a packed date and time field into a Go
// time.Time, in local time, at minute resolution.
func creationTimestamp(date, t uint16) time.Time {
	year, month, day := dateParts(date)
	hour, minute := timeParts(t)
	return time.Date(year, month, day, hour, minute, 0, 0, time.Local)
}

func trimSpacePadded(b []byte) string {
	return string(bytes.TrimRight(b, " "))
}

// Classify decodes and classifies a single 32-byte directory entry slice.
// Classification is total: every input maps to exactly one Kind, checked
// in first-match-wins order.
//
// entry must be exactly layout.DirentSize (32) bytes; callers are expected
// to slice sectors into fixed-size chunks before calling this.
func Classify(entry []byte) Record {
	if entry[0] == layout.EntryEndMarker {
		return Record{Kind: KindEndOfDirectory}
	}
	if entry[0] == layout.EntryFreeMarker {
		return Record{Kind: KindFree}
	}

	attr := entry[layout.DirentAttributeOffset]
	if attr == layout.AttrLongName {
		return Record{Kind: KindLongNameFragment}
	}

	firstCluster := binary.LittleEndian.Uint16(
		entry[layout.DirentFirstClusterOffset : layout.DirentFirstClusterOffset+2])
	size := binary.LittleEndian.Uint32(
		entry[layout.DirentFileSizeOffset : layout.DirentFileSizeOffset+4])

	name := trimSpacePadded(entry[layout.DirentNameOffset : layout.DirentNameOffset+layout.DirentNameLength])
	ext := trimSpacePadded(entry[layout.DirentExtOffset : layout.DirentExtOffset+layout.DirentExtLength])

	if attr&layout.AttrVolumeLabel != 0 && attr&layout.AttrSubdir == 0 {
		label := trimSpacePadded(entry[layout.DirentNameOffset : layout.DirentExtOffset+layout.DirentExtLength])
		return Record{Kind: KindVolumeLabel, Name: label}
	}

	createdAt := creationTimestamp(
		binary.LittleEndian.Uint16(entry[layout.DirentCreatedDateOffset:layout.DirentCreatedDateOffset+2]),
		binary.LittleEndian.Uint16(entry[layout.DirentCreatedTimeOffset:layout.DirentCreatedTimeOffset+2]),
	)

	kind := KindRegularFile
	if attr&layout.AttrSubdir != 0 {
		kind = KindSubdirectory
	}

	record := Record{
		Kind:         kind,
		Name:         name,
		Ext:          ext,
		FirstCluster: firstCluster,
		Size:         size,
		CreatedAt:    createdAt,
	}

	// A Subdirectory or RegularFile whose first logical cluster is 0 or 1
	// is downgraded to Free, since those cluster values are reserved and
	// such an entry cannot be a legitimate traversable object.
	if firstCluster == 0 || firstCluster == 1 {
		return Record{Kind: KindFree}
	}

	return record
}
