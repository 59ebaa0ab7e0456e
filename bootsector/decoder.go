// Package bootsector decodes the fixed-offset fields of a FAT12 boot
// sector (sector 0 of the image).
package bootsector

import (
	"bytes"
	"encoding/binary"

	"github.com/hashicorp/go-multierror"
	"github.com/relvacode/fat12nav/errs"
	"github.com/relvacode/fat12nav/image"
	"github.com/relvacode/fat12nav/layout"
)

// Geometry is the decoded result of a boot sector read: OS name, volume
// label, and the sector/FAT counts needed by the rest of the module.
type Geometry struct {
	// OSName is the raw 8-byte, space-padded OEM/OS name field.
	OSName [layout.OSNameLength]byte

	// Label is the raw 11-byte, space-padded volume label field as found
	// in the boot sector. LabelAbsent reports whether it should be
	// ignored in favor of the root directory's volume-label entry.
	Label       [layout.LabelLength]byte
	LabelAbsent bool

	// TotalSectors is the total sector count for the volume.
	TotalSectors uint16

	// SectorsPerFAT is the number of sectors occupied by a single FAT copy.
	SectorsPerFAT uint16

	// NumFATCopies is the number of FAT copies on the volume.
	NumFATCopies uint8
}

// TotalBytes is TotalSectors expressed in bytes.
func (g Geometry) TotalBytes() uint64 {
	return uint64(g.TotalSectors) * layout.SectorSize
}

// OSNameTrimmed returns the OS name with trailing spaces removed.
func (g Geometry) OSNameTrimmed() string {
	return trimSpacePadded(g.OSName[:])
}

// LabelTrimmed returns the boot-sector label with trailing spaces removed.
// Callers should check LabelAbsent first; this returns "" in that case.
func (g Geometry) LabelTrimmed() string {
	if g.LabelAbsent {
		return ""
	}
	return trimSpacePadded(g.Label[:])
}

func trimSpacePadded(b []byte) string {
	return string(bytes.TrimRight(b, " "))
}

// labelIsAbsent reports whether the boot-sector label field carries no
// label: entirely spaces (0x20) or entirely zero bytes. When absent, the
// caller should fall back to the root directory's volume-label entry.
func labelIsAbsent(label []byte) bool {
	allSpace, allZero := true, true
	for _, b := range label {
		if b != ' ' {
			allSpace = false
		}
		if b != 0 {
			allZero = false
		}
	}
	return allSpace || allZero
}

// Decode reads the boot sector fields out of sector 0. It aggregates every
// corruption check it performs -- rather than failing on the first bad
// field -- so a caller investigating a broken image sees every problem at
// once.
func Decode(r *image.Reader) (Geometry, error) {
	sector, err := r.ReadSector(0)
	if err != nil {
		return Geometry{}, err
	}

	var result *multierror.Error

	var geo Geometry
	copy(geo.OSName[:], sector[layout.OSNameOffset:layout.OSNameOffset+layout.OSNameLength])
	copy(geo.Label[:], sector[layout.LabelOffset:layout.LabelOffset+layout.LabelLength])
	geo.LabelAbsent = labelIsAbsent(geo.Label[:])

	geo.TotalSectors = binary.LittleEndian.Uint16(
		sector[layout.TotalSectorCountOffset : layout.TotalSectorCountOffset+layout.TotalSectorCountLength])
	geo.SectorsPerFAT = binary.LittleEndian.Uint16(
		sector[layout.SectorsPerFATOffset : layout.SectorsPerFATOffset+layout.SectorsPerFATLength])
	geo.NumFATCopies = sector[layout.NumFATsOffset]

	if geo.TotalSectors == 0 {
		result = multierror.Append(result, errs.ShortRead.WithMessage("total sector count is zero"))
	}
	if geo.SectorsPerFAT == 0 {
		result = multierror.Append(result, errs.ShortRead.WithMessage("sectors per FAT is zero"))
	}
	if geo.NumFATCopies == 0 {
		result = multierror.Append(result, errs.ShortRead.WithMessage("number of FAT copies is zero"))
	}
	if uint64(geo.TotalSectors)*layout.SectorSize < uint64(layout.DataRegionStartSector)*layout.SectorSize {
		result = multierror.Append(result, errs.ShortRead.WithMessage(
			"total sector count is smaller than the fixed boot/FAT/root regions"))
	}

	if result.ErrorOrNil() != nil {
		return Geometry{}, errs.ShortRead.WrapError(result)
	}

	return geo, nil
}
