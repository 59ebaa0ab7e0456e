// Package fatalloc decodes the packed 12-bit File Allocation Table entries
// and answers free/allocated questions about data clusters.
package fatalloc

import (
	"github.com/boljen/go-bitmap"
	"github.com/relvacode/fat12nav/bootsector"
	"github.com/relvacode/fat12nav/errs"
	"github.com/relvacode/fat12nav/image"
	"github.com/relvacode/fat12nav/layout"
)

// Table holds the decoded free/allocated state of every cluster entry in
// the first FAT copy, as a bitmap indexed by cluster number. Entries 0 and
// 1 are reserved and are never marked free.
type Table struct {
	free       bitmap.Bitmap
	numEntries uint
}

// IsClusterFree reports whether the given cluster's FAT entry decoded to
// 0x000. Reserved clusters (0, 1) always report false.
func (t Table) IsClusterFree(cluster uint) bool {
	if cluster < layout.FirstDataCluster || cluster >= t.numEntries {
		return false
	}
	return t.free.Get(int(cluster))
}

// FreeClusterCount returns the number of clusters whose FAT entry is
// 0x000, excluding the two reserved entries.
func (t Table) FreeClusterCount() uint32 {
	var count uint32
	for i := uint(layout.FirstDataCluster); i < t.numEntries; i++ {
		if t.free.Get(int(i)) {
			count++
		}
	}
	return count
}

// entryPair decodes the two 12-bit entries packed into three consecutive
// FAT bytes, using the standard little-endian-nibble layout:
//
//	even = ((b1 & 0x0F) << 8) | b0
//	odd  = (b2 << 4) | ((b1 & 0xF0) >> 4)
//
// A big-endian-nibble extraction is sometimes seen instead; both
// interpretations agree on whether an entry is exactly 0x000 (all three
// bytes are zero either way) but disagree on the decoded value of a
// partially-allocated entry. This decoder always uses the little-endian
// reading.
func entryPair(b0, b1, b2 byte) (even, odd uint16) {
	even = (uint16(b1&0x0F) << 8) | uint16(b0)
	odd = (uint16(b2) << 4) | uint16((b1&0xF0)>>4)
	return even, odd
}

// Decode walks the first FAT copy and builds a Table of free/allocated
// cluster state, skipping the two reserved entries (0 and 1).
//
// Iteration stops once the corresponding data sector for the next cluster
// index would fall outside the image.
func Decode(r *image.Reader, geo bootsector.Geometry) (Table, error) {
	fatStart := uint64(layout.FATStartSector) * layout.SectorSize
	fatLength := int(geo.SectorsPerFAT) * layout.SectorSize

	fatBytes, err := r.ReadAt(fatStart, fatLength)
	if err != nil {
		return Table{}, err
	}

	// Entries run from cluster 2 up to the point where the matching data
	// sector would exceed the image's total sector count.
	maxCluster := uint(layout.FirstDataCluster)
	for layout.DataRegionStartSector+(maxCluster-layout.FirstDataCluster) < uint(geo.TotalSectors) {
		maxCluster++
	}

	table := Table{
		free:       bitmap.New(int(maxCluster)),
		numEntries: maxCluster,
	}

	// Entries are packed two per three bytes, starting logically at index
	// 0 even though clusters 0 and 1 are reserved and never counted.
	for pairStart := uint(0); pairStart < maxCluster; pairStart += 2 {
		byteOffset := (pairStart / 2) * 3
		if int(byteOffset)+3 > len(fatBytes) {
			return Table{}, errs.NewShortRead(fatStart+uint64(byteOffset), 3, len(fatBytes)-int(byteOffset))
		}

		even, odd := entryPair(fatBytes[byteOffset], fatBytes[byteOffset+1], fatBytes[byteOffset+2])

		if idx := pairStart; idx >= layout.FirstDataCluster && idx < maxCluster {
			table.free.Set(int(idx), even == 0x000)
		}
		if idx := pairStart + 1; idx >= layout.FirstDataCluster && idx < maxCluster {
			table.free.Set(int(idx), odd == 0x000)
		}
	}

	return table, nil
}

// Entry decodes a single FAT entry at the given cluster index, for testing
// and diagnostics. It does not consult a previously-decoded Table.
func Entry(r *image.Reader, cluster uint) (uint16, error) {
	byteOffset := uint64(layout.FATStartSector)*layout.SectorSize + uint64(cluster/2)*3
	raw, err := r.ReadAt(byteOffset, 3)
	if err != nil {
		return 0, err
	}

	even, odd := entryPair(raw[0], raw[1], raw[2])
	if cluster%2 == 0 {
		return even, nil
	}
	return odd, nil
}
