// Package walk implements the recursive (iteratively, via an explicit
// stack) directory-tree traversal over a FAT12 image.
package walk

import (
	"github.com/relvacode/fat12nav/bootsector"
	"github.com/relvacode/fat12nav/dirent"
	"github.com/relvacode/fat12nav/errs"
	"github.com/relvacode/fat12nav/image"
	"github.com/relvacode/fat12nav/layout"
)

// MaxDepth bounds directory recursion so a pathological or cyclic image
// can't run the walker forever.
const MaxDepth = 64

// Visitor receives callbacks in pre-order as the walker descends the
// directory tree: a directory's own header is announced via EnterDirectory
// before any of its live records are announced via Visit, and a
// subdirectory's header is announced (as part of its parent's record
// stream) before the walker recurses into it.
//
// Returning stop=true from either method unwinds the traversal immediately
// without issuing any further reads.
type Visitor interface {
	EnterDirectory(name string, depth int) (stop bool)
	Visit(rec dirent.Record, depth int) (stop bool)
}

type extent struct {
	startByte    uint64
	totalSectors uint64
}

type frame struct {
	extent
	name           string
	depth          int
	sectorIdx      uint64
	entryIdx       int
	sectorData     []byte
	endOfDirectory bool
}

// Walk traverses the root directory and every subdirectory reachable from
// it, in pre-order, invoking visitor for each live record.
func Walk(r *image.Reader, geo bootsector.Geometry, visitor Visitor) error {
	root := &frame{
		extent: extent{
			startByte:    uint64(layout.RootDirStartSector) * layout.SectorSize,
			totalSectors: layout.RootDirLengthSectors,
		},
		name:  "Root",
		depth: 0,
	}

	visited := map[extent]bool{root.extent: true}
	stack := []*frame{root}

	if visitor.EnterDirectory(root.name, root.depth) {
		return nil
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]

		if top.endOfDirectory || top.sectorIdx >= top.totalSectors {
			stack = stack[:len(stack)-1]
			continue
		}

		if top.entryIdx == 0 {
			sector, err := r.ReadSector(top.startByte/layout.SectorSize + top.sectorIdx)
			if err != nil {
				return err
			}
			top.sectorData = sector
		}

		offset := top.entryIdx * layout.DirentSize
		entryBytes := top.sectorData[offset : offset+layout.DirentSize]
		rec := dirent.Classify(entryBytes)

		top.entryIdx++
		if top.entryIdx >= layout.EntriesPerSector {
			top.entryIdx = 0
			top.sectorIdx++
		}

		switch rec.Kind {
		case dirent.KindEndOfDirectory:
			top.endOfDirectory = true

		case dirent.KindFree, dirent.KindLongNameFragment:
			// skip

		case dirent.KindVolumeLabel:
			// A volume label is only meaningful in the root directory;
			// subdirectory volume labels are ignored.
			if top.depth == 0 {
				if visitor.Visit(rec, top.depth) {
					return nil
				}
			}

		case dirent.KindRegularFile:
			if visitor.Visit(rec, top.depth) {
				return nil
			}

		case dirent.KindSubdirectory:
			// "." and ".." are filtered both by the first-logical-cluster
			// defence in dirent.Classify and by name: ".." of a direct
			// child of root has first_cluster 0 and is already caught
			// there, but "." always points at the directory's own
			// (valid) cluster and must be filtered by name instead.
			if len(rec.Name) > 0 && rec.Name[0] == '.' {
				continue
			}

			if visitor.Visit(rec, top.depth) {
				return nil
			}

			if top.depth+1 > MaxDepth {
				return errs.DirectoryTooDeep.WithMessage(rec.DisplayName())
			}

			childExtent := extent{
				startByte:    layout.ClusterToSector(rec.FirstCluster) * layout.SectorSize,
				totalSectors: layout.SectorsForSize(rec.Size),
			}
			if visited[childExtent] {
				// Cycle guard: a conforming FAT12 tree is acyclic, but
				// non-conforming images must not hang the walker.
				continue
			}
			visited[childExtent] = true

			child := &frame{
				extent: childExtent,
				name:   rec.DisplayName(),
				depth:  top.depth + 1,
			}
			if visitor.EnterDirectory(child.name, child.depth) {
				return nil
			}
			stack = append(stack, child)
		}
	}

	return nil
}
