// Package fat12nav is a read-only parser and navigator for FAT12 disk
// images: the classic 1.44 MiB floppy layout of 512-byte sectors, a single
// boot sector, two FAT copies, a fixed-size root directory, and a data
// region.
//
// It exposes three reports built on top of the lower-level decoders in the
// bootsector, fatalloc, dirent, image, and walk subpackages: a geometry and
// volume summary, a recursive file listing, and a directory-only tree.
package fat12nav

import (
	"fmt"
	"strings"

	"github.com/relvacode/fat12nav/bootsector"
	"github.com/relvacode/fat12nav/dirent"
	"github.com/relvacode/fat12nav/fatalloc"
	"github.com/relvacode/fat12nav/geometrydb"
	"github.com/relvacode/fat12nav/image"
	"github.com/relvacode/fat12nav/layout"
	"github.com/relvacode/fat12nav/walk"
)

// Image is an opened FAT12 disk image, ready to produce reports. It is not
// safe to share a single Image across goroutines.
type Image struct {
	reader *image.Reader
	geo    bootsector.Geometry
	fat    fatalloc.Table
}

// Open decodes the boot sector and FAT of a byte-addressable image blob.
// The returned Image is valid for the lifetime of the caller's reference
// to data; no decoded record aliases into data after Open returns.
func Open(data []byte) (*Image, error) {
	r := image.New(data)

	geo, err := bootsector.Decode(r)
	if err != nil {
		return nil, err
	}

	fat, err := fatalloc.Decode(r, geo)
	if err != nil {
		return nil, err
	}

	return &Image{reader: r, geo: geo, fat: fat}, nil
}

// Summary is the volume summary report: OS name, label, size and
// file-system geometry.
type Summary struct {
	OSName        string
	Label         string
	FormFactor    string
	TotalBytes    uint64
	FreeBytes     uint64
	FileCount     int
	SectorsPerFAT uint16
	NumFATCopies  uint8
}

// String renders the summary as one "<label>: <value>" line per field, in
// the given order. FormFactor is not rendered.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "OS Name: %s\n", s.OSName)
	fmt.Fprintf(&b, "Label of the disk: %s\n", s.Label)
	fmt.Fprintf(&b, "Total size of the disk: %d\n", s.TotalBytes)
	fmt.Fprintf(&b, "Free size of the disk: %d\n", s.FreeBytes)
	fmt.Fprintf(&b, "Number of files in the disk: %d\n", s.FileCount)
	fmt.Fprintf(&b, "Number of sectors per FAT: %d\n", s.SectorsPerFAT)
	fmt.Fprintf(&b, "Number of FAT copies: %d\n", s.NumFATCopies)
	return b.String()
}

// summaryVisitor collects the data the volume summary report needs from a
// single full walk: the file count and, if the boot sector didn't carry
// one, the root directory's volume label.
type summaryVisitor struct {
	fileCount     int
	rootLabel     string
	haveRootLabel bool
}

func (v *summaryVisitor) EnterDirectory(name string, depth int) bool { return false }

func (v *summaryVisitor) Visit(rec dirent.Record, depth int) bool {
	switch rec.Kind {
	case dirent.KindRegularFile:
		v.fileCount++
	case dirent.KindVolumeLabel:
		if !v.haveRootLabel {
			v.rootLabel = rec.Name
			v.haveRootLabel = true
		}
	}
	return false
}

// BuildSummary assembles the geometry and volume summary report.
func (img *Image) BuildSummary() (Summary, error) {
	v := &summaryVisitor{}
	if err := walk.Walk(img.reader, img.geo, v); err != nil {
		return Summary{}, err
	}

	label := img.geo.LabelTrimmed()
	if img.geo.LabelAbsent {
		label = v.rootLabel
	}

	totalBytes := img.geo.TotalBytes()

	return Summary{
		OSName:        img.geo.OSNameTrimmed(),
		Label:         label,
		FormFactor:    geometrydb.Label(int64(totalBytes)),
		TotalBytes:    totalBytes,
		FreeBytes:     uint64(img.fat.FreeClusterCount()) * layout.SectorSize,
		FileCount:     v.fileCount,
		SectorsPerFAT: img.geo.SectorsPerFAT,
		NumFATCopies:  img.geo.NumFATCopies,
	}, nil
}

// listingVisitor renders the pre-order file listing: a "<name>\n<50
// dashes>" header per directory, followed by one fixed-width line per
// regular file.
type listingVisitor struct {
	b strings.Builder
}

func (v *listingVisitor) EnterDirectory(name string, depth int) bool {
	fmt.Fprintf(&v.b, "%s\n%s\n", name, strings.Repeat("-", 50))
	return false
}

func (v *listingVisitor) Visit(rec dirent.Record, depth int) bool {
	if rec.Kind != dirent.KindRegularFile {
		return false
	}
	fmt.Fprintf(&v.b, "F  %-10d  %-12s  %s\n",
		rec.Size, rec.DisplayName(), rec.CreatedAt.Format("2006-01-02 15:04"))
	return false
}

// BuildListing assembles the recursive file listing report.
func (img *Image) BuildListing() (string, error) {
	v := &listingVisitor{}
	if err := walk.Walk(img.reader, img.geo, v); err != nil {
		return "", err
	}
	return v.b.String(), nil
}

// treeVisitor renders only directory headers, in pre-order, omitting file
// lines entirely.
type treeVisitor struct {
	b strings.Builder
}

func (v *treeVisitor) EnterDirectory(name string, depth int) bool {
	fmt.Fprintf(&v.b, "%s%s\n", strings.Repeat("  ", depth), name)
	return false
}

func (v *treeVisitor) Visit(rec dirent.Record, depth int) bool { return false }

// BuildTree assembles the directory-only tree report.
func (img *Image) BuildTree() (string, error) {
	v := &treeVisitor{}
	if err := walk.Walk(img.reader, img.geo, v); err != nil {
		return "", err
	}
	return v.b.String(), nil
}

// IsClusterFree exposes the decoded FAT allocation table for callers that
// want to inspect individual clusters rather than only the aggregate free
// count, e.g. diagnostics.
func (img *Image) IsClusterFree(cluster uint) bool {
	return img.fat.IsClusterFree(cluster)
}
