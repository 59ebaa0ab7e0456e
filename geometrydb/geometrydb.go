// Package geometrydb annotates a decoded volume's raw sector counts with a
// recognizable floppy form factor, when one matches, sourced from a small
// embedded table of well-known FAT12 geometries.
package geometrydb

import (
	_ "embed"
	"strings"

	"github.com/gocarina/gocsv"
)

// Geometry describes one well-known FAT12 floppy format.
type Geometry struct {
	Name        string `csv:"name"`
	Slug        string `csv:"slug"`
	TotalBytes  int64  `csv:"total_bytes"`
	SectorSize  int    `csv:"sector_size"`
	FormFactor  string `csv:"form_factor"`
}

//go:embed geometries.csv
var rawCSV string

var byTotalBytes map[int64]Geometry

func init() {
	byTotalBytes = map[int64]Geometry{}
	var rows []Geometry
	if err := gocsv.UnmarshalString(rawCSV, &rows); err != nil {
		panic(err)
	}
	for _, row := range rows {
		byTotalBytes[row.TotalBytes] = row
	}
}

// Lookup returns the well-known geometry matching the given total image
// size in bytes, if one is known.
func Lookup(totalBytes int64) (Geometry, bool) {
	g, ok := byTotalBytes[totalBytes]
	return g, ok
}

// Label renders a short human string for a recognized geometry, e.g.
// `3.5" HD (1.44 MiB)`. It returns "" when totalBytes doesn't match a
// known geometry.
func Label(totalBytes int64) string {
	g, ok := Lookup(totalBytes)
	if !ok {
		return ""
	}
	return strings.TrimSpace(g.FormFactor + " (" + g.Name + ")")
}
