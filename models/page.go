package models

import "image"

// BBox is a word or page rectangle in raster pixel coordinates, as written
// in an hOCR title ("bbox x0 y0 x1 y1").
type BBox struct {
	X0 int `json:"x0" yaml:"x0"`
	Y0 int `json:"y0" yaml:"y0"`
	X1 int `json:"x1" yaml:"x1"`
	Y1 int `json:"y1" yaml:"y1"`
}

func (b BBox) Width() int  { return b.X1 - b.X0 }
func (b BBox) Height() int { return b.Y1 - b.Y0 }

// Empty reports whether the box has no area.
func (b BBox) Empty() bool { return b.X1 <= b.X0 || b.Y1 <= b.Y0 }

// Rect converts the box to an image.Rectangle.
func (b BBox) Rect() image.Rectangle {
	return image.Rect(b.X0, b.Y0, b.X1, b.Y1)
}

// Candidate is a number recognised on a page together with the region it
// occupies on the page raster.
type Candidate struct {
	Value int  `json:"value" yaml:"value"`
	BBox  BBox `json:"bbox" yaml:"bbox"`
}

// RasterCandidates holds every candidate attributed to one page raster,
// in document order.
type RasterCandidates struct {
	Raster     string      `json:"raster" yaml:"raster"`
	PageNo     int         `json:"page_no,omitempty" yaml:"page_no,omitempty"`
	PageBox    *BBox       `json:"page_box,omitempty" yaml:"page_box,omitempty"`
	Candidates []Candidate `json:"candidates" yaml:"candidates"`
}

// DocumentCandidates is the scan state of a single source document. It is
// created per document and never shared between workers.
type DocumentCandidates struct {
	Rasters []RasterCandidates `json:"rasters" yaml:"rasters"`

	index map[string]int
	seen  map[int]struct{}
}

// NewDocumentCandidates returns an empty candidate set.
func NewDocumentCandidates() *DocumentCandidates {
	return &DocumentCandidates{
		index: make(map[string]int),
		seen:  make(map[int]struct{}),
	}
}

// Seen reports whether value already has a candidate anywhere in the document.
func (d *DocumentCandidates) Seen(value int) bool {
	d.ensure()
	_, ok := d.seen[value]
	return ok
}

// PageRef identifies the raster an OCR page was derived from.
type PageRef struct {
	Raster  string
	PageNo  int
	PageBox *BBox
}

// Add records a candidate under the page's raster unless its value was
// already taken. It returns false for a duplicate value. Rasters appear in
// the order their first candidate was found.
func (d *DocumentCandidates) Add(page PageRef, c Candidate) bool {
	if d.Seen(c.Value) {
		return false
	}
	i, ok := d.index[page.Raster]
	if !ok {
		i = len(d.Rasters)
		d.index[page.Raster] = i
		d.Rasters = append(d.Rasters, RasterCandidates{Raster: page.Raster, PageNo: page.PageNo, PageBox: page.PageBox})
	}
	d.Rasters[i].Candidates = append(d.Rasters[i].Candidates, c)
	d.seen[c.Value] = struct{}{}
	return true
}

// Len returns the number of candidates across all rasters.
func (d *DocumentCandidates) Len() int {
	n := 0
	for _, r := range d.Rasters {
		n += len(r.Candidates)
	}
	return n
}

// Values returns the candidate values in document order.
func (d *DocumentCandidates) Values() []int {
	values := make([]int, 0, d.Len())
	for _, r := range d.Rasters {
		for _, c := range r.Candidates {
			values = append(values, c.Value)
		}
	}
	return values
}

// ensure rebuilds the lookup maps, e.g. after the struct was decoded from the scan cache.
func (d *DocumentCandidates) ensure() {
	if d.index != nil && d.seen != nil {
		return
	}
	d.index = make(map[string]int, len(d.Rasters))
	d.seen = make(map[int]struct{})
	for i, r := range d.Rasters {
		d.index[r.Raster] = i
		for _, c := range r.Candidates {
			d.seen[c.Value] = struct{}{}
		}
	}
}
