package hocr

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dtnitsch/hocr-numbers/models"
)

// hOCR keeps element properties in the title attribute as
// semicolon-separated "name value..." pairs, e.g.
//
//	bbox 120 48 190 80; x_wconf 96
//	image "/scans/book_jp2/book_0012.jp2"; bbox 0 0 2480 3508; ppageno 11
//
// Each property is matched independently; a missing one never hides the others.
var (
	bboxPattern    = regexp.MustCompile(`bbox (\d+) (\d+) (\d+) (\d+)`)
	ppagenoPattern = regexp.MustCompile(`ppageno (\d+)`)
	wconfPattern   = regexp.MustCompile(`x_wconf (\d+(?:\.\d+)?)`)
	imagePattern   = regexp.MustCompile(`image "([^"]+)"`)
)

// ParseBBox extracts the bounding box as (x0, y0, x1, y1).
func ParseBBox(title string) (models.BBox, bool) {
	m := bboxPattern.FindStringSubmatch(title)
	if m == nil {
		return models.BBox{}, false
	}
	var coords [4]int
	for i := range coords {
		v, err := strconv.Atoi(m[i+1])
		if err != nil {
			return models.BBox{}, false
		}
		coords[i] = v
	}
	return models.BBox{X0: coords[0], Y0: coords[1], X1: coords[2], Y1: coords[3]}, true
}

// ParsePageNo extracts the physical page number.
func ParsePageNo(title string) (int, bool) {
	m := ppagenoPattern.FindStringSubmatch(title)
	if m == nil {
		return 0, false
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseConfidence extracts the word confidence on whatever scale the OCR
// engine wrote it. A missing value means unknown, not acceptable.
func ParseConfidence(title string) (float64, bool) {
	m := wconfPattern.FindStringSubmatch(title)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseImageName extracts the source raster reference and keeps only its
// final path segment, so OCR-time directories never reach artifact names.
func ParseImageName(title string) (string, bool) {
	m := imagePattern.FindStringSubmatch(title)
	if m == nil {
		return "", false
	}
	name := m[1]
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if name == "" || name == "." || name == ".." {
		return "", false
	}
	return name, true
}
