// Package hocr reads hOCR layout documents and finds the numbers printed on
// their pages.
package hocr

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/hocr-numbers/models"
	"github.com/dtnitsch/hocr-numbers/pkg/numtext"
)

const (
	pageSelector = ".ocr_page"
	wordSelector = ".ocrx_word"
)

// Scanner walks an hOCR document and collects one candidate per number.
type Scanner struct {
	// MinConfidence is exclusive: a word needs x_wconf > MinConfidence.
	MinConfidence float64
	Normalizer    numtext.Normalizer
}

// NewScanner returns a Scanner with the given confidence gate and value ceiling.
func NewScanner(minConfidence float64, maxValue int) *Scanner {
	return &Scanner{
		MinConfidence: minConfidence,
		Normalizer:    numtext.Normalizer{Max: maxValue},
	}
}

// ScanFile opens and scans an hOCR file.
func (s *Scanner) ScanFile(path string) (*models.DocumentCandidates, models.ScanStats, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, models.ScanStats{}, fmt.Errorf("failed to open layout file: %w", err)
	}
	defer f.Close()
	return s.Scan(f)
}

// Scan reads an hOCR document and returns its candidates grouped by page
// raster. Pages and words are visited in document order and the first
// qualifying occurrence of a value wins for the whole document, even over
// a later occurrence with higher confidence.
func (s *Scanner) Scan(r io.Reader) (*models.DocumentCandidates, models.ScanStats, error) {
	var stats models.ScanStats

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to parse hOCR: %w", err)
	}

	cands := models.NewDocumentCandidates()
	doc.Find(pageSelector).Each(func(_ int, page *goquery.Selection) {
		stats.Pages++
		ref, ok := pageRef(page)
		if !ok {
			stats.PagesSkipped++
			return
		}

		page.Find(wordSelector).Each(func(_ int, word *goquery.Selection) {
			stats.Words++
			s.visitWord(word, ref, cands, &stats)
		})
	})

	return cands, stats, nil
}

func (s *Scanner) visitWord(word *goquery.Selection, ref models.PageRef, cands *models.DocumentCandidates, stats *models.ScanStats) {
	text := word.Text()
	if text == "" {
		stats.NoNumber++
		return
	}
	value, ok := s.Normalizer.Normalize(text)
	if !ok {
		stats.NoNumber++
		return
	}
	if cands.Seen(value) {
		stats.Duplicate++
		return
	}

	title, _ := word.Attr("title")
	conf, ok := ParseConfidence(title)
	if !ok {
		stats.NoConfidence++
		return
	}
	if conf <= s.MinConfidence {
		stats.LowConfidence++
		return
	}
	bbox, ok := ParseBBox(title)
	if !ok {
		stats.NoBBox++
		return
	}

	cands.Add(ref, models.Candidate{Value: value, BBox: bbox})
	stats.Accepted++
}

func pageRef(page *goquery.Selection) (models.PageRef, bool) {
	title, ok := page.Attr("title")
	if !ok || title == "" {
		return models.PageRef{}, false
	}
	raster, ok := ParseImageName(title)
	if !ok {
		return models.PageRef{}, false
	}
	ref := models.PageRef{Raster: raster}
	if n, ok := ParsePageNo(title); ok {
		ref.PageNo = n
	}
	if box, ok := ParseBBox(title); ok && !box.Empty() {
		ref.PageBox = &box
	}
	return ref, true
}
