package hocr

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/dtnitsch/hocr-numbers/models"
)

const twoPageDoc = `<!DOCTYPE html>
<html><head><title></title></head>
<body>
  <div class="ocr_page" id="page_1" title='image "/scratch/book1_jp2/p1.jp2"; bbox 0 0 200 100; ppageno 0'>
    <span class="ocr_line" title="bbox 5 5 190 40">
      <span class="ocrx_word" title="bbox 2 2 8 8; x_wconf 97">Chapter</span>
      <span class="ocrx_word" title="bbox 10 10 50 30; x_wconf 95">twelve</span>
      <span class="ocrx_word" title="bbox 60 10 80 30; x_wconf 90">7</span>
      <span class="ocrx_word" title="bbox 90 10 99 30">8</span>
      <span class="ocrx_word" title="x_wconf 99">9</span>
      <span class="ocrx_word" title="bbox 100 10 120 30; x_wconf 91"><strong>007</strong></span>
    </span>
  </div>
  <div class="ocr_page" id="page_2" title='image "p2.jp2"; bbox 0 0 200 100; ppageno 1'>
    <span class="ocrx_word" title="bbox 1 1 20 20; x_wconf 99">12</span>
    <span class="ocrx_word" title="bbox 30 30 60 60; x_wconf 93">7</span>
    <span class="ocrx_word" title="bbox 70 70 90 90; x_wconf 96">zero</span>
  </div>
  <div class="ocr_page" id="page_3" title="bbox 0 0 200 100; ppageno 2">
    <span class="ocrx_word" title="bbox 1 1 20 20; x_wconf 99">44</span>
  </div>
</body></html>`

func TestScan_TwoPages(t *testing.T) {
	s := NewScanner(90, 50000)

	cands, stats, err := s.Scan(strings.NewReader(twoPageDoc))
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	want := []models.RasterCandidates{
		{
			Raster:  "p1.jp2",
			PageNo:  0,
			PageBox: &models.BBox{X1: 200, Y1: 100},
			Candidates: []models.Candidate{
				{Value: 12, BBox: models.BBox{X0: 10, Y0: 10, X1: 50, Y1: 30}},
			},
		},
		{
			Raster:  "p2.jp2",
			PageNo:  1,
			PageBox: &models.BBox{X1: 200, Y1: 100},
			Candidates: []models.Candidate{
				{Value: 7, BBox: models.BBox{X0: 30, Y0: 30, X1: 60, Y1: 60}},
				{Value: 0, BBox: models.BBox{X0: 70, Y0: 70, X1: 90, Y1: 90}},
			},
		},
	}
	if !reflect.DeepEqual(cands.Rasters, want) {
		t.Fatalf("Scan() rasters = %+v, want %+v", cands.Rasters, want)
	}

	if stats.Pages != 3 || stats.PagesSkipped != 1 {
		t.Errorf("pages = %d skipped = %d, want 3 and 1", stats.Pages, stats.PagesSkipped)
	}
	if stats.Duplicate != 1 {
		t.Errorf("duplicate = %d, want 1 (second 12)", stats.Duplicate)
	}
	if stats.LowConfidence != 1 {
		t.Errorf("low_confidence = %d, want 1 (7 at exactly 90)", stats.LowConfidence)
	}
	if stats.NoConfidence != 1 || stats.NoBBox != 1 {
		t.Errorf("no_confidence = %d no_bbox = %d, want 1 and 1", stats.NoConfidence, stats.NoBBox)
	}
	if stats.Accepted != 3 || stats.Accepted != cands.Len() {
		t.Errorf("accepted = %d len = %d, want 3", stats.Accepted, cands.Len())
	}
}

func TestScan_FirstOccurrenceWinsOverHigherConfidence(t *testing.T) {
	doc := `<div class="ocr_page" title='image "a.jp2"'>
  <span class="ocrx_word" title="bbox 0 0 10 10; x_wconf 91">5</span>
  <span class="ocrx_word" title="bbox 20 20 30 30; x_wconf 99">five</span>
</div>`

	cands, _, err := NewScanner(90, 50000).Scan(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if got := cands.Values(); !reflect.DeepEqual(got, []int{5}) {
		t.Fatalf("values = %v, want [5]", got)
	}
	if got := cands.Rasters[0].Candidates[0].BBox; got.X0 != 0 {
		t.Errorf("kept bbox %+v, want the first occurrence", got)
	}
}

func TestScan_RemovingConfidenceRemovesCandidate(t *testing.T) {
	with := `<div class="ocr_page" title='image "a.jp2"'><span class="ocrx_word" title="bbox 0 0 10 10; x_wconf 95">3</span></div>`
	without := `<div class="ocr_page" title='image "a.jp2"'><span class="ocrx_word" title="bbox 0 0 10 10">3</span></div>`

	s := NewScanner(90, 50000)
	c1, _, _ := s.Scan(strings.NewReader(with))
	c2, _, _ := s.Scan(strings.NewReader(without))
	if c1.Len() != 1 {
		t.Fatalf("with confidence: %d candidates, want 1", c1.Len())
	}
	if c2.Len() != 0 {
		t.Errorf("without confidence: %d candidates, want 0", c2.Len())
	}
}

func TestScan_RejectedDuplicateDoesNotBlockLaterQualifier(t *testing.T) {
	// A low-confidence occurrence never becomes the candidate, so a later
	// qualifying occurrence of the same value is still taken.
	doc := `<div class="ocr_page" title='image "a.jp2"'>
  <span class="ocrx_word" title="bbox 0 0 10 10; x_wconf 40">8</span>
  <span class="ocrx_word" title="bbox 20 20 30 30; x_wconf 92">eight</span>
</div>`

	cands, stats, err := NewScanner(90, 50000).Scan(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if cands.Len() != 1 || cands.Rasters[0].Candidates[0].BBox.X0 != 20 {
		t.Fatalf("candidates = %+v, want the second occurrence", cands.Rasters)
	}
	if stats.LowConfidence != 1 {
		t.Errorf("low_confidence = %d, want 1", stats.LowConfidence)
	}
}

func TestScanFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book1_hocr.html")
	if err := os.WriteFile(path, []byte(twoPageDoc), 0o600); err != nil {
		t.Fatal(err)
	}

	cands, _, err := NewScanner(90, 50000).ScanFile(path)
	if err != nil {
		t.Fatalf("ScanFile() error = %v", err)
	}
	if got := cands.Values(); !reflect.DeepEqual(got, []int{12, 7, 0}) {
		t.Errorf("values = %v, want [12 7 0]", got)
	}

	if _, _, err := NewScanner(90, 50000).ScanFile(filepath.Join(t.TempDir(), "missing.html")); err == nil {
		t.Error("ScanFile() on a missing file returned nil error")
	}
}
