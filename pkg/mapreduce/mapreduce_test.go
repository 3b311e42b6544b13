package mapreduce

import (
	"reflect"
	"testing"

	"github.com/dtnitsch/hocr-numbers/models"
)

func TestReduceResults_FailuresContributeZero(t *testing.T) {
	results := []models.DocumentResult{
		{Document: "a", Counts: models.ExtractCounts{Created: 3, Skipped: 1}},
		{Document: "b", Counts: models.ExtractCounts{Created: 99}, ErrorType: models.ErrorTypeExtract, Error: "boom"},
		{Document: "c", Counts: models.ExtractCounts{Created: 2, Invalid: 1, MissingRasters: 1}},
	}

	got := ReduceResults(results)

	want := models.RunAggregate{Documents: 3, Succeeded: 2, Failed: 1}
	want.Created, want.Skipped, want.Invalid, want.MissingRasters = 5, 1, 1, 1
	if got != want {
		t.Errorf("ReduceResults() = %+v, want %+v", got, want)
	}
}

func TestReduce_Empty(t *testing.T) {
	if got := Reduce(nil); got != (models.RunAggregate{}) {
		t.Errorf("Reduce(nil) = %+v, want zero", got)
	}
}

func TestTopDocuments(t *testing.T) {
	results := []models.DocumentResult{
		{Document: "b", Counts: models.ExtractCounts{Created: 5}},
		{Document: "a", Counts: models.ExtractCounts{Created: 5}},
		{Document: "c", Counts: models.ExtractCounts{Created: 9}},
		{Document: "d", Counts: models.ExtractCounts{Skipped: 9}},
		{Document: "e", Counts: models.ExtractCounts{Created: 50}, ErrorType: models.ErrorTypePanic},
	}

	tests := []struct {
		name string
		n    int
		want []string
	}{
		{name: "top two", n: 2, want: []string{"c:9", "a:5"}},
		{name: "more than available", n: 10, want: []string{"c:9", "a:5", "b:5"}},
		{name: "zero", n: 0, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TopDocuments(results, tt.n); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TopDocuments(%d) = %v, want %v", tt.n, got, tt.want)
			}
		})
	}
}

func TestFailedDocuments(t *testing.T) {
	results := []models.DocumentResult{
		{Document: "z", ErrorType: models.ErrorTypeScan},
		{Document: "ok"},
		{Document: "a", ErrorType: models.ErrorTypeMissingLayout},
	}
	got := FailedDocuments(results)
	if len(got) != 2 || got[0].Document != "a" || got[1].Document != "z" {
		t.Errorf("FailedDocuments() = %+v, want a then z", got)
	}
}
