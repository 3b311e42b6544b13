// Package mapreduce folds per-document results into run totals.
package mapreduce

import "github.com/dtnitsch/hocr-numbers/models"

// Map turns one document's result into a partial aggregate. A failed
// document counts as one failure and contributes no artifacts.
func Map(result models.DocumentResult) models.RunAggregate {
	agg := models.RunAggregate{Documents: 1}
	if result.Failed() {
		agg.Failed = 1
		return agg
	}
	agg.Succeeded = 1
	agg.ExtractCounts = result.Counts
	return agg
}

// Reduce aggregates partial results into a single total.
func Reduce(intermediate []models.RunAggregate) models.RunAggregate {
	var final models.RunAggregate

	for _, part := range intermediate {
		final.Documents += part.Documents
		final.Succeeded += part.Succeeded
		final.Failed += part.Failed
		final.Add(part.ExtractCounts)
	}

	return final
}

// ReduceResults is Map over results followed by Reduce.
func ReduceResults(results []models.DocumentResult) models.RunAggregate {
	parts := make([]models.RunAggregate, 0, len(results))
	for _, r := range results {
		parts = append(parts, Map(r))
	}
	return Reduce(parts)
}
