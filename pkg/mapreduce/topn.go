package mapreduce

import (
	"fmt"
	"sort"

	"github.com/dtnitsch/hocr-numbers/models"
)

// TopDocuments returns the n successful documents that produced the most new
// artifacts, formatted as "document:created". Ties sort by name. Documents
// that created nothing are left out.
func TopDocuments(results []models.DocumentResult, n int) []string {
	type kv struct {
		Key   string
		Value int
	}

	var ss []kv
	for _, r := range results {
		if r.Failed() || r.Counts.Created == 0 {
			continue
		}
		ss = append(ss, kv{r.Document, r.Counts.Created})
	}

	sort.Slice(ss, func(i, j int) bool {
		if ss[i].Value != ss[j].Value {
			return ss[i].Value > ss[j].Value
		}
		return ss[i].Key < ss[j].Key
	})

	limit := n
	if len(ss) < n {
		limit = len(ss)
	}
	if limit < 0 {
		limit = 0
	}

	top := make([]string, limit)
	for i := 0; i < limit; i++ {
		top[i] = fmt.Sprintf("%s:%d", ss[i].Key, ss[i].Value)
	}
	return top
}

// FailedDocuments returns the failed results sorted by document name.
func FailedDocuments(results []models.DocumentResult) []models.DocumentResult {
	var failed []models.DocumentResult
	for _, r := range results {
		if r.Failed() {
			failed = append(failed, r)
		}
	}
	sort.Slice(failed, func(i, j int) bool { return failed[i].Document < failed[j].Document })
	return failed
}
