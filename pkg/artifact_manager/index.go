package artifact_manager

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dtnitsch/hocr-numbers/models"
)

// Walk lists every stored crop with its height, reading up to limit value
// directories at a time. Results are sorted by path.
func Walk(ctx context.Context, baseDir string, limit int) ([]models.Artifact, error) {
	values, err := ListValues(baseDir)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	var mu sync.Mutex
	var artifacts []models.Artifact

	for _, value := range values {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			paths, err := List(baseDir, value)
			if err != nil {
				return err
			}

			found := make([]models.Artifact, 0, len(paths))
			for _, p := range paths {
				h, err := Height(p)
				if err != nil {
					return err
				}
				found = append(found, models.Artifact{Value: value, Path: p, Height: h})
			}

			mu.Lock()
			artifacts = append(artifacts, found...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(artifacts, func(i, j int) bool { return artifacts[i].Path < artifacts[j].Path })
	return artifacts, nil
}
