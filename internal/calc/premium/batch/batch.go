package batch

import (
	"context"
	"fmt"
	"runtime"

	"SiteClass/internal/calc/siteclass"

	"golang.org/x/sync/errgroup"
)

// MaxProfiles bounds a single batch request.
const MaxProfiles = 200

type BatchInput struct {
	Profiles []siteclass.Input `json:"profiles"`
}

type BatchResult struct {
	Results []siteclass.Result `json:"results"`
}

// Calculate runs every profile through run concurrently. Results keep the
// input order; the first failure cancels the rest.
func Calculate(ctx context.Context, in BatchInput, run func(siteclass.Input) (siteclass.Result, error)) (BatchResult, error) {
	if len(in.Profiles) == 0 {
		return BatchResult{}, fmt.Errorf("%w: no profiles", siteclass.ErrInvalidInput)
	}
	if len(in.Profiles) > MaxProfiles {
		return BatchResult{}, fmt.Errorf("%w: at most %d profiles per batch", siteclass.ErrInvalidInput, MaxProfiles)
	}

	out := BatchResult{Results: make([]siteclass.Result, len(in.Profiles))}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, profile := range in.Profiles {
		i, profile := i, profile
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := run(profile)
			if err != nil {
				return fmt.Errorf("profile %d: %w", i+1, err)
			}
			out.Results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return BatchResult{}, err
	}
	return out, nil
}
