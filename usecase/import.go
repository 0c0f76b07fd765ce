package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const maxImportWorkers = 10

// ImportProducts creates many products concurrently through CreateProduct.
// Every item is attempted; failures are joined into the returned error.
type ImportProducts struct {
	create *CreateProduct
	logger *slog.Logger
}

// NewImportProducts returns an ImportProducts that saves through create.
func NewImportProducts(create *CreateProduct, logger *slog.Logger) *ImportProducts {
	return &ImportProducts{create: create, logger: orDefault(logger)}
}

// Execute returns the created products in input order (failed items are
// omitted) together with the joined per-item errors.
func (uc *ImportProducts) Execute(ctx context.Context, reqs []CreateProductRequest) ([]ProductResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(reqs) == 0 {
		return nil, nil
	}
	start := time.Now()

	type job struct {
		idx int
		req CreateProductRequest
	}
	type result struct {
		idx  int
		resp ProductResponse
		err  error
	}

	jobs := make(chan job)
	results := make(chan result, len(reqs))

	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case j, ok := <-jobs:
				if !ok {
					return
				}
				resp, err := uc.create.Execute(ctx, j.req)
				if err != nil {
					err = fmt.Errorf("item %d (%s): %w", j.idx, j.req.Name, err)
				}
				results <- result{idx: j.idx, resp: resp, err: err}
			}
		}
	}

	nWorkers := min(maxImportWorkers, len(reqs))
	wg.Add(nWorkers)
	for i := 0; i < nWorkers; i++ {
		go worker()
	}

	// feed jobs
	go func() {
		defer close(jobs)
		for i, r := range reqs {
			select {
			case <-ctx.Done():
				return
			case jobs <- job{idx: i, req: r}:
			}
		}
	}()

	created := make([]*ProductResponse, len(reqs))
	var errs []error
	received := 0
	for received < len(reqs) {
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		case res := <-results:
			received++
			if res.err != nil {
				errs = append(errs, res.err)
				continue
			}
			resp := res.resp
			created[res.idx] = &resp
		}
	}
	wg.Wait()

	out := make([]ProductResponse, 0, len(reqs))
	for _, r := range created {
		if r != nil {
			out = append(out, *r)
		}
	}
	uc.logger.Info("products imported",
		"requested", len(reqs), "created", len(out), "failed", len(errs),
		"duration_ms", time.Since(start).Milliseconds())
	return out, errors.Join(errs...)
}
