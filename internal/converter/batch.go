package converter

import (
	"context"
	"fmt"

	"gdoc-latex/internal/config"
	"gdoc-latex/internal/logging"
	"gdoc-latex/internal/models"

	goerrors "github.com/goliatone/go-errors"
	"golang.org/x/sync/errgroup"
)

const jobFailedCode = "JOB_FAILED"

// RunBatch converts every job with at most limit conversions in flight and
// hands each result to sink. It waits for all jobs; one job failing does not
// cancel the others. Results are returned in input order.
func (c *Converter) RunBatch(ctx context.Context, jobs []models.Job, sink Sink, limit int) []models.JobResult {
	if limit <= 0 {
		limit = config.DefaultConcurrency
	}

	results := make([]models.JobResult, len(jobs))
	var g errgroup.Group
	g.SetLimit(limit)

	for i, job := range jobs {
		g.Go(func() error {
			results[i] = c.runJob(ctx, job, sink)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (c *Converter) runJob(ctx context.Context, job models.Job, sink Sink) models.JobResult {
	jr := models.JobResult{Job: job}
	if err := ctx.Err(); err != nil {
		jr.Err = wrapJobError(job, err)
		return jr
	}

	log := logging.WithFields(c.logger, map[string]any{"source": job.Source, "output": job.Output})
	log.Info("downloading document")
	result, err := c.Convert(ctx, job.Source)
	if err != nil {
		log.Error("job failed", "error", err)
		jr.Err = wrapJobError(job, err)
		return jr
	}
	jr.Result = result

	if sink != nil {
		if err := sink.Write(ctx, job.Output, result.Text); err != nil {
			log.Error("writing output failed", "error", err)
			jr.Err = wrapJobError(job, err)
			return jr
		}
		log.Info("wrote document")
	}
	return jr
}

func wrapJobError(job models.Job, err error) error {
	return goerrors.Wrap(err, goerrors.CategoryCommand, fmt.Sprintf("job %s -> %s failed", job.Source, job.Output)).
		WithTextCode(jobFailedCode)
}

// Failed counts job results that carry an error
func Failed(results []models.JobResult) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
