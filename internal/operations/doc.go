// Package operations runs the pipeline stages over chunked recordings.
//
// Each stage is a Step: it discovers the chunks whose inputs are present and
// processes them one at a time. The Manager executes steps in dependency
// order (clean, detect, noise, snr), either sequentially or on a bounded
// errgroup worker pool. A chunk that fails is recorded as a ChunkOutcome and
// never stops its siblings or the following steps.
//
// Example usage:
//
//	pipeline, err := operations.NewPipeline(cfg, logger, metrics, tracer)
//	if err != nil {
//		return err
//	}
//	report, err := pipeline.Run(ctx, operations.StageAll)
package operations
