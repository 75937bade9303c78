// Package dataprocessing reads chunk tables and result tables and provides the
// gap filling used by the cleaning stage.
//
// # Parsing
//
// Chunk tables are located by column name through a Schema, never by
// position. Raw acquisition exports use a prefixed/suffixed channel naming
// (highpass_A001_values); every table the pipeline writes uses the bare label
// and a "timestamps" column:
//
//	chunk, err := dataprocessing.ParseChunkFile(path, "demo1", dataprocessing.RawSchema(cfg.Schema))
//
// Missing cells (empty or "nan") are read as NaN. A cell that is neither is a
// MALFORMED_RECORD error carrying the line number.
//
// # Gap filling
//
// FillGaps linearly interpolates interior NaN runs, backfills a leading run,
// forward fills a trailing run and zero fills a series with no known value.
package dataprocessing
