// Package exporter writes pipeline results to disk.
//
// CSV tables (chunk tables, per-chunk SNR and skipped-channel reports, the
// combined SNR table) are written with encoding/csv. The run summary and the
// cleaned-chunk previews are xlsx workbooks built with excelize. Every file
// goes through files.Manager.WriteFile and therefore appears atomically.
package exporter
