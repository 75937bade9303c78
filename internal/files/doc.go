// Package files locates chunk files and derives their companions.
//
// Every stage works on a chunk identifier: the raw file name without ".csv".
// Discovery finds identifiers by suffix in a directory; Manager maps an
// identifier to each derived file (cleaned table, spike stats, noise stats,
// SNR results) and writes outputs atomically.
//
// Example usage:
//
//	discovery := files.NewDiscovery("")
//	chunks, err := discovery.FindChunks(cfg.Paths.Cleaned(), config.CleanedSuffix)
//
//	manager := files.NewManager(cfg.Paths)
//	if err := manager.RequireFiles(chunk, manager.SpikeStatsFile(chunk, policy)); err != nil {
//	    // MissingInput: skip this chunk
//	}
package files
