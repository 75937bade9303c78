package services

import "errors"

// Results service errors
var (
	ErrInvalidChunk  = errors.New("invalid chunk identifier")
	ErrChunkNotFound = errors.New("chunk not found")
)
