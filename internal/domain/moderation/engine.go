package moderation

import "context"

// Engine analyzes raw image bytes and produces a safety verdict. The
// current implementation is a mock scorer; a real analysis backend
// plugs in behind this interface without touching the HTTP layer.
type Engine interface {
	Analyze(ctx context.Context, image []byte) (*Result, error)
}
