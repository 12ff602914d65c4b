// Package execution generates the individual content pieces of a finalized
// blueprint. Pieces succeed or fail independently: one failed piece never
// blocks the rest, so partial progress stays visible.
package execution

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"strategos/internal/generation"
	"strategos/internal/logging"
	"strategos/internal/types"
)

// DefaultConcurrency bounds parallel generation calls per batch.
const DefaultConcurrency = 3

// PieceFunc receives each piece as its status changes.
type PieceFunc func(piece types.ContentPiece)

// BatchGenerator requests generation and refinement of content pieces.
type BatchGenerator struct {
	gen         types.GenerationClient
	concurrency int
}

// NewBatchGenerator creates a batch generator.
func NewBatchGenerator(gen types.GenerationClient, concurrency int) *BatchGenerator {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &BatchGenerator{gen: gen, concurrency: concurrency}
}

// GenerateAll generates every piece in the batch, updating each to completed
// or failed independently. The returned slice preserves input order. Per-
// piece updates carry no ordering guarantee relative to each other.
func (b *BatchGenerator) GenerateAll(ctx context.Context, s *types.CampaignSession, pieces []types.ContentPiece, onUpdate PieceFunc) []types.ContentPiece {
	out := make([]types.ContentPiece, len(pieces))
	copy(out, pieces)

	var mu sync.Mutex
	notify := func(p types.ContentPiece) {
		if onUpdate != nil {
			mu.Lock()
			onUpdate(p)
			mu.Unlock()
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i := range out {
		g.Go(func() error {
			out[i].Status = types.PieceGenerating
			notify(out[i])
			out[i] = b.generatePiece(ctx, s, out[i])
			notify(out[i])
			// Failures are recorded on the piece, never returned: returning
			// an error would cancel the sibling goroutines.
			return nil
		})
	}
	_ = g.Wait()

	logging.Execution("Batch complete: %d pieces, %d failed", len(out), countFailed(out))
	return out
}

// GenerateOne generates a single piece.
func (b *BatchGenerator) GenerateOne(ctx context.Context, s *types.CampaignSession, piece types.ContentPiece) types.ContentPiece {
	piece.Status = types.PieceGenerating
	return b.generatePiece(ctx, s, piece)
}

// Refine rewrites a completed piece according to feedback. On failure the
// previous content is retained: refinement never destroys prior output.
func (b *BatchGenerator) Refine(ctx context.Context, s *types.CampaignSession, piece types.ContentPiece, feedback string) types.ContentPiece {
	prompt := generation.RefinePiecePrompt(s, piece, feedback)

	text, err := b.gen.Complete(ctx, prompt)
	if err != nil {
		logging.ExecutionError("Refine failed for piece %s: %v", piece.ID, err)
		piece.FailureReason = err.Error()
		// Status and content stay as they were.
		return piece
	}

	piece.Content = text
	piece.Status = types.PieceCompleted
	piece.FailureReason = ""
	logging.Execution("Piece refined: %s", piece.ID)
	return piece
}

func (b *BatchGenerator) generatePiece(ctx context.Context, s *types.CampaignSession, piece types.ContentPiece) types.ContentPiece {
	prompt := generation.ContentPiecePrompt(s, piece)

	text, err := b.gen.Complete(ctx, prompt)
	if err != nil {
		logging.ExecutionError("Generation failed for piece %s: %v", piece.ID, err)
		piece.Status = types.PieceFailed
		piece.FailureReason = err.Error()
		return piece
	}

	piece.Content = text
	piece.Status = types.PieceCompleted
	piece.FailureReason = ""
	return piece
}

func countFailed(pieces []types.ContentPiece) int {
	n := 0
	for _, p := range pieces {
		if p.Status == types.PieceFailed {
			n++
		}
	}
	return n
}
