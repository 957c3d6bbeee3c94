package seed

import (
	"context"
	"fmt"

	"github.com/okian/alumnet/internal/domain/types"
	"github.com/okian/alumnet/pkg/logger"
)

const displayTop = 10

// verifyLeaderboard checks that entries are ordered by descending composite
// score and carry competition ranks: ties share a rank and the next distinct
// score skips past them.
func verifyLeaderboard(board []types.LeaderboardEntry) error {
	seen := make(map[string]struct{}, len(board))
	for i, e := range board {
		if _, dup := seen[e.UserID]; dup {
			return fmt.Errorf("user %s listed twice", e.UserID)
		}
		seen[e.UserID] = struct{}{}

		if i == 0 {
			if e.Rank != 1 {
				return fmt.Errorf("first entry has rank %d", e.Rank)
			}
			continue
		}
		prev := board[i-1]
		switch {
		case e.CompositeScore > prev.CompositeScore:
			return fmt.Errorf("entry %d scores %d above entry %d at %d", i, e.CompositeScore, i-1, prev.CompositeScore)
		case e.CompositeScore == prev.CompositeScore && e.Rank != prev.Rank:
			return fmt.Errorf("tied entries %d and %d have ranks %d and %d", i-1, i, prev.Rank, e.Rank)
		case e.CompositeScore < prev.CompositeScore && e.Rank != i+1:
			return fmt.Errorf("entry %d has rank %d, want %d", i, e.Rank, i+1)
		}
	}
	return nil
}

func displayTopStudents(ctx context.Context, log logger.Logger, board []types.LeaderboardEntry) {
	for _, e := range board[:min(displayTop, len(board))] {
		log.Info(ctx, "leaderboard",
			logger.Int("rank", e.Rank),
			logger.String("name", e.Name),
			logger.Int("composite", e.CompositeScore),
			logger.Int("badges", e.BadgeCount))
	}
}
