package ingestion

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cmmps/nppx-loader/internal/database"
	"github.com/cmmps/nppx-loader/internal/models"
)

const (
	// DefaultCommitBoundary is the saved-item count at which the open
	// transaction is committed and a new one begun.
	DefaultCommitBoundary = 10000

	saveWarnThreshold = 11 * time.Second
)

// BatchCommitter is the streaming sink of the pipeline. It persists each
// record through the session's open transaction in arrival order and
// commits at fixed item-count boundaries. It never retries or rolls back;
// save and commit errors propagate to the orchestrator.
type BatchCommitter struct {
	sink           database.Sink
	session        database.Session
	commitBoundary int
	itemsSaved     int
	startTime      time.Time
}

func NewBatchCommitter(sink database.Sink, session database.Session, commitBoundary int, startTime time.Time) *BatchCommitter {
	if commitBoundary <= 0 {
		commitBoundary = DefaultCommitBoundary
	}

	return &BatchCommitter{
		sink:           sink,
		session:        session,
		commitBoundary: commitBoundary,
		startTime:      startTime,
	}
}

// Submit saves one record and commits when the boundary is reached.
func (c *BatchCommitter) Submit(ctx context.Context, record *models.PriceRecord) error {
	saveStart := time.Now()
	if err := c.sink.SavePrice(ctx, record, c.session); err != nil {
		return fmt.Errorf("failed to save price record for NDC %s: %w", record.NDC, err)
	}

	if saveTime := time.Since(saveStart); saveTime > saveWarnThreshold {
		log.Printf("WARN: save took %s, over the %s threshold", saveTime, saveWarnThreshold)
	}

	c.itemsSaved++
	if c.itemsSaved%c.commitBoundary == 0 {
		commitStart := time.Now()
		if err := c.session.Commit(ctx); err != nil {
			return fmt.Errorf("failed to commit batch at %d items: %w", c.itemsSaved, err)
		}

		log.Printf("Committed %d [%d] items in %.0f seconds. Runtime: %.2f minutes.",
			c.commitBoundary, c.itemsSaved,
			time.Since(commitStart).Seconds(), time.Since(c.startTime).Minutes())

		if err := c.session.Begin(ctx); err != nil {
			return fmt.Errorf("failed to begin transaction after %d items: %w", c.itemsSaved, err)
		}
	}

	return nil
}

// Finish commits the trailing partial batch. When the last item landed
// exactly on a commit boundary there is nothing uncommitted, and the empty
// open transaction is discarded instead.
func (c *BatchCommitter) Finish(ctx context.Context) error {
	if c.itemsSaved%c.commitBoundary != 0 {
		if err := c.session.Commit(ctx); err != nil {
			return fmt.Errorf("failed to commit final batch: %w", err)
		}
	} else if c.session.Active() {
		if err := c.session.Rollback(ctx); err != nil {
			return fmt.Errorf("failed to discard empty trailing transaction: %w", err)
		}
	}

	log.Printf("%d items saved in %.0f minutes",
		c.itemsSaved, time.Since(c.startTime).Minutes())

	return nil
}

// ItemsSaved reports how many records have been saved so far.
func (c *BatchCommitter) ItemsSaved() int {
	return c.itemsSaved
}
