package database

import (
	"context"

	"github.com/cmmps/nppx-loader/internal/models"
)

// Session is one transactional unit of work against the sink. A session is
// opened with a transaction already begun; Commit ends it and Begin opens
// the next one.
type Session interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	Active() bool
	Close(ctx context.Context) error
}

// Sink defines the persistence operations the ingestion run needs.
type Sink interface {
	// FindWholesalerByName returns (nil, nil) when no wholesaler with the
	// given name exists.
	FindWholesalerByName(ctx context.Context, name string) (*models.Wholesaler, error)
	// CreatePosting inserts the posting atomically, outside any session
	// transaction, and returns the assigned id.
	CreatePosting(ctx context.Context, posting *models.Posting) (string, error)
	// SavePrice persists one record inside the session's open transaction.
	SavePrice(ctx context.Context, record *models.PriceRecord, session Session) error
	StartSession(ctx context.Context) (Session, error)
}
