package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/cmmps/nppx-loader/internal/config"
	"github.com/cmmps/nppx-loader/internal/database"
	"github.com/cmmps/nppx-loader/internal/models"
	"github.com/cmmps/nppx-loader/internal/parser"
	"github.com/cmmps/nppx-loader/pkg/checksum"
)

// Service owns one ingestion run end to end: wholesaler resolution,
// posting creation, streaming the remote CSV and driving each row through
// parse, NPD resolution, record construction and batch commit.
type Service struct {
	sink  database.Sink
	store ObjectStore
	cfg   config.Config
}

// ObjectStore is the byte-stream provider the run reads its source from.
type ObjectStore interface {
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

func NewService(sink database.Sink, store ObjectStore, cfg config.Config) *Service {
	return &Service{
		sink:  sink,
		store: store,
		cfg:   cfg,
	}
}

// Execute performs one full ingestion run.
//
// A fatal mid-run error rolls back only the currently open transaction;
// batches committed before it stay applied, which can leave a partially
// loaded posting behind.
func (s *Service) Execute(ctx context.Context) error {
	startTime := time.Now()

	wholesaler, err := s.sink.FindWholesalerByName(ctx, s.cfg.WholesalerName)
	if err != nil {
		return fmt.Errorf("failed to look up wholesaler %s: %w", s.cfg.WholesalerName, err)
	}
	if wholesaler == nil {
		log.Printf("WARN: Unable to find the '%s' wholesaler. Data will not be processed.", s.cfg.WholesalerName)
		return nil
	}

	log.Printf("Data will be posted on behalf of wholesaler %s [%s].", wholesaler.Name, wholesaler.ID)

	posting := &models.Posting{
		WholesalerID:         wholesaler.ID,
		DefaultEffectiveDate: startTime.UnixMilli(),
	}

	log.Println("Creating pricing posting...")
	postingID, err := s.sink.CreatePosting(ctx, posting)
	if err != nil {
		return fmt.Errorf("failed to create posting: %w", err)
	}

	session, err := s.sink.StartSession(ctx)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer func() {
		if cerr := session.Close(ctx); cerr != nil {
			log.Printf("ERROR: Failed to close session: %v", cerr)
		}
	}()

	body, err := s.store.GetObject(ctx, s.cfg.S3Bucket, s.cfg.ObjectKey)
	if err != nil {
		s.rollback(ctx, session, startTime, err)
		return fmt.Errorf("failed to open object stream %s: %w", s.cfg.ObjectKey, err)
	}
	defer func() {
		if cerr := body.Close(); cerr != nil {
			log.Printf("ERROR: Failed to close object stream: %v", cerr)
		}
	}()

	source := checksum.NewReader(body)
	if err := s.processRows(ctx, source, postingID, session, startTime); err != nil {
		s.rollback(ctx, session, startTime, err)
		return err
	}

	log.Printf("Source object checksum: %s", source.Sum())
	return nil
}

// processRows drives the per-row pipeline over the stream, one row fully
// transformed and saved before the next is read.
func (s *Service) processRows(ctx context.Context, r io.Reader, postingID string, session database.Session, startTime time.Time) error {
	resolver := NewIdentityResolver()
	committer := NewBatchCommitter(s.sink, session, s.cfg.CommitBoundary, startTime)
	reader := parser.NewReader(r)

	// first record of the stream is the header
	if _, err := reader.Read(); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to read header from stream: %w", err)
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read record from stream: %w", err)
		}

		row, err := parser.ParseRecord(record)
		if err != nil {
			log.Printf("ERROR: Skipping record: %v", err)
			continue
		}

		npdID := resolver.Resolve(row.Description)

		priceRecord := BuildPriceRecord(row, npdID, postingID)
		if priceRecord == nil {
			continue
		}

		if err := committer.Submit(ctx, priceRecord); err != nil {
			return err
		}
	}

	return committer.Finish(ctx)
}

func (s *Service) rollback(ctx context.Context, session database.Session, startTime time.Time, cause error) {
	log.Printf("ERROR: An error occurred while processing NADAC data. Rolling back transaction. Ran for %.0f minutes: %v",
		time.Since(startTime).Minutes(), cause)

	if session.Active() {
		if err := session.Rollback(ctx); err != nil {
			log.Printf("ERROR: Failed to roll back transaction: %v", err)
		}
	}
}
