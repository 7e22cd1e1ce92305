package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cmmps/nppx-loader/internal/models"
)

func ConnectDB(connStr string) (*pgxpool.Pool, error) {
	dbpool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	return dbpool, nil
}

type PostgresSink struct {
	dbpool *pgxpool.Pool
}

func NewPostgresSink(pool *pgxpool.Pool) *PostgresSink {
	return &PostgresSink{dbpool: pool}
}

// EnsureSchema creates the loader's tables if they do not exist yet.
func (s *PostgresSink) EnsureSchema(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS wholesalers (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(255) NOT NULL UNIQUE
		);`,
		`CREATE TABLE IF NOT EXISTS price_postings (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			wholesaler_id UUID NOT NULL REFERENCES wholesalers(id),
			default_effective_date BIGINT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS drug_prices (
			id BIGSERIAL PRIMARY KEY,
			ndc VARCHAR(20) NOT NULL,
			description VARCHAR(512) NOT NULL,
			npd_id UUID NOT NULL,
			price NUMERIC(18, 5) NOT NULL,
			unit_of_measure VARCHAR(20),
			classification VARCHAR(50) NOT NULL,
			effective_date BIGINT NOT NULL,
			posting_id UUID NOT NULL REFERENCES price_postings(id)
		);`,
	}

	for _, query := range queries {
		if _, err := s.dbpool.Exec(ctx, query); err != nil {
			return fmt.Errorf("error creating schema: %w", err)
		}
	}

	return nil
}

func (s *PostgresSink) FindWholesalerByName(ctx context.Context, name string) (*models.Wholesaler, error) {
	var wholesaler models.Wholesaler
	err := s.dbpool.QueryRow(ctx,
		`SELECT id, name FROM wholesalers WHERE name = $1`, name).
		Scan(&wholesaler.ID, &wholesaler.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying wholesaler %s: %w", name, err)
	}

	return &wholesaler, nil
}

func (s *PostgresSink) CreatePosting(ctx context.Context, posting *models.Posting) (string, error) {
	err := s.dbpool.QueryRow(ctx,
		`INSERT INTO price_postings (wholesaler_id, default_effective_date)
		 VALUES ($1, $2) RETURNING id`,
		posting.WholesalerID, posting.DefaultEffectiveDate).
		Scan(&posting.ID)
	if err != nil {
		return "", fmt.Errorf("error inserting posting for wholesaler %s: %w", posting.WholesalerID, err)
	}

	return posting.ID, nil
}

func (s *PostgresSink) SavePrice(ctx context.Context, record *models.PriceRecord, session Session) error {
	pgSession, ok := session.(*PgxSession)
	if !ok {
		return fmt.Errorf("session is not a postgres session")
	}
	if pgSession.tx == nil {
		return fmt.Errorf("no open transaction on session")
	}

	_, err := pgSession.tx.Exec(ctx,
		`INSERT INTO drug_prices (ndc, description, npd_id, price, unit_of_measure, classification, effective_date, posting_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		record.NDC, record.Description, record.NPDID, record.Price,
		record.UnitOfMeasure, record.Classification, record.EffectiveDate, record.PostingID)
	if err != nil {
		return fmt.Errorf("error inserting drug price for NDC %s: %w", record.NDC, err)
	}

	return nil
}

func (s *PostgresSink) StartSession(ctx context.Context) (Session, error) {
	conn, err := s.dbpool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("error acquiring connection for session: %w", err)
	}

	session := &PgxSession{conn: conn}
	if err := session.Begin(ctx); err != nil {
		conn.Release()
		return nil, err
	}

	return session, nil
}

// PgxSession holds one pooled connection and its currently open
// transaction, if any.
type PgxSession struct {
	conn *pgxpool.Conn
	tx   pgx.Tx
}

func (s *PgxSession) Begin(ctx context.Context) error {
	if s.tx != nil {
		return fmt.Errorf("transaction already open")
	}

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	s.tx = tx

	return nil
}

func (s *PgxSession) Commit(ctx context.Context) error {
	if s.tx == nil {
		return fmt.Errorf("no open transaction to commit")
	}

	err := s.tx.Commit(ctx)
	s.tx = nil
	if err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	return nil
}

func (s *PgxSession) Rollback(ctx context.Context) error {
	if s.tx == nil {
		return fmt.Errorf("no open transaction to roll back")
	}

	err := s.tx.Rollback(ctx)
	s.tx = nil
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("error rolling back transaction: %w", err)
	}

	return nil
}

func (s *PgxSession) Active() bool {
	return s.tx != nil
}

func (s *PgxSession) Close(ctx context.Context) error {
	if s.tx != nil {
		// a transaction left open at close time is discarded
		if err := s.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			s.tx = nil
			s.conn.Release()
			return fmt.Errorf("error rolling back transaction on close: %w", err)
		}
		s.tx = nil
	}
	s.conn.Release()

	return nil
}
