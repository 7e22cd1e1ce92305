package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Wholesaler is the external entity prices are posted on behalf of. It is
// owned by the persistence layer and only resolved by name here.
type Wholesaler struct {
	ID   string
	Name string
}

// Posting represents one ingestion run's price submission. Its ID is
// assigned by the sink at insert time and every price record produced by
// the run references it.
type Posting struct {
	ID                   string
	WholesalerID         string
	DefaultEffectiveDate int64
}

// NormalizedRow holds the consumed fields of one CSV record after trimming
// and quote stripping. It only lives for the duration of one row's
// transformation.
type NormalizedRow struct {
	NDC              string
	RawPrice         string
	RawEffectiveDate string
	UnitOfMeasure    string
	Description      string
}

// PriceRecord is the persisted unit of work. EffectiveDate is epoch
// milliseconds; it is zero when the source date could not be parsed.
type PriceRecord struct {
	NDC            string
	Description    string
	NPDID          string
	Price          decimal.Decimal
	UnitOfMeasure  string
	Classification string
	EffectiveDate  int64
	PostingID      string
}

// Validate checks the fields a record must carry before it can be saved.
// A record is never persisted without an owning posting.
func (r *PriceRecord) Validate() error {
	if r.NDC == "" {
		return fmt.Errorf("price record has no NDC")
	}
	if r.NPDID == "" {
		return fmt.Errorf("price record for NDC %s has no NPD id", r.NDC)
	}
	if r.PostingID == "" {
		return fmt.Errorf("price record for NDC %s has no posting id", r.NDC)
	}
	return nil
}

// RowError carries the identifying context of a row that failed
// transformation so the source data can be inspected.
type RowError struct {
	NDC     string
	NPDID   string
	RawDate string
	Message string
	Err     error
}

func (e *RowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s - NDC: %s, NPD ID: %s, Effective Date: %s - %v",
			e.Message, e.NDC, e.NPDID, e.RawDate, e.Err)
	}
	return fmt.Sprintf("%s - NDC: %s, NPD ID: %s, Effective Date: %s",
		e.Message, e.NDC, e.NPDID, e.RawDate)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
