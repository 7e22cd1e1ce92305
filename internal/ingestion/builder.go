package ingestion

import (
	"log"

	"github.com/shopspring/decimal"

	"github.com/cmmps/nppx-loader/internal/models"
	"github.com/cmmps/nppx-loader/internal/parser"
)

const undefinedClassification = "undefined"

// BuildPriceRecord converts a normalized row into a persistable price
// record. A malformed price or a record that fails validation is logged
// with its identifying context and dropped (nil return); an unparseable
// effective date is logged but the record is kept with a zero timestamp.
func BuildPriceRecord(row *models.NormalizedRow, npdID, postingID string) *models.PriceRecord {
	effDate, err := parser.ParseEffectiveDate(row.RawEffectiveDate)
	if err != nil {
		// the row is kept; the posting's default effective date applies downstream
		log.Printf("ERROR: %v", err)
		effDate = 0
	}

	price, err := decimal.NewFromString(row.RawPrice)
	if err != nil {
		log.Printf("ERROR: %v", &models.RowError{
			NDC:     row.NDC,
			NPDID:   npdID,
			RawDate: row.RawEffectiveDate,
			Message: "Cannot parse price " + row.RawPrice,
			Err:     err,
		})
		return nil
	}

	record := &models.PriceRecord{
		NDC:            row.NDC,
		Description:    row.Description,
		NPDID:          npdID,
		Price:          price,
		UnitOfMeasure:  row.UnitOfMeasure,
		Classification: undefinedClassification,
		EffectiveDate:  effDate,
		PostingID:      postingID,
	}

	if err := record.Validate(); err != nil {
		log.Printf("ERROR: %v", &models.RowError{
			NDC:     row.NDC,
			NPDID:   npdID,
			RawDate: row.RawEffectiveDate,
			Message: "Cannot build price record",
			Err:     err,
		})
		return nil
	}

	return record
}
