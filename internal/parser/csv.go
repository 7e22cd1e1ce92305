package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cmmps/nppx-loader/internal/models"
)

// Header is the fixed column layout of the NADAC yearly file. Only the
// first five columns are consumed by the loader.
var Header = []string{
	"NDC Description", "NDC", "NADAC_Per_Unit", "Effective_Date", "Pricing_Unit",
	"Pharmacy_Type_Indicator", "OTC", "Explanation_Code",
	"Classification_for_Rate_Setting",
	"Corresponding_Generic_Drug_NADAC_Per_Unit",
	"Corresponding_Generic_Drug_Effective_Date",
	"As of Date",
}

const (
	colDescription = iota
	colNDC
	colPrice
	colEffectiveDate
	colPricingUnit
)

const effectiveDateLayout = "01/02/2006"

// NewReader returns a CSV reader over the stream. Records may be ragged in
// their trailing columns; only the consumed prefix is validated.
func NewReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	return reader
}

// StripDescription trims the description and removes one layer of wrapping
// double quotes. Some source descriptions arrive quoted inside the field.
func StripDescription(raw string) string {
	description := strings.TrimSpace(raw)
	description = strings.TrimPrefix(description, `"`)
	description = strings.TrimSuffix(description, `"`)
	return strings.TrimSpace(description)
}

// ParseRecord normalizes one raw CSV record. It fails only when the record
// is too short to hold the consumed columns; field contents are not
// validated here.
func ParseRecord(record []string) (*models.NormalizedRow, error) {
	if len(record) <= colPricingUnit {
		return nil, fmt.Errorf("record has %d fields, want at least %d", len(record), colPricingUnit+1)
	}

	return &models.NormalizedRow{
		NDC:              strings.TrimSpace(record[colNDC]),
		RawPrice:         strings.TrimSpace(record[colPrice]),
		RawEffectiveDate: strings.TrimSpace(record[colEffectiveDate]),
		UnitOfMeasure:    strings.TrimSpace(record[colPricingUnit]),
		Description:      StripDescription(record[colDescription]),
	}, nil
}

// ParseEffectiveDate parses a MM/dd/yyyy date into epoch milliseconds.
func ParseEffectiveDate(raw string) (int64, error) {
	t, err := time.Parse(effectiveDateLayout, raw)
	if err != nil {
		return 0, fmt.Errorf("failed to convert %s to date: %w", raw, err)
	}

	return t.UnixMilli(), nil
}
