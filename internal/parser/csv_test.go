package parser

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStripDescription(t *testing.T) {
	t.Run("removes one layer of wrapping quotes", func(t *testing.T) {
		assert.Equal(t, "ASPIRIN 325MG", StripDescription(`"ASPIRIN 325MG"`))
	})

	t.Run("unquoted input is only trimmed", func(t *testing.T) {
		assert.Equal(t, "ASPIRIN 325MG", StripDescription("  ASPIRIN 325MG  "))
	})

	t.Run("does not strip repeated quote layers", func(t *testing.T) {
		assert.Equal(t, `"ASPIRIN 325MG"`, StripDescription(`""ASPIRIN 325MG""`))
	})

	t.Run("trims whitespace inside the quotes", func(t *testing.T) {
		assert.Equal(t, "ASPIRIN 325MG", StripDescription(` " ASPIRIN 325MG " `))
	})

	t.Run("handles unmatched quotes", func(t *testing.T) {
		assert.Equal(t, "ASPIRIN 325MG", StripDescription(`"ASPIRIN 325MG`))
	})
}

func TestParseRecord(t *testing.T) {
	record := []string{
		`"ASPIRIN 325MG TABLET"`, " 00000000001 ", " 0.01725 ", " 01/15/2022 ", " EA ",
		"C/I", "Y", "", "G", "", "", "01/19/2022",
	}

	row, err := ParseRecord(record)
	assert.NoError(t, err)
	assert.Equal(t, "ASPIRIN 325MG TABLET", row.Description)
	assert.Equal(t, "00000000001", row.NDC)
	assert.Equal(t, "0.01725", row.RawPrice)
	assert.Equal(t, "01/15/2022", row.RawEffectiveDate)
	assert.Equal(t, "EA", row.UnitOfMeasure)
}

func TestParseRecord_ShortRecord(t *testing.T) {
	row, err := ParseRecord([]string{"ASPIRIN", "00000000001"})
	assert.Error(t, err)
	assert.Nil(t, row)
}

func TestParseEffectiveDate(t *testing.T) {
	t.Run("valid date", func(t *testing.T) {
		millis, err := ParseEffectiveDate("01/15/2022")
		assert.NoError(t, err)
		assert.Equal(t, time.Date(2022, 1, 15, 0, 0, 0, 0, time.UTC).UnixMilli(), millis)
	})

	t.Run("wrong format fails", func(t *testing.T) {
		millis, err := ParseEffectiveDate("2022-13-45")
		assert.Error(t, err)
		assert.Equal(t, int64(0), millis)
	})

	t.Run("empty string fails", func(t *testing.T) {
		_, err := ParseEffectiveDate("")
		assert.Error(t, err)
	})
}

func TestNewReader_RaggedRecords(t *testing.T) {
	content := strings.Join(Header, ",") + "\n" +
		`ASPIRIN 325MG,00000000001,0.01725,01/15/2022,EA` + "\n"

	reader := NewReader(strings.NewReader(content))

	header, err := reader.Read()
	assert.NoError(t, err)
	assert.Equal(t, Header, header)

	record, err := reader.Read()
	assert.NoError(t, err)
	assert.Len(t, record, 5)

	_, err = reader.Read()
	assert.Equal(t, io.EOF, err)
}
