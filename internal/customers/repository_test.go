package customers

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return errors.New("column count mismatch")
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *int64:
			*p = r.values[i].(int64)
		case *string:
			*p = r.values[i].(string)
		case *pgtype.Timestamptz:
			*p = r.values[i].(pgtype.Timestamptz)
		case *pgtype.Int8:
			*p = r.values[i].(pgtype.Int8)
		case *pgtype.Text:
			*p = r.values[i].(pgtype.Text)
		case *pgtype.Date:
			*p = r.values[i].(pgtype.Date)
		default:
			return errors.New("unexpected destination type")
		}
	}
	return nil
}

var scanTime = time.Date(2025, time.June, 17, 9, 0, 0, 0, time.UTC)

func customerRow(details pgtype.Int8, sex, place pgtype.Text, dob pgtype.Date) fakeRow {
	return fakeRow{values: []any{
		int64(7), "Dhruv Vyas", "Savings", "fulltime",
		pgtype.Timestamptz{Time: scanTime, Valid: true}, pgtype.Timestamptz{},
		details, sex, dob, place,
	}}
}

func TestScanCustomerWithDetails(t *testing.T) {
	dob := time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC)
	row := customerRow(
		pgtype.Int8{Int64: 11, Valid: true},
		pgtype.Text{String: "M", Valid: true},
		pgtype.Text{String: "Ahmedabad", Valid: true},
		pgtype.Date{Time: dob, Valid: true},
	)

	c, err := scanCustomer(row)

	require.NoError(t, err)
	assert.Equal(t, int64(7), c.ID)
	assert.Equal(t, "Dhruv Vyas", c.Name)
	assert.Equal(t, scanTime, c.CreatedAt)
	assert.True(t, c.UpdatedAt.IsZero())
	require.NotNil(t, c.Details)
	assert.Equal(t, int64(11), c.Details.ID)
	assert.Equal(t, SexMale, c.Details.Sex)
	assert.Equal(t, dob, c.Details.DOB)
	assert.Equal(t, "Ahmedabad", c.Details.NativePlace)
}

func TestScanCustomerWithoutDetailsRow(t *testing.T) {
	c, err := scanCustomer(customerRow(pgtype.Int8{}, pgtype.Text{}, pgtype.Text{}, pgtype.Date{}))

	require.NoError(t, err)
	assert.Equal(t, int64(7), c.ID)
	assert.Nil(t, c.Details)
}

func TestScanCustomerDetailsWithNullDOB(t *testing.T) {
	row := customerRow(
		pgtype.Int8{Int64: 11, Valid: true},
		pgtype.Text{String: "F", Valid: true},
		pgtype.Text{String: "Surat", Valid: true},
		pgtype.Date{},
	)

	c, err := scanCustomer(row)

	require.NoError(t, err)
	require.NotNil(t, c.Details)
	assert.True(t, c.Details.DOB.IsZero())
	assert.Equal(t, "", FormatDOB(c.Details.DOB))
}

func TestScanCustomerPropagatesScanError(t *testing.T) {
	_, err := scanCustomer(fakeRow{err: errors.New("conn reset")})

	assert.EqualError(t, err, "conn reset")
}
