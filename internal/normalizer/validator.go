package normalizer

import (
	"errors"
	"fmt"

	"wbpanel/internal/models"
)

// Validation errors.
var (
	ErrMissingColumn    = errors.New("missing required column")
	ErrNoYearColumns    = errors.New("source file has no year columns")
	ErrNoCountryRows    = errors.New("source file has no country rows")
	ErrEmptyCountryName = errors.New("row has an empty country name")
	ErrDuplicateCountry = errors.New("duplicate country row")
	ErrDuplicateSource  = errors.New("indicator has more than one source")
)

// Validator checks the structure of a cleaned wide table.
type Validator struct{}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks that the table has year columns and uniquely named country
// rows. Every failure is a data-integrity error.
func (v *Validator) Validate(table *WideTable) error {
	if len(table.Header) == 0 {
		return fmt.Errorf("%w: %w", models.ErrDataIntegrity, ErrNoYearColumns)
	}

	if len(table.Rows) == 0 {
		return fmt.Errorf("%w: %w", models.ErrDataIntegrity, ErrNoCountryRows)
	}

	seen := make(map[string]int, len(table.Rows))

	for _, row := range table.Rows {
		if row.Country == "" {
			return fmt.Errorf("%w: %w at line %d", models.ErrDataIntegrity, ErrEmptyCountryName, row.Line)
		}

		if first, ok := seen[row.Country]; ok {
			return fmt.Errorf("%w: %w %q at lines %d and %d",
				models.ErrDataIntegrity, ErrDuplicateCountry, row.Country, first, row.Line)
		}

		seen[row.Country] = row.Line
	}

	return nil
}
