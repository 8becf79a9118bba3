package normalizer

import (
	"errors"
	"testing"

	"wbpanel/internal/models"
)

func TestValidator_Validate(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		table   *WideTable
		wantErr error
	}{
		{
			name: "valid table",
			table: &WideTable{
				Header: []string{"2019"},
				Rows:   []WideRow{{Country: "Chile", Line: 6, Cells: []string{"1"}}},
			},
		},
		{
			name:    "no year columns",
			table:   &WideTable{Rows: []WideRow{{Country: "Chile"}}},
			wantErr: ErrNoYearColumns,
		},
		{
			name:    "no rows",
			table:   &WideTable{Header: []string{"2019"}},
			wantErr: ErrNoCountryRows,
		},
		{
			name: "empty country name",
			table: &WideTable{
				Header: []string{"2019"},
				Rows:   []WideRow{{Country: "", Line: 6, Cells: []string{"1"}}},
			},
			wantErr: ErrEmptyCountryName,
		},
		{
			name: "duplicate country",
			table: &WideTable{
				Header: []string{"2019"},
				Rows: []WideRow{
					{Country: "Chile", Line: 6, Cells: []string{"1"}},
					{Country: "Chile", Line: 7, Cells: []string{"2"}},
				},
			},
			wantErr: ErrDuplicateCountry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.table)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error = %v", err)
				}

				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}

			if !errors.Is(err, models.ErrDataIntegrity) {
				t.Errorf("Validate() error = %v, want a data integrity error", err)
			}
		})
	}
}
