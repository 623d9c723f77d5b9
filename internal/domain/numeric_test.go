package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

func TestFitsNumeric(t *testing.T) {
	cases := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"1.2345", true},
		{"1.234500", true},
		{"-3.5", true},
		{"0.00001", false},
		{"1.00005", false},
		{"99999999999999.9999", true},
		{"100000000000000", false},
	}
	for _, tc := range cases {
		t.Run(tc.value, func(t *testing.T) {
			assert.Equal(t, tc.want, domain.FitsNumeric(decimal.RequireFromString(tc.value), 18, 4))
		})
	}
}
