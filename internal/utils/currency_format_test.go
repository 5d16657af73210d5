package utils_test

import (
	"testing"

	"github.com/MKH354/hutangku/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatIDR(t *testing.T) {
	assert.Equal(t, "Rp1.500.000", utils.FormatIDR(decimal.NewFromInt(1500000)))
	assert.Equal(t, "Rp500.000", utils.FormatIDR(decimal.NewFromInt(500000)))
	assert.Equal(t, "Rp850", utils.FormatIDR(decimal.NewFromInt(850)))
	assert.Equal(t, "Rp0", utils.FormatIDR(decimal.Zero))
}

func TestFormatIDRRoundsToWholeRupiah(t *testing.T) {
	assert.Equal(t, "Rp1.000", utils.FormatIDR(decimal.NewFromFloat(999.5)))
	assert.Equal(t, "Rp999", utils.FormatIDR(decimal.NewFromFloat(999.4)))
}
