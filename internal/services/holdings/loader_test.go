package holdings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/folio/internal/entity"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "portfolio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ValidFile(t *testing.T) {
	path := writeFile(t, `
holdings:
  - symbol: INFY
    company: Infosys
    purchase_date: "2024-02-01"
    purchase_price: "1500"
    quantity: 50
  - symbol: ONGC
    purchase_price: "150.25"
    quantity: 300
`)

	held, err := Load(path)
	require.NoError(t, err)
	require.Len(t, held, 2)

	assert.Equal(t, "INFY", held[0].Symbol)
	assert.Equal(t, "Infosys", held[0].CompanyName)
	assert.Equal(t, int64(50), held[0].Quantity)
	assert.True(t, held[0].PurchasePrice.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, 2024, held[0].PurchaseDate.Year())

	assert.True(t, held[1].PurchasePrice.Equal(decimal.RequireFromString("150.25")))
}

func TestLoad_InvalidRowsAbort(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "negative quantity",
			content: `
holdings:
  - symbol: X
    purchase_price: "100"
    quantity: -5
`,
		},
		{
			name: "bad price",
			content: `
holdings:
  - symbol: X
    purchase_price: "not-a-number"
    quantity: 5
`,
		},
		{
			name: "empty symbol",
			content: `
holdings:
  - symbol: ""
    purchase_price: "100"
    quantity: 5
`,
		},
		{
			name: "bad purchase date",
			content: `
holdings:
  - symbol: X
    purchase_date: "01/02/2024"
    purchase_price: "100"
    quantity: 5
`,
		},
		{
			name:    "no holdings at all",
			content: `holdings: []`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.content))
			require.Error(t, err)
			assert.ErrorIs(t, err, entity.ErrInvalidHolding)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestWriteSample_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.yaml")
	require.NoError(t, WriteSample(path))

	held, err := Load(path)
	require.NoError(t, err)
	assert.NotEmpty(t, held)
	for _, h := range held {
		assert.NoError(t, h.Validate())
	}
}
