// Package holdings loads and validates the portfolio file. The file is
// read once per run; a single malformed row aborts the run because no
// trustworthy snapshot can be computed from corrupt inputs.
package holdings

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/folio/internal/entity"
	"gopkg.in/yaml.v3"
)

type holdingTmp struct {
	Symbol        string `yaml:"symbol"`
	Company       string `yaml:"company"`
	PurchaseDate  string `yaml:"purchase_date"`
	PurchasePrice string `yaml:"purchase_price"`
	Quantity      int64  `yaml:"quantity"`
}

type portfolioFile struct {
	Holdings []holdingTmp `yaml:"holdings"`
}

// Load reads the portfolio YAML file and returns validated holdings.
func Load(path string) ([]entity.Holding, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read portfolio file %s", path)
	}

	var file portfolioFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, errors.Wrapf(err, "parse portfolio file %s", path)
	}
	if len(file.Holdings) == 0 {
		return nil, errors.Wrapf(entity.ErrInvalidHolding, "portfolio file %s has no holdings", path)
	}

	result := make([]entity.Holding, 0, len(file.Holdings))
	for i, tmp := range file.Holdings {
		h, err := fromTmp(tmp)
		if err != nil {
			return nil, errors.Wrapf(err, "holdings row %d", i+1)
		}
		if err := h.Validate(); err != nil {
			return nil, errors.Wrapf(err, "holdings row %d", i+1)
		}
		result = append(result, h)
	}

	return result, nil
}

func fromTmp(tmp holdingTmp) (entity.Holding, error) {
	price, err := decimal.NewFromString(tmp.PurchasePrice)
	if err != nil {
		return entity.Holding{}, errors.Wrapf(entity.ErrInvalidHolding, "%s: bad purchase price %q", tmp.Symbol, tmp.PurchasePrice)
	}

	var purchased time.Time
	if tmp.PurchaseDate != "" {
		purchased, err = time.Parse(entity.DateLayout, tmp.PurchaseDate)
		if err != nil {
			return entity.Holding{}, errors.Wrapf(entity.ErrInvalidHolding, "%s: bad purchase date %q", tmp.Symbol, tmp.PurchaseDate)
		}
	}

	return entity.Holding{
		Symbol:        tmp.Symbol,
		CompanyName:   tmp.Company,
		PurchaseDate:  purchased,
		PurchasePrice: price,
		Quantity:      tmp.Quantity,
	}, nil
}

// WriteSample writes a starter portfolio file so a fresh install has
// something to run against.
func WriteSample(path string) error {
	sample := portfolioFile{
		Holdings: []holdingTmp{
			{Symbol: "TATAMOTORS", Company: "Tata Motors", PurchaseDate: "2024-01-15", PurchasePrice: "800", Quantity: 100},
			{Symbol: "TATASTEEL", Company: "Tata Steel", PurchaseDate: "2024-01-20", PurchasePrice: "120", Quantity: 500},
			{Symbol: "INFY", Company: "Infosys", PurchaseDate: "2024-02-01", PurchasePrice: "1500", Quantity: 50},
			{Symbol: "ONGC", Company: "ONGC", PurchaseDate: "2024-03-20", PurchasePrice: "150", Quantity: 300},
			{Symbol: "NTPC", Company: "NTPC", PurchaseDate: "2024-04-10", PurchasePrice: "200", Quantity: 200},
			{Symbol: "IRCTC", Company: "IRCTC", PurchaseDate: "2024-04-15", PurchasePrice: "800", Quantity: 50},
			{Symbol: "HCLTECH", Company: "HCL Tech", PurchaseDate: "2024-05-01", PurchasePrice: "1200", Quantity: 50},
		},
	}

	raw, err := yaml.Marshal(sample)
	if err != nil {
		return errors.Wrap(err, "marshal sample portfolio")
	}
	return os.WriteFile(path, raw, 0o644)
}
