package pricer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStooqPricer_ParsesCloseQuote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "infy.in", r.URL.Query().Get("s"))
		w.Write([]byte("Symbol,Date,Time,Open,High,Low,Close,Volume\nINFY.IN,2025-06-02,15:30:00,1480,1525.5,1475,1510.25,1200000\n"))
	}))
	defer server.Close()

	p := NewStooqPricerWithClient(server.Client(), server.URL, ".in")
	price, err := p.GetPrice(context.Background(), "INFY")
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.RequireFromString("1510.25")), "got %s", price)
}

func TestStooqPricer_UnknownSymbol(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("Symbol,Date,Time,Open,High,Low,Close,Volume\nNOPE,N/D,N/D,N/D,N/D,N/D,N/D,N/D\n"))
	}))
	defer server.Close()

	p := NewStooqPricerWithClient(server.Client(), server.URL, "")
	_, err := p.GetPrice(context.Background(), "NOPE")
	require.Error(t, err)
}

func TestStooqPricer_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	p := NewStooqPricerWithClient(server.Client(), server.URL, "")
	_, err := p.GetPrice(context.Background(), "X")
	require.Error(t, err)
}
