package stooq

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/swingrank/internal/contracts"
	"github.com/wonny/swingrank/pkg/httputil"
	"github.com/wonny/swingrank/pkg/logger"
)

// Client fetches daily OHLCV bars from the Stooq CSV endpoint.
// Implements contracts.BarProvider.
type Client struct {
	httpClient *httputil.Client
	baseURL    string
	logger     *logger.Logger
}

// NewClient creates a new Stooq client.
func NewClient(httpClient *httputil.Client, baseURL string, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     log,
	}
}

// FetchDailyBars fetches daily bars for a US ticker over a date
// range, sorted ascending by date.
func (c *Client) FetchDailyBars(ctx context.Context, ticker string, from, to time.Time) ([]contracts.Bar, error) {
	symbol := strings.ToLower(ticker)
	if !strings.Contains(symbol, ".") {
		symbol += ".us"
	}

	fullURL := fmt.Sprintf(
		"%s/q/d/l/?s=%s&d1=%s&d2=%s&i=d",
		c.baseURL, symbol, from.Format("20060102"), to.Format("20060102"),
	)

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("fetch bars for %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch bars for %s: unexpected status code %d", ticker, resp.StatusCode)
	}

	bars, err := ParseCSV(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse bars for %s: %w", ticker, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"bars":   len(bars),
	}).Debug("Fetched daily bars")

	return bars, nil
}

// ParseCSV parses the Stooq daily CSV format
// (Date,Open,High,Low,Close,Volume) into ascending bars. Rows with
// unparseable numbers are skipped.
func ParseCSV(r io.Reader) ([]contracts.Bar, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	bars := make([]contracts.Bar, 0, len(records))
	for i, row := range records {
		if i == 0 || len(row) < 6 {
			continue // header or short row
		}

		date, err := time.Parse("2006-01-02", strings.TrimSpace(row[0]))
		if err != nil {
			continue
		}

		open, err1 := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		high, err2 := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		low, err3 := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
		closePrice, err4 := strconv.ParseFloat(strings.TrimSpace(row[4]), 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			continue
		}

		// Volume may be missing for indices
		volume, _ := strconv.ParseInt(strings.TrimSpace(row[5]), 10, 64)

		bars = append(bars, contracts.Bar{
			Date:   date,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: volume,
		})
	}

	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Date.Before(bars[j].Date)
	})

	return bars, nil
}
