package profile

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/swingrank/internal/contracts"
	"github.com/wonny/swingrank/pkg/httputil"
	"github.com/wonny/swingrank/pkg/logger"
)

// Scraper fetches ticker display metadata (name/sector/industry) from
// a stock profile page. The fields are pass-through only; scoring
// never reads them. Implements contracts.TickerInfoProvider.
type Scraper struct {
	httpClient *httputil.Client
	baseURL    string
	logger     *logger.Logger
}

// NewScraper creates a new profile scraper.
func NewScraper(httpClient *httputil.Client, baseURL string, log *logger.Logger) *Scraper {
	return &Scraper{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     log,
	}
}

// FetchTickerInfo fetches profile metadata for a ticker. A missing or
// unparseable profile is not fatal: the ticker is still scored, just
// without display metadata.
func (s *Scraper) FetchTickerInfo(ctx context.Context, ticker string) (*contracts.TickerInfo, error) {
	fullURL := fmt.Sprintf("%s/stocks/%s/", s.baseURL, strings.ToLower(ticker))

	resp, err := s.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("fetch profile for %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch profile for %s: unexpected status code %d", ticker, resp.StatusCode)
	}

	info, err := ParseProfile(resp.Body, ticker)
	if err != nil {
		return nil, fmt.Errorf("parse profile for %s: %w", ticker, err)
	}

	s.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"sector": info.Sector,
	}).Debug("Fetched ticker profile")

	return info, nil
}

// ParseProfile extracts name, sector and industry from a profile
// page. Name comes from the first h1; sector and industry from
// labeled table cells.
func ParseProfile(r io.Reader, ticker string) (*contracts.TickerInfo, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	info := &contracts.TickerInfo{Ticker: strings.ToUpper(ticker)}

	if h1 := doc.Find("h1").First(); h1.Length() > 0 {
		name := strings.TrimSpace(h1.Text())
		// Page titles come as "Company Name (TICK)"
		if idx := strings.LastIndex(name, "("); idx > 0 {
			name = strings.TrimSpace(name[:idx])
		}
		info.Name = name
	}

	doc.Find("table td, table th").Each(func(i int, sel *goquery.Selection) {
		label := strings.TrimSpace(sel.Text())
		switch label {
		case "Sector":
			info.Sector = strings.TrimSpace(sel.Next().Text())
		case "Industry":
			info.Industry = strings.TrimSpace(sel.Next().Text())
		}
	})

	return info, nil
}
