package datasource

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// NaverFinanceURL is the company overview page, keyed by 6-digit stock code.
const NaverFinanceURL = "https://finance.naver.com/item/main.naver?code=%s"

// IndustryLookup resolves a company's industry classification by scraping its
// Naver Finance page. The DART corp directory has no industry column, so this
// refines the keyword guess when a stock code is available.
type IndustryLookup struct {
	baseURL string
	cache   *Cache
	limiter *RateLimiter
}

// NewIndustryLookup creates an industry lookup against Naver Finance.
func NewIndustryLookup() *IndustryLookup {
	return &IndustryLookup{
		baseURL: NaverFinanceURL,
		cache:   NewCache(24 * time.Hour),
		limiter: NewRateLimiter(1, time.Second),
	}
}

// NewIndustryLookupWithURL creates a lookup against a custom URL template,
// used in tests against a local server.
func NewIndustryLookupWithURL(urlTemplate string) *IndustryLookup {
	l := NewIndustryLookup()
	l.baseURL = urlTemplate
	return l
}

// Industry scrapes the industry name for a stock code. Returns an empty
// string, not an error, when the page has no industry link so callers can
// fall back to the keyword guess.
func (l *IndustryLookup) Industry(ctx context.Context, stockCode string) (string, error) {
	stockCode = strings.TrimSpace(stockCode)
	if stockCode == "" {
		return "", fmt.Errorf("empty stock code")
	}

	cacheKey := "naver:industry:" + stockCode
	if cached, ok := l.cache.Get(cacheKey); ok {
		return cached.(string), nil
	}

	if err := l.limiter.Wait(ctx); err != nil {
		return "", err
	}

	headers := map[string]string{"User-Agent": DefaultUserAgent}
	body, _, err := doGet(ctx, fmt.Sprintf(l.baseURL, stockCode), headers)
	if err != nil {
		return "", fmt.Errorf("fetch naver finance %s: %w", stockCode, err)
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return "", fmt.Errorf("parse naver finance %s: %w", stockCode, err)
	}

	// The industry link sits in the peer-comparison section header, e.g.
	// "동일업종 비교 <em><a>반도체와반도체장비</a></em>".
	industry := strings.TrimSpace(doc.Find("div.section.trade_compare h4 em a").First().Text())
	if industry == "" {
		industry = strings.TrimSpace(doc.Find(".h_sub em a").First().Text())
	}

	l.cache.Set(cacheKey, industry)
	return industry, nil
}
