package datasource

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/finscopehq/finscope/pkg/models"
)

// DisclosureFeedURL is the DART recent-disclosure RSS feed.
const DisclosureFeedURL = "https://dart.fss.or.kr/api/todayRSS.xml"

// Disclosures fetches recent corporate filings from the DART RSS feed.
type Disclosures struct {
	feedURL string
	cache   *Cache
	limiter *RateLimiter
	parser  *gofeed.Parser
}

// NewDisclosures creates a disclosure feed source against the default feed.
func NewDisclosures() *Disclosures {
	return &Disclosures{
		feedURL: DisclosureFeedURL,
		cache:   NewCache(10 * time.Minute),
		limiter: NewRateLimiter(2, time.Second),
		parser:  gofeed.NewParser(),
	}
}

// NewDisclosuresWithURL creates a disclosure source for a custom feed URL,
// used in tests against a local server.
func NewDisclosuresWithURL(feedURL string) *Disclosures {
	d := NewDisclosures()
	d.feedURL = feedURL
	return d
}

// Recent returns the latest disclosures, newest first as the feed orders them.
func (d *Disclosures) Recent(ctx context.Context, limit int) ([]models.Disclosure, error) {
	cacheKey := fmt.Sprintf("disclosures:recent:%d", limit)
	if cached, ok := d.cache.Get(cacheKey); ok {
		return cached.([]models.Disclosure), nil
	}

	items, err := d.fetch(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	d.cache.Set(cacheKey, items)
	return items, nil
}

// ForCompany filters recent disclosures by company name mention in the title.
// DART titles are formatted as "회사명/보고서명", so containment is enough.
func (d *Disclosures) ForCompany(ctx context.Context, companyName string, limit int) ([]models.Disclosure, error) {
	all, err := d.Recent(ctx, 0)
	if err != nil {
		return nil, err
	}

	var filtered []models.Disclosure
	for _, item := range all {
		if strings.Contains(item.Title, companyName) || strings.Contains(item.Company, companyName) {
			filtered = append(filtered, item)
			if limit > 0 && len(filtered) >= limit {
				break
			}
		}
	}
	return filtered, nil
}

func (d *Disclosures) fetch(ctx context.Context) ([]models.Disclosure, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	feed, err := d.parser.ParseURLWithContext(d.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse disclosure feed: %w", err)
	}

	items := make([]models.Disclosure, 0, len(feed.Items))
	for _, item := range feed.Items {
		disc := models.Disclosure{
			Title:   strings.TrimSpace(item.Title),
			Link:    item.Link,
			Company: disclosureCompany(item.Title),
		}
		if item.PublishedParsed != nil {
			disc.PublishedAt = item.PublishedParsed.Format("2006-01-02 15:04")
		} else {
			disc.PublishedAt = item.Published
		}
		items = append(items, disc)
	}
	return items, nil
}

// disclosureCompany extracts the company half of a "회사명/보고서명" title.
func disclosureCompany(title string) string {
	if i := strings.Index(title, "/"); i > 0 {
		return strings.TrimSpace(title[:i])
	}
	return ""
}
