package datasource

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/finscopehq/finscope/internal/config"
	"github.com/finscopehq/finscope/pkg/models"
)

// Aggregator fetches and merges company data from all sources concurrently.
type Aggregator struct {
	dart        *Client
	disclosures *Disclosures
	industry    *IndustryLookup
}

// NewAggregator creates an aggregator with all default sources.
func NewAggregator(cfg config.DARTConfig) *Aggregator {
	return &Aggregator{
		dart:        NewClient(cfg),
		disclosures: NewDisclosures(),
		industry:    NewIndustryLookup(),
	}
}

// DART returns the DART client for direct access.
func (a *Aggregator) DART() *Client { return a.dart }

// Disclosures returns the disclosure feed source for direct access.
func (a *Aggregator) Disclosures() *Disclosures { return a.disclosures }

// FetchProfile assembles a company profile: the DART company record, the
// requested fiscal years of statements, recent filings, and an industry
// refinement from Naver Finance. Sub-source failures are non-fatal; the
// profile carries whatever could be fetched plus the accumulated errors.
func (a *Aggregator) FetchProfile(ctx context.Context, corpCode string, years []int) (*models.CompanyProfile, error) {
	profile := &models.CompanyProfile{
		FetchedAt: time.Now(),
	}

	company, err := a.dart.CompanyInfo(ctx, corpCode)
	if err != nil {
		return nil, fmt.Errorf("company info %s: %w", corpCode, err)
	}
	profile.Company = *company

	var mu sync.Mutex
	var errs []error

	g, gctx := errgroup.WithContext(ctx)

	// 1. Financial statements for each requested year.
	g.Go(func() error {
		statements := a.dart.MultiYearFinancial(gctx, corpCode, years)
		mu.Lock()
		profile.Statements = statements
		if len(statements) == 0 {
			errs = append(errs, fmt.Errorf("statements: no data for %v", years))
		}
		mu.Unlock()
		return nil
	})

	// 2. Recent filings mentioning the company.
	g.Go(func() error {
		filings, err := a.disclosures.ForCompany(gctx, company.Name, 10)
		if err != nil {
			mu.Lock()
			errs = append(errs, fmt.Errorf("disclosures: %w", err))
			mu.Unlock()
			return nil // non-fatal
		}
		mu.Lock()
		profile.Disclosures = filings
		mu.Unlock()
		return nil
	})

	// 3. Industry refinement from Naver Finance, when a stock code exists.
	if company.StockCode != "" {
		g.Go(func() error {
			industry, err := a.industry.Industry(gctx, company.StockCode)
			if err != nil || industry == "" {
				if err != nil {
					mu.Lock()
					errs = append(errs, fmt.Errorf("industry: %w", err))
					mu.Unlock()
				}
				return nil // non-fatal, keep the directory guess
			}
			mu.Lock()
			profile.Company.Industry = industry
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(errs) > 0 {
		profile.Partial = true
		profile.Errors = errorStrings(errs)
	}
	return profile, nil
}

func errorStrings(errs []error) []string {
	out := make([]string, 0, len(errs))
	for _, err := range errs {
		if err != nil && !errors.Is(err, context.Canceled) {
			out = append(out, err.Error())
		}
	}
	return out
}
