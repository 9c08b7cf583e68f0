package datasource

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/finscopehq/finscope/pkg/models"
)

// corpDirectory caches the full DART corp-code directory. The upstream file
// is a ZIP containing one CORPCODE.xml with every registered company; it only
// changes daily, so one fetch per TTL is enough.
type corpDirectory struct {
	client *Client
	ttl    time.Duration

	mu        sync.Mutex
	companies []directoryEntry
	fetchedAt time.Time
}

type directoryEntry struct {
	CorpCode   string `xml:"corp_code"`
	Name       string `xml:"corp_name"`
	NameEng    string `xml:"corp_eng_name"`
	StockCode  string `xml:"stock_code"`
	ModifyDate string `xml:"modify_date"`
}

type directoryFile struct {
	XMLName xml.Name         `xml:"result"`
	List    []directoryEntry `xml:"list"`
}

func newCorpDirectory(client *Client, ttl time.Duration) *corpDirectory {
	return &corpDirectory{client: client, ttl: ttl}
}

// entries returns the directory, fetching it at most once per TTL. The mutex
// guarantees a single in-flight download even under concurrent searches.
func (d *corpDirectory) entries(ctx context.Context) ([]directoryEntry, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.companies != nil && time.Since(d.fetchedAt) < d.ttl {
		return d.companies, nil
	}
	if d.client.SampleMode() {
		return nil, nil
	}

	entries, err := d.fetch(ctx)
	if err != nil {
		if d.companies != nil {
			log.Printf("dart: corp directory refresh failed, serving stale copy: %v", err)
			return d.companies, nil
		}
		return nil, err
	}

	d.companies = entries
	d.fetchedAt = time.Now()
	return d.companies, nil
}

func (d *corpDirectory) fetch(ctx context.Context) ([]directoryEntry, error) {
	if err := d.client.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("crtfc_key", d.client.apiKey)

	body, _, err := doGet(ctx, d.client.baseURL+"/corpCode.xml?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("dart corpCode.xml: %w", err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read corp directory: %w", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("open corp directory zip: %w", err)
	}

	var xmlFile *zip.File
	for _, f := range zr.File {
		if strings.EqualFold(f.Name, "CORPCODE.xml") {
			xmlFile = f
			break
		}
	}
	if xmlFile == nil {
		return nil, fmt.Errorf("corp directory zip has no CORPCODE.xml")
	}

	rc, err := xmlFile.Open()
	if err != nil {
		return nil, fmt.Errorf("open CORPCODE.xml: %w", err)
	}
	defer rc.Close()

	var parsed directoryFile
	if err := xml.NewDecoder(rc).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode CORPCODE.xml: %w", err)
	}

	// Only listed companies have financial statements worth analyzing;
	// unlisted entries carry a blank stock code.
	listed := make([]directoryEntry, 0, len(parsed.List)/10)
	for _, e := range parsed.List {
		if strings.TrimSpace(e.StockCode) != "" {
			listed = append(listed, e)
		}
	}
	return listed, nil
}

// search matches by Korean name, English name, or stock code containment,
// falling back to the sample table in sample mode or on fetch failure.
func (d *corpDirectory) search(ctx context.Context, query string, limit int) ([]models.Company, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty search query")
	}

	entries, err := d.entries(ctx)
	if err != nil {
		log.Printf("dart: corp directory unavailable, searching sample companies: %v", err)
	}
	if len(entries) == 0 {
		return searchSampleCompanies(query, limit), nil
	}

	lower := strings.ToLower(query)
	var matches []models.Company
	for _, e := range entries {
		if !strings.Contains(e.Name, query) &&
			!strings.Contains(strings.ToLower(e.NameEng), lower) &&
			!strings.Contains(e.StockCode, query) {
			continue
		}
		matches = append(matches, directoryCompany(e))
		if len(matches) >= limit {
			break
		}
	}
	if len(matches) == 0 {
		return nil, ErrCompanyNotFound
	}
	return matches, nil
}

// lookup resolves a corp code against the directory. The directory carries no
// industry field, so the industry is guessed from the company name.
func (d *corpDirectory) lookup(ctx context.Context, corpCode string) (*models.Company, bool) {
	entries, err := d.entries(ctx)
	if err != nil || len(entries) == 0 {
		return nil, false
	}
	for _, e := range entries {
		if e.CorpCode == corpCode {
			company := directoryCompany(e)
			return &company, true
		}
	}
	return nil, false
}

func directoryCompany(e directoryEntry) models.Company {
	return models.Company{
		CorpCode:   e.CorpCode,
		Name:       e.Name,
		NameEng:    e.NameEng,
		StockCode:  strings.TrimSpace(e.StockCode),
		Industry:   guessIndustry(e.Name),
		ModifyDate: e.ModifyDate,
	}
}

// industryKeywords maps company-name fragments to benchmark industries. The
// corp directory has no industry column, so this keeps benchmark selection
// sensible until a Naver Finance lookup refines it.
var industryKeywords = []struct {
	keyword  string
	industry string
}{
	{"반도체", "반도체 제조업"},
	{"하이닉스", "반도체 제조업"},
	{"전자", "전자제품 제조업"},
	{"자동차", "자동차 제조업"},
	{"현대", "자동차 제조업"},
	{"기아", "자동차 제조업"},
	{"카카오", "인터넷 서비스업"},
	{"네이버", "인터넷 서비스업"},
	{"NAVER", "인터넷 서비스업"},
	{"엔씨소프트", "게임 소프트웨어 개발 및 공급업"},
	{"넷마블", "게임 소프트웨어 개발 및 공급업"},
	{"은행", "은행업"},
	{"금융지주", "은행업"},
	{"증권", "증권업"},
	{"건설", "종합 건설업"},
	{"물산", "종합 건설업"},
	{"제약", "의약품 제조업"},
	{"바이오", "의약품 제조업"},
	{"화학", "화학물질 및 화학제품 제조업"},
	{"통신", "전기 통신업"},
	{"텔레콤", "전기 통신업"},
	{"항공", "항공 운송업"},
	{"유통", "종합 소매업"},
	{"백화점", "종합 소매업"},
	{"마트", "종합 소매업"},
	{"식품", "식료품 제조업"},
}

func guessIndustry(name string) string {
	for _, k := range industryKeywords {
		if strings.Contains(name, k.keyword) {
			return k.industry
		}
	}
	return "제조업"
}
