package wildberries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"wbparser/internal/domain/model"
	"wbparser/internal/logging"
)

const (
	DefaultSearchURL = "https://search.wb.ru/exactmatch/ru/common/v4/search"
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0 Safari/537.36"
	defaultDest     = "-1257786"
	defaultCurrency = "rub"
	defaultTimeout  = 30 * time.Second

	// エラーログに残すレスポンス本文の長さ
	bodySnippetLen = 500

	// レスポンス本文の上限（検索1ページには十分な大きさ）
	maxBodyBytes = 16 << 20
)

type ClientOptions struct {
	SearchURL  string
	UserAgent  string
	Timeout    time.Duration
	Dest       string
	Currency   string
	HTTPClient *http.Client
	Logger     logging.Logger
}

// Client はWildberriesの検索APIを1回だけ叩く。リトライはしない。
type Client struct {
	searchURL string
	userAgent string
	dest      string
	currency  string
	http      *http.Client
	logger    logging.Logger
}

func NewClient(opts ClientOptions) (*Client, error) {
	searchURL := strings.TrimSpace(opts.SearchURL)
	if searchURL == "" {
		searchURL = DefaultSearchURL
	}
	if _, err := url.Parse(searchURL); err != nil {
		return nil, fmt.Errorf("invalid SearchURL: %w", err)
	}
	if opts.Logger == nil {
		return nil, errors.New("Logger is required")
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{
		searchURL: searchURL,
		userAgent: orDefault(opts.UserAgent, defaultUserAgent),
		dest:      orDefault(opts.Dest, defaultDest),
		currency:  orDefault(opts.Currency, defaultCurrency),
		http:      hc,
		logger:    opts.Logger,
	}, nil
}

// Search はqueryで検索し、最大limit件の生データを返す。
// 失敗（ステータス異常・JSON不正・通信エラー）はログに残して空を返す。
func (c *Client) Search(ctx context.Context, query string, limit int) (listings []model.RawListing) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Errorf("search %q: unexpected panic: %v", query, r)
			listings = nil
		}
	}()

	c.logger.Infof("search products: %q", query)

	listings, err := c.search(ctx, query, limit)
	if err != nil {
		c.logger.Errorf("search %q: %v", query, err)
		return nil
	}

	c.logger.Infof("api returned %d products, requested %d", len(listings), limit)
	if limit > 0 && len(listings) > limit {
		listings = listings[:limit]
		c.logger.Infof("truncated to %d products", limit)
	}
	return listings
}

func (c *Client) search(ctx context.Context, query string, limit int) ([]model.RawListing, error) {
	u, err := url.Parse(c.searchURL)
	if err != nil {
		return nil, err
	}
	u.RawQuery = c.params(query, limit).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxBodyBytes {
		return nil, fmt.Errorf("response body exceeds %d bytes", maxBodyBytes)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %s", resp.Status)
	}

	// Content-Typeがtext/plainでも中身はJSONのことがあるので見ない
	var sr model.SearchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		c.logger.Debugf("response body: %s", snippet(body))
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return c.decodeListings(sr.Data.Products), nil
}

// 1件ずつデコードし、型の合わないものはログに残して飛ばす。
func (c *Client) decodeListings(raws []json.RawMessage) []model.RawListing {
	out := make([]model.RawListing, 0, len(raws))
	for i, raw := range raws {
		var l model.RawListing
		if err := json.Unmarshal(raw, &l); err != nil {
			c.logger.Warnf("skip listing #%d: %v: %s", i, err, snippet(raw))
			continue
		}
		out = append(out, l)
	}
	return out
}

func (c *Client) params(query string, limit int) url.Values {
	q := url.Values{}
	q.Set("TestGroup", "no_test")
	q.Set("TestID", "no_test")
	q.Set("appType", "1")
	q.Set("curr", c.currency)
	q.Set("dest", c.dest)
	q.Set("resultset", "catalog")
	q.Set("sort", "popular")
	q.Set("spp", "0")
	q.Set("suppressSpellcheck", "false")
	q.Set("query", query)
	q.Set("page", "1")
	q.Set("limit", strconv.Itoa(limit))
	return q
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "ru-RU,ru;q=0.9,en;q=0.8")
	req.Header.Set("Sec-Fetch-Dest", "empty")
	req.Header.Set("Sec-Fetch-Mode", "cors")
	req.Header.Set("Sec-Fetch-Site", "same-site")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
}

func orDefault(v, def string) string {
	if s := strings.TrimSpace(v); s != "" {
		return s
	}
	return def
}

func snippet(b []byte) string {
	if len(b) > bodySnippetLen {
		return string(b[:bodySnippetLen]) + "..."
	}
	return string(b)
}
