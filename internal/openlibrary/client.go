// Package openlibrary is the client for the external book directory.
// The service only ever uses it as input to the dedup-and-create step;
// nothing is written back.
package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const DefaultBaseURL = "https://openlibrary.org"

// Result 搜索候选的书目元数据
type Result struct {
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	ISBN      *string `json:"isbn"`
	CoverURL  string  `json:"cover_url"`
	Synopsis  string  `json:"synopsis"`
	PageCount *int    `json:"page_count"`
	Year      *int    `json:"year"`
}

type searchDoc struct {
	Title               string   `json:"title"`
	AuthorName          []string `json:"author_name"`
	ISBN                []string `json:"isbn"`
	CoverI              int      `json:"cover_i"`
	FirstPublishYear    int      `json:"first_publish_year"`
	Subject             []string `json:"subject"`
	NumberOfPagesMedian int      `json:"number_of_pages_median"`
}

type searchResponse struct {
	Docs     []searchDoc `json:"docs"`
	NumFound int         `json:"numFound"`
}

// Client Open Library 搜索客户端，结果可选地写入 Redis 缓存。
// cache 为 nil 时直接透传。
type Client struct {
	httpClient *http.Client
	baseURL    string
	cache      *redis.Client
	cacheTTL   time.Duration
	logger     *zap.Logger
}

func NewClient(baseURL string, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

const searchFields = "title,author_name,isbn,cover_i,first_publish_year,subject,number_of_pages_median"

// Search 按自由文本查询书目，最多返回 limit 条候选。
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	cacheKey := fmt.Sprintf("openlibrary:search:%d:%s", limit, query)
	if results, ok := c.fromCache(ctx, cacheKey); ok {
		return results, nil
	}

	endpoint := fmt.Sprintf("%s/search.json?q=%s&limit=%d&fields=%s",
		c.baseURL, url.QueryEscape(query), limit, searchFields)

	results, err := c.fetch(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	c.toCache(ctx, cacheKey, results)
	return results, nil
}

// ByISBN 按 ISBN 精确查询，未找到返回 (nil, nil)。
func (c *Client) ByISBN(ctx context.Context, isbn string) (*Result, error) {
	cacheKey := "openlibrary:isbn:" + isbn
	if results, ok := c.fromCache(ctx, cacheKey); ok {
		if len(results) == 0 {
			return nil, nil
		}
		return &results[0], nil
	}

	endpoint := fmt.Sprintf("%s/search.json?isbn=%s&fields=%s",
		c.baseURL, url.QueryEscape(isbn), searchFields)

	results, err := c.fetch(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	c.toCache(ctx, cacheKey, results)
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}

func (c *Client) fetch(ctx context.Context, endpoint string) ([]Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("book directory request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("book directory returned status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode book directory response: %w", err)
	}

	results := make([]Result, 0, len(parsed.Docs))
	for _, doc := range parsed.Docs {
		results = append(results, mapDoc(doc))
	}
	return results, nil
}

func mapDoc(doc searchDoc) Result {
	result := Result{
		Title:  doc.Title,
		Author: "Unknown Author",
	}
	if len(doc.AuthorName) > 0 {
		result.Author = doc.AuthorName[0]
	}
	if len(doc.ISBN) > 0 {
		isbn := doc.ISBN[0]
		result.ISBN = &isbn
	}
	if doc.CoverI != 0 {
		result.CoverURL = fmt.Sprintf("https://covers.openlibrary.org/b/id/%d-M.jpg", doc.CoverI)
	}
	// 没有独立的简介字段，沿用前三个主题词
	if len(doc.Subject) > 0 {
		n := min(3, len(doc.Subject))
		synopsis := doc.Subject[0]
		for _, s := range doc.Subject[1:n] {
			synopsis += ", " + s
		}
		result.Synopsis = synopsis
	}
	if doc.NumberOfPagesMedian != 0 {
		pages := doc.NumberOfPagesMedian
		result.PageCount = &pages
	}
	if doc.FirstPublishYear != 0 {
		year := doc.FirstPublishYear
		result.Year = &year
	}
	return result
}

func (c *Client) fromCache(ctx context.Context, key string) ([]Result, bool) {
	if c.cache == nil {
		return nil, false
	}
	raw, err := c.cache.Get(ctx, key).Result()
	if err != nil {
		return nil, false
	}
	var results []Result
	if err := json.Unmarshal([]byte(raw), &results); err != nil {
		return nil, false
	}
	return results, true
}

func (c *Client) toCache(ctx context.Context, key string, results []Result) {
	if c.cache == nil {
		return
	}
	bytes, err := json.Marshal(results)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, bytes, c.cacheTTL).Err(); err != nil {
		c.logger.Warn("failed to cache book directory results", zap.String("key", key), zap.Error(err))
	}
}
