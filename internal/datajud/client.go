package datajud

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/rafaeldtavares/juristrack-backend/pkg/config"
	pkgerrors "github.com/rafaeldtavares/juristrack-backend/pkg/errors"
	"github.com/rafaeldtavares/juristrack-backend/pkg/logger"
)

const (
	defaultBaseURL              = "https://api-publica.datajud.cnj.jus.br"
	requestBodyReadLimit  int64 = 1024
	defaultRequestTimeout       = 30 * time.Second

	processCacheTTL     = time.Hour
	courtSearchCacheTTL = 30 * time.Minute
	detailsCacheTTL     = 2 * time.Hour
	courtsCacheTTL      = 24 * time.Hour

	partySearchSize         = 5
	defaultCourtSearchLimit = 10
	maxCourtSearchLimit     = 100
)

var errAPIKeyRequired = errors.New("datajud api key is required")

// Document is one raw process document as returned by DataJud. The client
// hands payloads through verbatim; flattening happens in the processes layer.
type Document = json.RawMessage

// SearchResult pairs a found document with the partition that produced it.
type SearchResult struct {
	Court    string   `json:"court"`
	Document Document `json:"document"`
}

// Client wraps the DataJud public search API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	cache      Cache
	logg       *logger.Logger
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured DataJud base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithCache attaches a read-through response cache.
func WithCache(cache Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithLogger attaches a logger for cache diagnostics.
func WithLogger(logg *logger.Logger) Option {
	return func(c *Client) {
		c.logg = logg
	}
}

// NewClient builds the DataJud client from configuration.
func NewClient(cfg config.DataJudConfig, opts ...Option) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	client := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
	if trimmed := strings.TrimSpace(cfg.BaseURL); trimmed != "" {
		client.baseURL = trimmed
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: timeout}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}

	return client, nil
}

// SearchByNumber finds a process by its CNJ number. The partition encoded in
// the number is queried first; on a miss the high-traffic fallback partitions
// are probed sequentially, first hit wins.
func (c *Client) SearchByNumber(ctx context.Context, rawNumber string) (*SearchResult, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "datajud client not configured")
	}
	number, err := FormatNumber(rawNumber)
	if err != nil {
		return nil, err
	}
	digits := nonDigitPattern.ReplaceAllString(number, "")

	cacheName := fmt.Sprintf("datajud_process_%s", digits)
	if cached, ok := c.cacheGet(ctx, cacheName); ok {
		var result SearchResult
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			return &result, nil
		}
	}

	body := searchBody{Query: matchQuery("numeroProcesso", number)}

	primary := CourtAliasFor(digits)
	courts := make([]string, 0, len(fallbackCourts)+1)
	courts = append(courts, primary)
	for _, court := range fallbackCourts {
		if court != primary {
			courts = append(courts, court)
		}
	}

	for _, court := range courts {
		docs, err := c.searchPartition(ctx, court, body)
		if err != nil {
			// A single broken partition must not mask a hit elsewhere.
			c.logWarn(ctx, fmt.Sprintf("datajud: partition %s failed: %v", court, err))
			continue
		}
		if len(docs) == 0 {
			continue
		}
		result := &SearchResult{Court: court, Document: docs[0]}
		c.cacheSet(ctx, cacheName, result, processCacheTTL)
		return result, nil
	}

	return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("process %s not found in any court", number))
}

// SearchByCourt lists recent documents from a single partition.
func (c *Client) SearchByCourt(ctx context.Context, court string, limit int) ([]Document, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "datajud client not configured")
	}
	court = strings.ToLower(strings.TrimSpace(court))
	if court == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "court code is required")
	}
	if limit <= 0 {
		limit = defaultCourtSearchLimit
	}
	if limit > maxCourtSearchLimit {
		limit = maxCourtSearchLimit
	}

	cacheName := fmt.Sprintf("datajud_court_%s_%d", court, limit)
	if cached, ok := c.cacheGet(ctx, cacheName); ok {
		var docs []Document
		if err := json.Unmarshal([]byte(cached), &docs); err == nil {
			return docs, nil
		}
	}

	docs, err := c.searchPartition(ctx, court, searchBody{Size: limit, Query: matchAllQuery()})
	if err != nil {
		return nil, err
	}
	c.cacheSet(ctx, cacheName, docs, courtSearchCacheTTL)
	return docs, nil
}

// SearchByParty fans out a party-name query across the high-traffic state
// courts. Partial partition failures are logged and swallowed; the call only
// fails when every partition errored and nothing was found.
func (c *Client) SearchByParty(ctx context.Context, name, partyType string) ([]Document, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "datajud client not configured")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "party name is required")
	}

	query := matchQuery("partes.nome", name)
	if trimmed := strings.TrimSpace(partyType); trimmed != "" {
		query = boolMustQuery(
			matchQuery("partes.nome", name),
			matchQuery("partes.tipo", trimmed),
		)
	}
	body := searchBody{Size: partySearchSize, Query: query}

	var (
		results []Document
		errs    error
	)
	for _, court := range partySearchCourts {
		docs, err := c.searchPartition(ctx, court, body)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", court, err))
			continue
		}
		results = append(results, docs...)
	}

	if len(results) == 0 && errs != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "party search failed in all courts")
	}
	if errs != nil {
		c.logWarn(ctx, fmt.Sprintf("datajud: party search partial failure: %v", errs))
	}
	return results, nil
}

// ProcessDetails fetches the full document for a known upstream process id.
func (c *Client) ProcessDetails(ctx context.Context, processID string) (Document, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "datajud client not configured")
	}
	processID = strings.TrimSpace(processID)
	if processID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "process id is required")
	}

	cacheName := fmt.Sprintf("datajud_details_%s", processID)
	if cached, ok := c.cacheGet(ctx, cacheName); ok {
		return Document(cached), nil
	}

	doc, err := c.getJSON(ctx, fmt.Sprintf("processos/%s", url.PathEscape(processID)))
	if err != nil {
		return nil, err
	}
	c.cacheSet(ctx, cacheName, doc, detailsCacheTTL)
	return doc, nil
}

// Movements fetches the movement list for a known upstream process id.
func (c *Client) Movements(ctx context.Context, processID string) ([]Document, error) {
	return c.getJSONList(ctx, processID, "movimentos")
}

// Parties fetches the party list for a known upstream process id.
func (c *Client) Parties(ctx context.Context, processID string) ([]Document, error) {
	return c.getJSONList(ctx, processID, "partes")
}

// Courts returns the static partition catalog.
func (c *Client) Courts(ctx context.Context) ([]Court, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "datajud client not configured")
	}

	const cacheName = "datajud_courts"
	if cached, ok := c.cacheGet(ctx, cacheName); ok {
		var courts []Court
		if err := json.Unmarshal([]byte(cached), &courts); err == nil {
			return courts, nil
		}
	}

	courts := make([]Court, len(knownCourts))
	copy(courts, knownCourts)
	c.cacheSet(ctx, cacheName, courts, courtsCacheTTL)
	return courts, nil
}

type searchBody struct {
	Size  int            `json:"size,omitempty"`
	Query map[string]any `json:"query"`
}

func matchQuery(field, value string) map[string]any {
	return map[string]any{"match": map[string]any{field: value}}
}

func matchAllQuery() map[string]any {
	return map[string]any{"match_all": map[string]any{}}
}

func boolMustQuery(clauses ...map[string]any) map[string]any {
	return map[string]any{"bool": map[string]any{"must": clauses}}
}

func (c *Client) searchPartition(ctx context.Context, court string, body searchBody) ([]Document, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal search request")
	}

	endpoint := fmt.Sprintf("%s/api_publica_%s/_search", strings.TrimRight(c.baseURL, "/"), court)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build search request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "APIKey "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute datajud request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(court, resp)
	}

	var apiResp struct {
		Hits struct {
			Hits []struct {
				Source json.RawMessage `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode datajud response")
	}

	docs := make([]Document, 0, len(apiResp.Hits.Hits))
	for _, hit := range apiResp.Hits.Hits {
		if len(hit.Source) > 0 {
			docs = append(docs, Document(hit.Source))
		}
	}
	return docs, nil
}

func (c *Client) getJSON(ctx context.Context, path string) (Document, error) {
	endpoint := fmt.Sprintf("%s/%s", strings.TrimRight(c.baseURL, "/"), path)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build datajud request")
	}
	httpReq.Header.Set("Authorization", "APIKey "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute datajud request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(path, resp)
	}

	doc, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read datajud response")
	}
	return Document(doc), nil
}

func (c *Client) getJSONList(ctx context.Context, processID, resource string) ([]Document, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "datajud client not configured")
	}
	processID = strings.TrimSpace(processID)
	if processID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "process id is required")
	}

	doc, err := c.getJSON(ctx, fmt.Sprintf("processos/%s/%s", url.PathEscape(processID), resource))
	if err != nil {
		return nil, err
	}

	var docs []Document
	if err := json.Unmarshal(doc, &docs); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode datajud list response")
	}
	return docs, nil
}

func statusError(scope string, resp *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, requestBodyReadLimit))
	detail := fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, detail, fmt.Sprintf("datajud endpoint unavailable (%s)", scope))
	case resp.StatusCode == http.StatusUnauthorized:
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, detail, "datajud authentication failed")
	case resp.StatusCode == http.StatusForbidden:
		return pkgerrors.Wrap(pkgerrors.CodeForbidden, detail, "datajud access denied")
	case resp.StatusCode >= http.StatusInternalServerError:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, detail, "datajud upstream error, retry later")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, detail, "datajud request rejected")
	}
}

func (c *Client) cacheGet(ctx context.Context, name string) (string, bool) {
	if c.cache == nil {
		return "", false
	}
	value, ok, err := c.cache.Get(ctx, name)
	if err != nil {
		c.logWarn(ctx, fmt.Sprintf("datajud: cache read failed for %s: %v", name, err))
		return "", false
	}
	return value, ok
}

func (c *Client) cacheSet(ctx context.Context, name string, value any, ttl time.Duration) {
	if c.cache == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, name, string(payload), ttl); err != nil {
		c.logWarn(ctx, fmt.Sprintf("datajud: cache write failed for %s: %v", name, err))
	}
}

func (c *Client) logWarn(ctx context.Context, msg string) {
	if c.logg != nil {
		c.logg.Warn(ctx, msg)
	}
}
