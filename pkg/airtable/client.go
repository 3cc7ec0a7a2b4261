// Package airtable provides a lightweight Airtable REST API client.
// Uses raw HTTP calls (no SDK); record payloads are returned as raw JSON so
// callers decode them into their own table types.
package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultAPIURL は Airtable REST API のベース URL
const DefaultAPIURL = "https://api.airtable.com/v0"

// ListOptions は一覧取得のクエリパラメータ
type ListOptions struct {
	FilterByFormula string
	PageSize        int // 0 = API default (100)
	MaxRecords      int // 0 = unlimited
}

// Client は Airtable API クライアントのインターフェース
type Client interface {
	// List はテーブルのレコードを offset を辿って全件返す
	List(ctx context.Context, table string, opts ListOptions) ([]json.RawMessage, error)
	// Get は ID でレコードを1件取得する
	Get(ctx context.Context, table, id string) (json.RawMessage, error)
	// Create は fields でレコードを作成し、作成されたレコードを返す
	Create(ctx context.Context, table string, fields any) (json.RawMessage, error)
	// Update は fields を部分更新 (PATCH) し、更新後のレコードを返す
	Update(ctx context.Context, table, id string, fields any) (json.RawMessage, error)
	// Delete はレコードを削除する
	Delete(ctx context.Context, table, id string) error
}

// APIError は Airtable が 2xx 以外を返した場合のエラー
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("airtable error: %s - %s", e.Status, e.Body)
}

// IsNotFound は err が Airtable の 404 かを返す
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// ErrNotConfigured は base ID / token が設定されていない場合のエラー
var ErrNotConfigured = errors.New("airtable: not configured")

// RealClient は Airtable API への raw HTTP クライアント実装
type RealClient struct {
	BaseID     string
	Token      string
	APIURL     string
	httpClient *http.Client
}

// NewClient は RealClient を生成する
func NewClient(baseID, token string) *RealClient {
	return &RealClient{
		BaseID:     baseID,
		Token:      token,
		APIURL:     DefaultAPIURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// WithAPIURL は API のベース URL を差し替える（テスト・プロキシ用）
func (c *RealClient) WithAPIURL(apiURL string) *RealClient {
	c.APIURL = strings.TrimRight(apiURL, "/")
	return c
}

type listResponse struct {
	Records []json.RawMessage `json:"records"`
	Offset  string            `json:"offset"`
}

// List は filterByFormula 等を付けてレコード一覧を取得する
func (c *RealClient) List(ctx context.Context, table string, opts ListOptions) ([]json.RawMessage, error) {
	records := []json.RawMessage{}
	offset := ""
	for {
		q := url.Values{}
		if opts.FilterByFormula != "" {
			q.Set("filterByFormula", opts.FilterByFormula)
		}
		if opts.PageSize > 0 {
			q.Set("pageSize", strconv.Itoa(opts.PageSize))
		}
		if opts.MaxRecords > 0 {
			q.Set("maxRecords", strconv.Itoa(opts.MaxRecords))
		}
		if offset != "" {
			q.Set("offset", offset)
		}

		var page listResponse
		if err := c.do(ctx, http.MethodGet, c.tableURL(table, "")+encodeQuery(q), nil, &page); err != nil {
			return nil, err
		}
		records = append(records, page.Records...)

		if page.Offset == "" || (opts.MaxRecords > 0 && len(records) >= opts.MaxRecords) {
			return records, nil
		}
		offset = page.Offset
	}
}

// Get は GET /<table>/<id>
func (c *RealClient) Get(ctx context.Context, table, id string) (json.RawMessage, error) {
	var rec json.RawMessage
	if err := c.do(ctx, http.MethodGet, c.tableURL(table, id), nil, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Create は POST /<table> に {"fields": ...} を送る
func (c *RealClient) Create(ctx context.Context, table string, fields any) (json.RawMessage, error) {
	var rec json.RawMessage
	body := map[string]any{"fields": fields}
	if err := c.do(ctx, http.MethodPost, c.tableURL(table, ""), body, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Update は PATCH /<table>/<id> に {"fields": ...} を送る
func (c *RealClient) Update(ctx context.Context, table, id string, fields any) (json.RawMessage, error) {
	var rec json.RawMessage
	body := map[string]any{"fields": fields}
	if err := c.do(ctx, http.MethodPatch, c.tableURL(table, id), body, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete は DELETE /<table>/<id>
func (c *RealClient) Delete(ctx context.Context, table, id string) error {
	var result struct {
		Deleted bool   `json:"deleted"`
		ID      string `json:"id"`
	}
	return c.do(ctx, http.MethodDelete, c.tableURL(table, id), nil, &result)
}

func (c *RealClient) tableURL(table, id string) string {
	u := c.APIURL + "/" + url.PathEscape(c.BaseID) + "/" + url.PathEscape(table)
	if id != "" {
		u += "/" + url.PathEscape(id)
	}
	return u
}

func encodeQuery(q url.Values) string {
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func (c *RealClient) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.BaseID == "" || c.Token == "" {
		return ErrNotConfigured
	}

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Content-Type", "application/json")

	slog.Debug("airtable request", "method", method, "url", endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("airtable %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		apiErr := &APIError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(text)}
		slog.Warn("airtable error", "method", method, "url", endpoint, "status", resp.StatusCode, "body", apiErr.Body)
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("airtable %s %s: decode: %w", method, endpoint, err)
	}
	return nil
}

// Formula は `{field} = "value"` 形式の filterByFormula を組み立てる。
// value 中のバックスラッシュとダブルクオートはエスケープする。
func Formula(field, value string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(value)
	return fmt.Sprintf(`{%s} = "%s"`, field, escaped)
}
