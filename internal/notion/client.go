package notion

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dgallion1/newsdesk/internal/metrics"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultBaseURL = "https://api.notion.com/v1"
	DefaultVersion = "2022-06-28"

	childPageSize = 100
)

// Client reads pages and block children from the Notion REST API.
type Client struct {
	baseURL    string
	token      string
	version    string
	httpClient *http.Client
}

func NewClient(baseURL, token, version string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if version == "" {
		version = DefaultVersion
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		version: version,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchNode retrieves a page's metadata and its full child listing. The two
// reads are independent and run concurrently; if either fails the whole node
// fails.
func (c *Client) FetchNode(ctx context.Context, pageID string) (*Page, []Block, error) {
	var (
		page   *Page
		blocks []Block
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := c.GetPage(gctx, pageID)
		if err != nil {
			return err
		}
		page = p
		return nil
	})
	g.Go(func() error {
		b, err := c.ListChildren(gctx, pageID)
		if err != nil {
			return err
		}
		blocks = b
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return page, blocks, nil
}

// GetPage retrieves page metadata by id.
func (c *Client) GetPage(ctx context.Context, pageID string) (*Page, error) {
	var page Page
	if err := c.get(ctx, "get_page", "/pages/"+url.PathEscape(pageID), &page); err != nil {
		return nil, &FetchError{PageID: pageID, Op: "page", Err: err}
	}
	return &page, nil
}

// ListChildren returns every block directly under a page, following
// pagination cursors until the listing is exhausted.
func (c *Client) ListChildren(ctx context.Context, pageID string) ([]Block, error) {
	var all []Block
	cursor := ""
	for {
		q := url.Values{}
		q.Set("page_size", fmt.Sprintf("%d", childPageSize))
		if cursor != "" {
			q.Set("start_cursor", cursor)
		}
		path := "/blocks/" + url.PathEscape(pageID) + "/children?" + q.Encode()

		var list blockList
		if err := c.get(ctx, "list_children", path, &list); err != nil {
			return nil, &FetchError{PageID: pageID, Op: "children", Err: err}
		}
		all = append(all, list.Results...)

		if !list.HasMore || list.NextCursor == nil || *list.NextCursor == "" {
			return all, nil
		}
		cursor = *list.NextCursor
	}
}

func (c *Client) get(ctx context.Context, op, path string, out any) (err error) {
	started := time.Now()
	defer func() { metrics.RecordUpstream("notion", op, err, started) }()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.token)
	httpReq.Header.Set("Notion-Version", c.version)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("notion api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if jsonErr := json.Unmarshal(body, apiErr); jsonErr != nil || apiErr.Message == "" {
			apiErr.Message = truncate(string(body), 200)
		}
		apiErr.StatusCode = resp.StatusCode
		return apiErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
