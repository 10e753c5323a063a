package notion

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "secret_test", "", 5*time.Second)
}

func TestFetchNode_PageAndChildren(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret_test", r.Header.Get("Authorization"))
		assert.Equal(t, DefaultVersion, r.Header.Get("Notion-Version"))
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/pages/root":
			w.Write([]byte(`{"id":"root","url":"https://notion.so/root","properties":{"title":{"type":"title","title":[{"plain_text":"Weekly"},{"plain_text":" Notes"}]}}}`))
		case "/blocks/root/children":
			assert.Equal(t, "100", r.URL.Query().Get("page_size"))
			w.Write([]byte(`{"results":[
				{"id":"p1","type":"paragraph","paragraph":{"rich_text":[{"plain_text":"hel"},{"plain_text":"lo"}]}},
				{"id":"c1","type":"child_page","child_page":{"title":"Sub"}}
			],"has_more":false,"next_cursor":null}`))
		default:
			http.NotFound(w, r)
		}
	})

	page, blocks, err := c.FetchNode(context.Background(), "root")
	require.NoError(t, err)
	assert.Equal(t, "root", page.ID)
	assert.Equal(t, "https://notion.so/root", page.URL)
	assert.Equal(t, "Weekly Notes", page.Title())
	require.Len(t, blocks, 2)
	assert.Equal(t, BlockParagraph, blocks[0].Type)
	assert.Equal(t, "hello", blocks[0].ParagraphText())
	assert.Equal(t, BlockChildPage, blocks[1].Type)
}

func TestListChildren_FollowsCursor(t *testing.T) {
	var calls int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		switch r.URL.Query().Get("start_cursor") {
		case "":
			w.Write([]byte(`{"results":[{"id":"a","type":"paragraph"}],"has_more":true,"next_cursor":"cur-2"}`))
		case "cur-2":
			w.Write([]byte(`{"results":[{"id":"b","type":"paragraph"}],"has_more":false,"next_cursor":null}`))
		default:
			t.Errorf("unexpected cursor %q", r.URL.Query().Get("start_cursor"))
		}
	})

	blocks, err := c.ListChildren(context.Background(), "root")
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, "a", blocks[0].ID)
	assert.Equal(t, "b", blocks[1].ID)
	assert.Equal(t, 2, calls)
}

func TestGetPage_APIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"object":"error","status":404,"code":"object_not_found","message":"Could not find page"}`))
	})

	_, err := c.GetPage(context.Background(), "missing")
	require.Error(t, err)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "missing", fetchErr.PageID)
	assert.Equal(t, "page", fetchErr.Op)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "object_not_found", apiErr.Code)
}

func TestGetPage_NonJSONErrorBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	})

	_, err := c.GetPage(context.Background(), "x")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "upstream down", apiErr.Message)
}

func TestFetchNode_ChildrenFailureFailsNode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/pages/root" {
			w.Write([]byte(`{"id":"root","properties":{}}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	})

	page, blocks, err := c.FetchNode(context.Background(), "root")
	require.Error(t, err)
	assert.Nil(t, page)
	assert.Nil(t, blocks)
}

func TestPageTitle(t *testing.T) {
	tests := []struct {
		name string
		page *Page
		want string
	}{
		{"nil page", nil, UntitledPage},
		{"no properties", &Page{}, UntitledPage},
		{"empty title runs", &Page{Properties: map[string]Property{"title": {Type: "title"}}}, UntitledPage},
		{"named title", &Page{Properties: map[string]Property{"title": {Type: "title", Title: []RichText{{PlainText: "A"}}}}}, "A"},
		{"database title column", &Page{Properties: map[string]Property{
			"Status": {Type: "select"},
			"Name":   {Type: "title", Title: []RichText{{PlainText: "Row"}}},
		}}, "Row"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.page.Title())
		})
	}
}
