package doctree

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgallion1/newsdesk/internal/metrics"
	"github.com/dgallion1/newsdesk/internal/notion"
)

// DefaultMaxDepth bounds recursion when no depth is configured.
const DefaultMaxDepth = 3

var (
	ErrEmptyID       = errors.New("empty page id")
	ErrDepthExceeded = errors.New("max depth exceeded")
	ErrNodeLimit     = errors.New("node limit reached")
)

// Fetcher retrieves one page and its direct child listing.
type Fetcher interface {
	FetchNode(ctx context.Context, pageID string) (*notion.Page, []notion.Block, error)
}

// RootError reports that the root page itself could not be walked.
type RootError struct {
	PageID string
	Reason error
}

func (e *RootError) Error() string {
	return fmt.Sprintf("walk root %q: %v", e.PageID, e.Reason)
}

func (e *RootError) Unwrap() error { return e.Reason }

// Walker builds a page tree by recursive, depth-bounded fetching. Sibling
// pages are fetched one at a time in listing order.
type Walker struct {
	fetcher  Fetcher
	maxDepth int
	maxNodes int // 0 = unlimited
	log      *slog.Logger
}

func NewWalker(f Fetcher, maxDepth, maxNodes int, log *slog.Logger) *Walker {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Walker{fetcher: f, maxDepth: maxDepth, maxNodes: maxNodes, log: log}
}

// MaxDepth returns the configured depth bound.
func (w *Walker) MaxDepth() int { return w.maxDepth }

// walkState counts fetches within one Walk call.
type walkState struct {
	fetched int
}

// Walk fetches the tree rooted at pageID. Failures below the root drop the
// affected subtree; a failure at the root is returned as *RootError.
func (w *Walker) Walk(ctx context.Context, pageID string) (*Node, error) {
	st := &walkState{}
	res := w.walk(ctx, pageID, 0, st)
	metrics.RecordWalk(st.fetched)
	if res.Omitted() {
		return nil, &RootError{PageID: pageID, Reason: res.Reason}
	}
	return res.Node, nil
}

func (w *Walker) walk(ctx context.Context, pageID string, depth int, st *walkState) Subtree {
	if pageID == "" {
		return omitted(ErrEmptyID)
	}
	if depth > w.maxDepth {
		metrics.RecordOmitted("depth")
		return omitted(ErrDepthExceeded)
	}
	if w.maxNodes > 0 && st.fetched >= w.maxNodes {
		metrics.RecordOmitted("node_limit")
		return omitted(ErrNodeLimit)
	}
	if err := ctx.Err(); err != nil {
		return omitted(err)
	}

	st.fetched++
	page, blocks, err := w.fetcher.FetchNode(ctx, pageID)
	if err != nil {
		w.log.Warn("error fetching notion page", "page_id", pageID, "depth", depth, "error", err)
		metrics.RecordOmitted("fetch")
		return omitted(err)
	}
	if page == nil {
		page = &notion.Page{}
	}

	node := &Node{
		ID:    page.ID,
		Title: page.Title(),
		URL:   page.URL,
	}
	if node.ID == "" {
		node.ID = pageID
	}

	for _, b := range blocks {
		switch b.Type {
		case notion.BlockChildPage:
			node.Children = append(node.Children, Child{
				Kind: ChildPage,
				Page: w.walk(ctx, b.ID, depth+1, st),
			})
		case notion.BlockParagraph:
			node.Children = append(node.Children, Child{
				Kind:      ChildParagraph,
				Paragraph: Paragraph{ID: b.ID, Text: b.ParagraphText()},
			})
		}
	}
	return ok(node)
}
