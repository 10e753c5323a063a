package notion

import (
	"fmt"
	"strings"
)

// UntitledPage is used when a page carries no title property.
const UntitledPage = "No Title"

// Block types the tree walker understands. Everything else is ignored.
const (
	BlockChildPage = "child_page"
	BlockParagraph = "paragraph"
)

// RichText is a single styled run of text.
type RichText struct {
	PlainText string `json:"plain_text"`
}

// Property is a page property. Only title properties are decoded.
type Property struct {
	Type  string     `json:"type"`
	Title []RichText `json:"title,omitempty"`
}

// Page is the response from GET /pages/{id}.
type Page struct {
	ID         string              `json:"id"`
	URL        string              `json:"url"`
	Properties map[string]Property `json:"properties"`
}

// Title returns the page title, preferring the property literally named
// "title" and falling back to any property of type title.
func (p *Page) Title() string {
	if p == nil {
		return UntitledPage
	}
	if prop, ok := p.Properties["title"]; ok && len(prop.Title) > 0 {
		return JoinPlainText(prop.Title)
	}
	for _, prop := range p.Properties {
		if prop.Type == "title" && len(prop.Title) > 0 {
			return JoinPlainText(prop.Title)
		}
	}
	return UntitledPage
}

// Block is a single child of a page as returned by GET /blocks/{id}/children.
type Block struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	HasChildren bool   `json:"has_children"`

	Paragraph *struct {
		RichText []RichText `json:"rich_text"`
	} `json:"paragraph,omitempty"`
	ChildPage *struct {
		Title string `json:"title"`
	} `json:"child_page,omitempty"`
}

// ParagraphText joins a paragraph's runs in order with no separator.
func (b Block) ParagraphText() string {
	if b.Paragraph == nil {
		return ""
	}
	return JoinPlainText(b.Paragraph.RichText)
}

// JoinPlainText concatenates the plain text of every run.
func JoinPlainText(runs []RichText) string {
	var sb strings.Builder
	for _, rt := range runs {
		sb.WriteString(rt.PlainText)
	}
	return sb.String()
}

type blockList struct {
	Results    []Block `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

// APIError is the error object Notion returns with non-2xx responses.
type APIError struct {
	StatusCode int    `json:"status"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("notion api status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("notion api status %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// FetchError reports a failure fetching one page or its children.
type FetchError struct {
	PageID string
	Op     string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s %s: %v", e.Op, e.PageID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
