package doctree

import "encoding/json"

// Node is one fetched page with its ordered children.
type Node struct {
	ID       string
	Title    string
	URL      string
	Children []Child
}

// ChildKind discriminates the variants of Child.
type ChildKind int

const (
	ChildPage ChildKind = iota
	ChildParagraph
)

// Child is either a nested page (possibly omitted) or a paragraph of text.
type Child struct {
	Kind      ChildKind
	Page      Subtree   // set when Kind == ChildPage
	Paragraph Paragraph // set when Kind == ChildParagraph
}

// Paragraph is the concatenated text of a paragraph block.
type Paragraph struct {
	ID   string
	Text string
}

// Subtree is the result of walking one page: either a node, or omitted with
// the reason it was dropped.
type Subtree struct {
	Node   *Node
	Reason error
}

// Omitted reports whether the walk produced no node for this subtree.
func (s Subtree) Omitted() bool { return s.Node == nil }

func ok(n *Node) Subtree { return Subtree{Node: n} }

func omitted(reason error) Subtree { return Subtree{Reason: reason} }

type pageJSON struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
}

type paragraphJSON struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Text string `json:"text"`
}

// MarshalJSON renders {"page": {...}, "children": [...]}.
func (n *Node) MarshalJSON() ([]byte, error) {
	children := n.Children
	if children == nil {
		children = []Child{}
	}
	return json.Marshal(struct {
		Page     pageJSON `json:"page"`
		Children []Child  `json:"children"`
	}{
		Page:     pageJSON{ID: n.ID, Title: n.Title, URL: n.URL},
		Children: children,
	})
}

// MarshalJSON renders a paragraph object, a nested node, or null for an
// omitted page.
func (c Child) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case ChildParagraph:
		return json.Marshal(paragraphJSON{ID: c.Paragraph.ID, Type: "paragraph", Text: c.Paragraph.Text})
	default:
		if c.Page.Omitted() {
			return []byte("null"), nil
		}
		return json.Marshal(c.Page.Node)
	}
}
