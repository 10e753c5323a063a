package doctree

import "strings"

// Flatten renders a tree as one line per fragment: each page title followed
// by its children depth-first. Omitted pages contribute nothing. Blank
// fragments are kept.
func Flatten(n *Node) string {
	if n == nil {
		return ""
	}
	return strings.Join(appendFragments(nil, n), "\n")
}

func appendFragments(lines []string, n *Node) []string {
	lines = append(lines, n.Title)
	for _, c := range n.Children {
		switch c.Kind {
		case ChildParagraph:
			lines = append(lines, c.Paragraph.Text)
		case ChildPage:
			if !c.Page.Omitted() {
				lines = appendFragments(lines, c.Page.Node)
			}
		}
	}
	return lines
}
