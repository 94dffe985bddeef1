package cms

import (
	"encoding/json"
	"fmt"
)

// Block is one unit of rich text. The set of implementations is closed:
// TextBlock, ImageBlock, ListBlock and UnknownBlock.
type Block interface {
	// BlockKey is the stable identity used for render-list stability only.
	BlockKey() string
	isBlock()
}

// Style selects how a TextBlock is presented.
type Style int

const (
	Paragraph Style = iota
	Heading2
	Heading3
	Quote
)

func (s Style) String() string {
	switch s {
	case Heading2:
		return "heading2"
	case Heading3:
		return "heading3"
	case Quote:
		return "quote"
	default:
		return "paragraph"
	}
}

// MarkKind is an inline annotation on a Run.
type MarkKind int

const (
	Bold MarkKind = iota
	Italic
	Code
	Link
)

// Mark annotates a Run. Href is set only for Link.
type Mark struct {
	Kind MarkKind
	Href string
}

// Run is a span of text sharing one set of marks.
type Run struct {
	Text  string
	Marks []Mark
}

// HasMark reports whether r carries a mark of kind k.
func (r Run) HasMark(k MarkKind) bool {
	for _, m := range r.Marks {
		if m.Kind == k {
			return true
		}
	}
	return false
}

// LinkHref returns the href of the run's link mark, if any.
func (r Run) LinkHref() (string, bool) {
	for _, m := range r.Marks {
		if m.Kind == Link {
			return m.Href, true
		}
	}
	return "", false
}

// TextBlock is a heading, paragraph or quote.
type TextBlock struct {
	Key   string
	Style Style
	Runs  []Run
}

// ListOrdering distinguishes bullet and numbered lists.
type ListOrdering int

const (
	Bullet ListOrdering = iota
	Numbered
)

// ListBlock groups consecutive list items of the same ordering.
type ListBlock struct {
	Key      string
	Ordering ListOrdering
	Items    []TextBlock
}

// ImageBlock is an inline image. An empty Asset means there is nothing to show.
type ImageBlock struct {
	Key   string
	Asset AssetRef
	Alt   string
}

// UnknownBlock preserves a block type this package does not understand.
type UnknownBlock struct {
	Key  string
	Type string
}

func (b TextBlock) BlockKey() string    { return b.Key }
func (b ListBlock) BlockKey() string    { return b.Key }
func (b ImageBlock) BlockKey() string   { return b.Key }
func (b UnknownBlock) BlockKey() string { return b.Key }

func (TextBlock) isBlock()    {}
func (ListBlock) isBlock()    {}
func (ImageBlock) isBlock()   {}
func (UnknownBlock) isBlock() {}

// Body is the ordered content of a post.
type Body []Block

// rawBlock is the Portable Text wire shape shared by every block type.
type rawBlock struct {
	Type     string    `json:"_type"`
	Key      string    `json:"_key"`
	Style    string    `json:"style"`
	ListItem string    `json:"listItem"`
	Children []rawSpan `json:"children"`
	MarkDefs []rawMark `json:"markDefs"`
	Asset    *rawAsset `json:"asset"`
	Alt      string    `json:"alt"`
}

type rawSpan struct {
	Type  string   `json:"_type"`
	Text  string   `json:"text"`
	Marks []string `json:"marks"`
}

type rawMark struct {
	Type string `json:"_type"`
	Key  string `json:"_key"`
	Href string `json:"href"`
}

type rawAsset struct {
	Ref string `json:"_ref"`
}

// UnmarshalJSON decodes a Portable Text array. Consecutive list items with the
// same ordering are folded into one ListBlock.
func (b *Body) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}

	out := make(Body, 0, len(raws))
	for _, msg := range raws {
		var rb rawBlock
		if err := json.Unmarshal(msg, &rb); err != nil {
			// A block whose fields have unexpected types is treated like an
			// unknown block rather than failing the whole document.
			out = append(out, UnknownBlock{Type: "invalid"})
			continue
		}

		switch rb.Type {
		case "block":
			tb := rb.textBlock()
			if rb.ListItem == "" {
				out = append(out, tb)
				continue
			}
			ordering := Bullet
			if rb.ListItem == "number" {
				ordering = Numbered
			}
			if n := len(out); n > 0 {
				if last, ok := out[n-1].(ListBlock); ok && last.Ordering == ordering {
					last.Items = append(last.Items, tb)
					out[n-1] = last
					continue
				}
			}
			out = append(out, ListBlock{Key: rb.Key, Ordering: ordering, Items: []TextBlock{tb}})
		case "image":
			img := ImageBlock{Key: rb.Key, Alt: rb.Alt}
			if rb.Asset != nil {
				img.Asset = AssetRef(rb.Asset.Ref)
			}
			out = append(out, img)
		default:
			out = append(out, UnknownBlock{Key: rb.Key, Type: rb.Type})
		}
	}

	*b = out
	return nil
}

func (rb rawBlock) textBlock() TextBlock {
	links := make(map[string]string, len(rb.MarkDefs))
	for _, md := range rb.MarkDefs {
		if md.Type == "link" {
			links[md.Key] = md.Href
		}
	}

	runs := make([]Run, 0, len(rb.Children))
	for _, child := range rb.Children {
		if child.Type != "" && child.Type != "span" {
			continue
		}
		run := Run{Text: child.Text}
		for _, m := range child.Marks {
			switch m {
			case "strong":
				run.Marks = append(run.Marks, Mark{Kind: Bold})
			case "em":
				run.Marks = append(run.Marks, Mark{Kind: Italic})
			case "code":
				run.Marks = append(run.Marks, Mark{Kind: Code})
			default:
				if href, ok := links[m]; ok {
					run.Marks = append(run.Marks, Mark{Kind: Link, Href: href})
				}
			}
		}
		runs = append(runs, run)
	}

	return TextBlock{Key: rb.Key, Style: parseStyle(rb.Style), Runs: runs}
}

func parseStyle(s string) Style {
	switch s {
	case "h2":
		return Heading2
	case "h3":
		return Heading3
	case "blockquote":
		return Quote
	default:
		return Paragraph
	}
}
