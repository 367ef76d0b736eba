package notion

import "fmt"

// AppendRequest is the body of a block-children append call.
type AppendRequest struct {
	Children []Block `json:"children"`
}

// Block is the subset of the Notion block object used for snippets.
type Block struct {
	Object    string         `json:"object"`
	Type      string         `json:"type"`
	Heading3  *RichTextBlock `json:"heading_3,omitempty"`
	Paragraph *RichTextBlock `json:"paragraph,omitempty"`
	Divider   *struct{}      `json:"divider,omitempty"`
}

type RichTextBlock struct {
	RichText []RichText `json:"rich_text"`
}

type RichText struct {
	Text        Text         `json:"text"`
	Annotations *Annotations `json:"annotations,omitempty"`
}

type Text struct {
	Content string `json:"content"`
	Link    *Link  `json:"link,omitempty"`
}

type Link struct {
	URL string `json:"url"`
}

type Annotations struct {
	Color string `json:"color,omitempty"`
}

// SnippetBlocks returns the four blocks a snippet is written as, in order:
// heading, body paragraph, linked source annotation, divider.
func SnippetBlocks(title, content, url, saved string) []Block {
	return []Block{
		{
			Object:   "block",
			Type:     "heading_3",
			Heading3: &RichTextBlock{RichText: []RichText{{Text: Text{Content: title}}}},
		},
		{
			Object:    "block",
			Type:      "paragraph",
			Paragraph: &RichTextBlock{RichText: []RichText{{Text: Text{Content: content}}}},
		},
		{
			Object: "block",
			Type:   "paragraph",
			Paragraph: &RichTextBlock{RichText: []RichText{{
				Text:        Text{Content: fmt.Sprintf("Source: %s | Saved: %s", url, saved), Link: &Link{URL: url}},
				Annotations: &Annotations{Color: "gray"},
			}}},
		},
		{
			Object:  "block",
			Type:    "divider",
			Divider: &struct{}{},
		},
	}
}
