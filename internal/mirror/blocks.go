package mirror

import "encoding/json"

// Block is one child block of the created page.
type Block interface {
	json.Marshaler
	BlockType() string
}

type textBlockBody struct {
	RichText []richText `json:"rich_text"`
}

func marshalBlock(kind string, text string) ([]byte, error) {
	return json.Marshal(map[string]any{
		"object": "block",
		"type":   kind,
		kind:     textBlockBody{RichText: richTexts(text)},
	})
}

// HeadingBlock renders as a level-2 heading.
type HeadingBlock struct {
	Text string
}

func (HeadingBlock) BlockType() string { return "heading_2" }

func (b HeadingBlock) MarshalJSON() ([]byte, error) {
	return marshalBlock(b.BlockType(), b.Text)
}

// ParagraphBlock is plain body text.
type ParagraphBlock struct {
	Text string
}

func (ParagraphBlock) BlockType() string { return "paragraph" }

func (b ParagraphBlock) MarshalJSON() ([]byte, error) {
	return marshalBlock(b.BlockType(), b.Text)
}
