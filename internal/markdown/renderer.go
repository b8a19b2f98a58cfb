// Package markdown converts entry bodies to HTML. A base block renderer
// handles standard markdown; a post-processing stage turns bracket-style
// checkbox syntax into disabled checkbox controls and repairs the markup
// around them.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
)

// BlockRenderer converts standard markdown constructs (lists, paragraphs,
// emphasis, ...) into HTML. It has no checkbox awareness.
type BlockRenderer interface {
	RenderBlocks(markdown string) (string, error)
}

// GoldmarkRenderer is the default BlockRenderer, backed by goldmark with
// stock CommonMark settings.
type GoldmarkRenderer struct {
	md goldmark.Markdown
}

func NewGoldmarkRenderer() *GoldmarkRenderer {
	return &GoldmarkRenderer{md: goldmark.New()}
}

func (r *GoldmarkRenderer) RenderBlocks(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render blocks: %w", err)
	}
	return buf.String(), nil
}
