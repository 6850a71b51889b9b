package filters

import (
	"encoding/json"

	"github.com/gomarkdown/markdown"
	htmlrenderer "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"liquidfilters/value"
)

// Default returns fallback when input is Null, false or empty, and input
// otherwise.
func Default(input, fallback value.Value) value.Value {
	if input.IsLazy() {
		items, _ := input.Collect()
		input = value.Seq(items...)
	}
	if !input.Truthy() || input.IsEmpty() {
		return fallback
	}
	return input
}

// JSON encodes input as a JSON document.
func JSON(input value.Value) (value.Value, error) {
	b, err := json.Marshal(input)
	if err != nil {
		return value.Null(), err
	}
	return value.String(string(b)), nil
}

// Markdownify renders Markdown text as HTML. Links open in a new tab.
func Markdownify(input value.Value) value.Value {
	s, ok := text(input)
	if !ok {
		return input
	}
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := htmlrenderer.NewRenderer(htmlrenderer.RendererOptions{
		Flags: htmlrenderer.CommonFlags | htmlrenderer.HrefTargetBlank,
	})
	return value.String(string(markdown.ToHTML([]byte(s), p, renderer)))
}
