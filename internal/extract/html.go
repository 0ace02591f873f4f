package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// blockTags are elements that imply a line break around their text content.
// Citation pages render each field of an entry in its own cell or block, so
// breaking on these keeps one field per line, which is what the classifier
// expects from a paste.
var blockTags = map[string]bool{
	"br": true, "p": true, "div": true, "li": true, "tr": true,
	"td": true, "th": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "section": true, "article": true,
}

// skippedTags are elements whose text content is never part of the entry data.
var skippedTags = map[string]bool{
	"script": true, "style": true, "noscript": true, "head": true,
	"template": true,
}

// StripHTML flattens an HTML document into plain text lines suitable for
// NormalizeLines. Text nodes are emitted in document order; block-level
// elements insert line breaks; script and style content is dropped.
//
// Inputs saved directly from a citation site's results page arrive as HTML
// rather than a clean paste; this turns them into the same flat line form.
// Invalid markup is handled leniently by the tokenizer, so this function
// never fails; at worst the output degenerates to the input's raw text.
func StripHTML(input string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(input))

	var sb strings.Builder
	skipDepth := 0

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			// io.EOF or malformed markup; either way we are done.
			return sb.String()

		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			tag := string(name)
			if skippedTags[tag] {
				skipDepth++
			}
			if blockTags[tag] {
				sb.WriteByte('\n')
			}

		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			tag := string(name)
			if skippedTags[tag] && skipDepth > 0 {
				skipDepth--
			}
			if blockTags[tag] {
				sb.WriteByte('\n')
			}

		case html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			if blockTags[string(name)] {
				sb.WriteByte('\n')
			}

		case html.TextToken:
			if skipDepth == 0 {
				sb.Write(tokenizer.Text())
			}
		}
	}
}
