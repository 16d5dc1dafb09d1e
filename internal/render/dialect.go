package render

import (
	"fmt"
	"html"
	"strings"
)

const (
	passedImageURL = "https://placehold.co/12x12/0dd969/0dd969.png"
	failedImageURL = "https://placehold.co/12x12/f54977/f54977.png"
)

// Dialect supplies the markup tokens for one output format. The rendering
// algorithm is shared; only these functions differ.
type Dialect struct {
	Name string
	// Heading renders a heading of the given level (1 is the document title)
	Heading func(text string, level int) string
	// OpenList and CloseList wrap a list; empty means no line is emitted
	OpenList  string
	CloseList string
	// ListItem renders one list entry, possibly over several lines
	ListItem func(text string) []string
	// Image renders the pass/fail glyph
	Image func(alt string, passed bool) string
	Bold  func(text string) string
	// Text escapes free text such as test descriptions
	Text      func(text string) string
	CodeFence func(body string) []string
}

// Markdown is the lightweight-markup dialect
var Markdown = Dialect{
	Name: "markdown",
	Heading: func(text string, level int) string {
		return strings.Repeat("#", level) + " " + text
	},
	ListItem: func(text string) []string {
		return []string{"- " + text}
	},
	Image: func(alt string, passed bool) string {
		return fmt.Sprintf("![%s](%s)", alt, imageURL(passed))
	},
	Bold: func(text string) string {
		return "**" + text + "**"
	},
	Text:      func(text string) string { return text },
	CodeFence: fence,
}

// HTML is the structured-markup dialect
var HTML = Dialect{
	Name: "html",
	Heading: func(text string, level int) string {
		return fmt.Sprintf("<h%d>%s</h%d>", level, text, level)
	},
	OpenList:  "<ul>",
	CloseList: "</ul>",
	ListItem: func(text string) []string {
		return []string{"\t<li>", "\t\t" + text, "\t</li>"}
	},
	Image: htmlImage,
	Bold: func(text string) string {
		return "<strong>" + text + "</strong>"
	},
	Text:      html.EscapeString,
	CodeFence: fence,
}

// DialectFor returns HTML for mode "html" (any case) and Markdown otherwise
func DialectFor(mode string) Dialect {
	if strings.EqualFold(strings.TrimSpace(mode), "html") {
		return HTML
	}
	return Markdown
}

func htmlImage(alt string, passed bool) string {
	return fmt.Sprintf(`<img alt="%s" src="%s" style="max-width:100%%;">`, alt, imageURL(passed))
}

func imageURL(passed bool) string {
	if passed {
		return passedImageURL
	}
	return failedImageURL
}

// fence wraps body in a blank-line delimited code block
func fence(body string) []string {
	lines := []string{"", "```"}
	lines = append(lines, strings.Split(body, "\n")...)
	return append(lines, "```", "")
}
