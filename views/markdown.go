package views

import (
	"context"
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

var (
	reCode    = regexp.MustCompile("`([^`]+)`")
	reBold    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reItalic  = regexp.MustCompile(`\*([^*]+)\*`)
	reLink    = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)
	reOrdered = regexp.MustCompile(`^\d+\.\s+`)
)

// Markdown renders a small Markdown subset: headings, paragraphs, lists,
// block quotes, fenced code and inline emphasis, code and links. All text is
// escaped before formatting is applied.
func Markdown(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, renderMarkdown(content))
		return err
	})
}

func renderMarkdown(md string) string {
	var b strings.Builder
	var para []string
	list := ""
	inCode := false

	flushPara := func() {
		if len(para) > 0 {
			b.WriteString("<p>" + formatInline(strings.Join(para, " ")) + "</p>")
			para = nil
		}
	}
	closeList := func() {
		if list != "" {
			b.WriteString("</" + list + ">")
			list = ""
		}
	}
	openList := func(tag string) {
		if list != tag {
			closeList()
			b.WriteString("<" + tag + ">")
			list = tag
		}
	}

	for _, line := range strings.Split(strings.ReplaceAll(md, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			if inCode {
				b.WriteString("</code></pre>")
				inCode = false
			} else {
				flushPara()
				closeList()
				b.WriteString("<pre><code>")
				inCode = true
			}
			continue
		}
		if inCode {
			b.WriteString(templ.EscapeString(line) + "\n")
			continue
		}

		switch {
		case trimmed == "":
			flushPara()
			closeList()
		case strings.HasPrefix(trimmed, "#"):
			flushPara()
			closeList()
			text := strings.TrimLeft(trimmed, "#")
			level := len(trimmed) - len(text)
			if level > 4 {
				level = 4
			}
			// page titles use h1, so content headings start at h2
			tag := "h" + strconv.Itoa(level+1)
			b.WriteString("<" + tag + ">" + formatInline(strings.TrimSpace(text)) + "</" + tag + ">")
		case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
			flushPara()
			openList("ul")
			b.WriteString("<li>" + formatInline(trimmed[2:]) + "</li>")
		case reOrdered.MatchString(trimmed):
			flushPara()
			openList("ol")
			b.WriteString("<li>" + formatInline(reOrdered.ReplaceAllString(trimmed, "")) + "</li>")
		case strings.HasPrefix(trimmed, ">"):
			flushPara()
			closeList()
			b.WriteString("<blockquote>" + formatInline(strings.TrimSpace(trimmed[1:])) + "</blockquote>")
		default:
			closeList()
			para = append(para, trimmed)
		}
	}
	if inCode {
		b.WriteString("</code></pre>")
	}
	flushPara()
	closeList()
	return b.String()
}

// formatInline escapes s and then applies code, bold, italic and link markup.
func formatInline(s string) string {
	s = templ.EscapeString(s)
	s = reCode.ReplaceAllString(s, "<code>$1</code>")
	s = reBold.ReplaceAllString(s, "<strong>$1</strong>")
	s = reItalic.ReplaceAllString(s, "<em>$1</em>")
	return reLink.ReplaceAllStringFunc(s, func(m string) string {
		parts := reLink.FindStringSubmatch(m)
		href := safeURL(parts[2])
		if href == "" {
			return parts[1]
		}
		return `<a href="` + href + `" rel="noopener">` + parts[1] + `</a>`
	})
}

// safeURL returns raw when it is a relative, http, https or mailto URL.
func safeURL(raw string) string {
	u, err := url.Parse(strings.ReplaceAll(raw, "&amp;", "&"))
	if err != nil {
		return ""
	}
	switch u.Scheme {
	case "", "http", "https", "mailto":
		return raw
	}
	return ""
}
