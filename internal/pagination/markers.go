package pagination

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var (
	hrefPagePattern    = regexp.MustCompile(`[Pp]age[=_](\d+)`)
	onclickPagePattern = regexp.MustCompile(`[Pp]age\s*[=:]\s*(\d+)`)
	cssIdentPattern    = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)
	detailPathPattern  = regexp.MustCompile(`(?i)/Company/\d+(?:$|[/#?])`)
)

// nextLabels are the exact texts of a "next" control, compared after trimming.
var nextLabels = []string{"შემდეგი", "»", "→"}

func isNextLabel(text string) bool {
	text = strings.TrimSpace(text)
	if strings.EqualFold(text, "next") {
		return true
	}
	for _, l := range nextLabels {
		if text == l {
			return true
		}
	}
	return false
}

func containsNextWord(text string) bool {
	return strings.Contains(text, "შემდეგი") || strings.Contains(strings.ToLower(text), "next")
}

// pageFrom extracts the page number re captures from s, or 0.
func pageFrom(re *regexp.Regexp, s string) int {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// label is the visible label of a control: its text, or the value of an
// input button.
func label(sel *goquery.Selection) string {
	if goquery.NodeName(sel) == "input" {
		v, _ := sel.Attr("value")
		return strings.TrimSpace(v)
	}
	return strings.Join(strings.Fields(sel.Text()), " ")
}

func hasClass(sel *goquery.Selection, names ...string) bool {
	for _, n := range names {
		if sel.HasClass(n) {
			return true
		}
	}
	return false
}

// hiddenStyle reports inline styles that hide an element or make it inert.
func hiddenStyle(style string) bool {
	s := strings.ToLower(strings.ReplaceAll(style, " ", ""))
	return strings.Contains(s, "display:none") ||
		strings.Contains(s, "visibility:hidden")
}

// isVisible reports whether neither sel nor any ancestor is hidden by markup.
func isVisible(sel *goquery.Selection) bool {
	for n := sel.Get(0); n != nil && n.Type == html.ElementNode; n = n.Parent {
		if hasAttr(n, "hidden") || attr(n, "aria-hidden") == "true" || hiddenStyle(attr(n, "style")) {
			return false
		}
		if n.Data == "input" && strings.EqualFold(attr(n, "type"), "hidden") {
			return false
		}
	}
	return true
}

// isDisabled reports markers of an inert control on sel or its parent item.
func isDisabled(sel *goquery.Selection) bool {
	for _, s := range []*goquery.Selection{sel, sel.Parent()} {
		if s.Length() == 0 {
			continue
		}
		if hasClass(s, "disabled", "is-disabled", "inactive") {
			return true
		}
		if _, ok := s.Attr("disabled"); ok {
			return true
		}
		if v, _ := s.Attr("aria-disabled"); v == "true" {
			return true
		}
		if style, ok := s.Attr("style"); ok && strings.Contains(strings.ReplaceAll(strings.ToLower(style), " ", ""), "pointer-events:none") {
			return true
		}
	}
	return false
}

// isCurrent reports a control that marks the page being shown.
func isCurrent(sel *goquery.Selection) bool {
	for _, s := range []*goquery.Selection{sel, sel.Parent()} {
		if s.Length() == 0 {
			continue
		}
		if hasClass(s, "active", "current", "selected") {
			return true
		}
		if v, _ := s.Attr("aria-current"); v == "page" {
			return true
		}
	}
	return false
}

func usable(sel *goquery.Selection) bool {
	return isVisible(sel) && !isDisabled(sel)
}

// cssPath builds a selector that addresses exactly the element under sel in
// the snapshot, anchored at the nearest ancestor with a usable id.
func cssPath(sel *goquery.Selection) string {
	var parts []string
	for n := sel.Get(0); n != nil && n.Type == html.ElementNode; n = n.Parent {
		if id := attr(n, "id"); id != "" && cssIdentPattern.MatchString(id) {
			parts = append(parts, "#"+id)
			break
		}
		if n.Data == "body" || n.Data == "html" {
			parts = append(parts, n.Data)
			break
		}
		idx := 1
		for s := n.PrevSibling; s != nil; s = s.PrevSibling {
			if s.Type == html.ElementNode {
				idx++
			}
		}
		parts = append(parts, fmt.Sprintf("%s:nth-child(%d)", n.Data, idx))
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " > ")
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// resolveHref makes href absolute against base. Fragment-only and
// javascript: links resolve to "".
func resolveHref(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	u, err := b.Parse(href)
	if err != nil {
		return ""
	}
	return u.String()
}

// scriptOf returns the handler to evaluate for sel: its onclick, or the body
// of a javascript: href.
func scriptOf(sel *goquery.Selection) string {
	if js, ok := sel.Attr("onclick"); ok && strings.TrimSpace(js) != "" {
		return strings.TrimSpace(js)
	}
	if href, ok := sel.Attr("href"); ok {
		href = strings.TrimSpace(href)
		if strings.HasPrefix(strings.ToLower(href), "javascript:") {
			body := strings.TrimSpace(href[len("javascript:"):])
			if body != "" && body != "void(0)" && body != "void(0);" && body != ";" {
				return body
			}
		}
	}
	return ""
}
