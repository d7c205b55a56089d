package listing

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// LinkSelector matches the title link of each search result row.
const LinkSelector = "li.row-box a.title-box"

var (
	detailLinkPattern = regexp.MustCompile(`/Company/\d+$`)
	companyIDPattern  = regexp.MustCompile(`(?i)/Company/(\d+)`)
)

// NormalizeURL drops the query and fragment of a detail link.
func NormalizeURL(raw string) string {
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		return raw[:i]
	}
	return raw
}

// IsDetailLink reports whether a normalized link is a company profile.
func IsDetailLink(u string) bool {
	return detailLinkPattern.MatchString(u)
}

// FilterDetailLinks normalizes links, keeps only profile pages, and drops
// duplicates while preserving order. Applying it twice yields the same result.
func FilterDetailLinks(links []string) []string {
	out := make([]string, 0, len(links))
	seen := make(map[string]struct{}, len(links))
	for _, l := range links {
		n := NormalizeURL(strings.TrimSpace(l))
		if !IsDetailLink(n) {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// CollectDetailLinks returns the absolute profile links on a listing page
// in document order.
func CollectDetailLinks(doc *goquery.Document, pageURL string) []string {
	base, _ := url.Parse(pageURL)

	var hrefs []string
	doc.Find(LinkSelector).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		hrefs = append(hrefs, absolute(base, strings.TrimSpace(href)))
	})
	return FilterDetailLinks(hrefs)
}

func absolute(base *url.URL, href string) string {
	if base == nil {
		return href
	}
	u, err := base.Parse(href)
	if err != nil {
		return href
	}
	return u.String()
}

// seenKey identifies a profile independent of locale prefix, query or
// fragment: the company id when present, else the normalized URL.
func seenKey(raw string) string {
	if m := companyIDPattern.FindStringSubmatch(raw); m != nil {
		return "company:" + m[1]
	}
	return NormalizeURL(raw)
}
