package parser

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/IshaanNene/bizgoat/internal/types"
)

const (
	selPageContent = "#PageContent"
	selTabPanel    = "#TabPanelBox"
	selDataTitle   = "#TabPanelBox .data-title"
	selEmployees   = "#tpManagement .employees-box ul.data-list.with-bullets > li"
)

var (
	emailPattern       = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	personPhonePattern = regexp.MustCompile(`\+995[0-9\s]+`)
)

// selectionText returns the rendered text of the first node in s.
func selectionText(s *goquery.Selection) string {
	if s == nil || s.Length() == 0 {
		return ""
	}
	return InnerText(s.Get(0))
}

// sectionText returns the rendered text of the element matched by selector,
// or nil when it is missing or empty.
func sectionText(doc *goquery.Document, selector string) *string {
	return optional(selectionText(doc.Find(selector).First()))
}

// buildLabelMap pairs every title node of the tab panel with its value node.
// The value is the first following sibling carrying the data-list class; the
// walk stops at the next title. Repeated labels are joined with " || ".
func buildLabelMap(doc *goquery.Document) Labels {
	labels := make(Labels)
	doc.Find(selDataTitle).Each(func(_ int, title *goquery.Selection) {
		label := CollapseSpace(selectionText(title))
		if label == "" {
			return
		}
		value := CollapseSpace(collectValue(title))
		if value == "" {
			return
		}
		if prev, ok := labels[label]; ok {
			labels[label] = prev + " || " + value
			return
		}
		labels[label] = value
	})
	return labels
}

func collectValue(title *goquery.Selection) string {
	for sib := title.Next(); sib.Length() > 0; sib = sib.Next() {
		if sib.HasClass("data-list") {
			if goquery.NodeName(sib) != "ul" {
				return selectionText(sib)
			}
			var items []string
			sib.Find("li").Each(func(_ int, li *goquery.Selection) {
				items = append(items, selectionText(li))
			})
			return strings.Join(items, " | ")
		}
		if sib.HasClass("data-title") {
			break
		}
	}
	return ""
}

// parseManagement returns one ContactPerson per roster entry. Email and phone
// are matched against the entry's own sub-list only.
func parseManagement(doc *goquery.Document) []types.ContactPerson {
	people := []types.ContactPerson{}
	doc.Find(selEmployees).Each(func(_ int, li *goquery.Selection) {
		var p types.ContactPerson

		role := strings.TrimSpace(selectionText(li.Find(".sub-data-title .title").First()))
		p.Position = optional(strings.TrimSuffix(role, ":"))

		texts := li.Find(".sub-data-title .text")
		p.Name = optional(selectionText(texts.First()))
		texts.Each(func(_ int, el *goquery.Selection) {
			text := strings.TrimSpace(selectionText(el))
			if !strings.HasPrefix(text, personalIDPrefix) {
				return
			}
			if parts := strings.SplitN(text, ":", 3); len(parts) > 1 {
				p.PersonalID = optional(parts[1])
			}
		})

		if sub := li.Find(".sub-data-list").First(); sub.Length() > 0 {
			subText := selectionText(sub)
			if m := emailPattern.FindString(subText); m != "" {
				p.Email = optional(m)
			}
			if m := personPhonePattern.FindString(subText); m != "" {
				p.Phone = optional(m)
			}
		}

		people = append(people, p)
	})
	return people
}

// socialHosts are the hosts whose links count as social profiles.
var socialHosts = []string{
	"facebook.com", "instagram.com", "linkedin.com", "twitter.com",
	"x.com", "youtube.com", "tiktok.com",
}

// parseSocialLinks collects links to social networks from the profile header
// and contact box.
func parseSocialLinks(doc *goquery.Document) []string {
	var links []string
	doc.Find("#PageContent a[href], #ContactsBox a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if isSocialLink(href) {
			links = append(links, href)
		}
	})
	return DedupeNonEmpty(links...)
}

func isSocialLink(href string) bool {
	lower := strings.ToLower(href)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return false
	}
	host := strings.TrimPrefix(strings.TrimPrefix(lower, "https://"), "http://")
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	host = strings.TrimPrefix(host, "www.")
	host = strings.TrimPrefix(host, "m.")
	for _, s := range socialHosts {
		if host == s || strings.HasSuffix(host, "."+s) {
			return true
		}
	}
	return false
}
