package parser

import (
	"net/url"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

const (
	xpathContactRows = `//*[@id='ContactsBox']//table[contains(concat(' ', normalize-space(@class), ' '), ' body ')]/tbody/tr`
	xpathRowIcon     = `.//td[contains(concat(' ', normalize-space(@class), ' '), ' data-icon ')]//img[@data-title]`
	xpathRowCell     = `.//td[contains(concat(' ', normalize-space(@class), ' '), ' data-list ')]`
	xpathTelLinks    = `.//a[starts-with(@href, 'tel:')]`
	xpathMailLinks   = `.//a[starts-with(@href, 'mailto:')]`
	xpathAnyLink     = `.//a[@href]`
)

// contactBox holds what the structured contact table yields.
type contactBox struct {
	Address *string
	Phones  []string
	Emails  []string
	Website *string
}

// parseContactBox reads the contact table rows, classifying each by the
// data-title of its icon. Query errors leave the box empty.
func parseContactBox(root *html.Node, pageURL string) contactBox {
	box := contactBox{Phones: []string{}, Emails: []string{}}

	rows, err := htmlquery.QueryAll(root, xpathContactRows)
	if err != nil {
		return box
	}

	for _, tr := range rows {
		kind := ""
		if icon := queryOne(tr, xpathRowIcon); icon != nil {
			kind = htmlquery.SelectAttr(icon, "data-title")
		}
		cell := queryOne(tr, xpathRowCell)
		if cell == nil {
			continue
		}
		text := CollapseSpace(InnerText(cell))
		if text == "" {
			continue
		}

		switch kind {
		case contactAddress:
			box.Address = optional(text)
		case contactPhone:
			links := queryAll(cell, xpathTelLinks)
			if len(links) == 0 {
				box.Phones = append(box.Phones, text)
				continue
			}
			for _, a := range links {
				box.Phones = append(box.Phones, CollapseSpace(InnerText(a)))
			}
		case contactEmail:
			links := queryAll(cell, xpathMailLinks)
			if len(links) == 0 {
				box.Emails = append(box.Emails, text)
				continue
			}
			for _, a := range links {
				box.Emails = append(box.Emails, strings.TrimSpace(InnerText(a)))
			}
		case contactWebsite:
			if a := queryOne(cell, xpathAnyLink); a != nil {
				box.Website = optional(absoluteURL(pageURL, htmlquery.SelectAttr(a, "href")))
				continue
			}
			box.Website = optional(strings.TrimRight(strings.Join(strings.Fields(text), ""), `"`))
		}
	}

	box.Phones = DedupeNonEmpty(box.Phones...)
	box.Emails = DedupeNonEmpty(box.Emails...)
	return box
}

func queryOne(top *html.Node, expr string) *html.Node {
	n, err := htmlquery.Query(top, expr)
	if err != nil {
		return nil
	}
	return n
}

func queryAll(top *html.Node, expr string) []*html.Node {
	nodes, err := htmlquery.QueryAll(top, expr)
	if err != nil {
		return nil
	}
	return nodes
}

// absoluteURL resolves href against base the way an anchor's href property does.
func absoluteURL(base, href string) string {
	href = strings.TrimSpace(href)
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	b, err := url.Parse(base)
	if err != nil || b.Scheme == "" {
		return href
	}
	return b.ResolveReference(ref).String()
}
