// Package extract turns raw search-page markup into an ordered, deduplicated
// list of candidate listings.
package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// listingIDPattern matches the numeric listing identifier that sites embed
// in ad links, e.g. /vi/1001234567.
var listingIDPattern = regexp.MustCompile(`/vi/(\d+)`)

// Listing is one ad entry extracted from a search page.
type Listing struct {
	ID    string // Stable identifier assigned by the source site
	Title string
	Link  string // Fully-resolved absolute URL
}

// Listings scans the page for anchors whose href contains a listing path,
// resolves each against baseURL, and returns one Listing per distinct id in
// document order (first occurrence wins). Malformed fragments are skipped,
// never surfaced as errors; the result is a pure function of the input.
func Listings(htmlContent, baseURL string) []Listing {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	var listings []Listing
	seen := make(map[string]struct{})

	doc.Find(`a[href*="/vi/"]`).Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || href == "" {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		link := base.ResolveReference(ref).String()

		m := listingIDPattern.FindStringSubmatch(link)
		if m == nil {
			return
		}
		id := m[1]
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}

		// Prefer the explicit title attribute; fall back to the anchor's
		// visible text with whitespace collapsed.
		title := strings.TrimSpace(sel.AttrOr("title", ""))
		if title == "" {
			title = strings.Join(strings.Fields(sel.Text()), " ")
		}

		listings = append(listings, Listing{ID: id, Title: title, Link: link})
	})

	return listings
}
