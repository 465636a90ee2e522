package places

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlainAttributions turns the HTML attribution snippets attached to photos
// into display text, e.g. `<a href="...">Marie Tremblay</a>` becomes
// "Marie Tremblay". Empty or unparseable snippets are dropped.
func PlainAttributions(fragments []string) []string {
	out := make([]string, 0, len(fragments))
	for _, fragment := range fragments {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
		if err != nil {
			continue
		}
		text := strings.Join(strings.Fields(doc.Text()), " ")
		if text != "" {
			out = append(out, text)
		}
	}
	return out
}

// AttributionLinks returns the href of every anchor in the snippets.
func AttributionLinks(fragments []string) []string {
	var links []string
	for _, fragment := range fragments {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
		if err != nil {
			continue
		}
		doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
			if href, ok := s.Attr("href"); ok && href != "" {
				links = append(links, href)
			}
		})
	}
	return links
}
