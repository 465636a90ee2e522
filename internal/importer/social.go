package importer

import (
	"regexp"
	"strings"

	"github.com/annuaire-qc/directory/internal/places"
)

// SocialLinks holds at most one profile URL per network. A nil field means
// nothing was found for that network.
type SocialLinks struct {
	FacebookURL  *string `json:"facebook_url"`
	InstagramURL *string `json:"instagram_url"`
	TwitterURL   *string `json:"twitter_url"`
	LinkedInURL  *string `json:"linkedin_url"`
	ThreadsURL   *string `json:"threads_url"`
	TikTokURL    *string `json:"tiktok_url"`
}

// Empty reports whether no network matched.
func (s SocialLinks) Empty() bool {
	return s.FacebookURL == nil && s.InstagramURL == nil && s.TwitterURL == nil &&
		s.LinkedInURL == nil && s.ThreadsURL == nil && s.TikTokURL == nil
}

type socialRule struct {
	network string
	pattern *regexp.Regexp
	assign  func(*SocialLinks, string)
}

func socialPattern(host string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b(?:https?://)?(?:www\.)?` + host + `[\w.\-]+`)
}

var socialRules = []socialRule{
	{"facebook", socialPattern(`facebook\.com/`), func(s *SocialLinks, u string) { s.FacebookURL = &u }},
	{"instagram", socialPattern(`instagram\.com/`), func(s *SocialLinks, u string) { s.InstagramURL = &u }},
	{"twitter", socialPattern(`(?:twitter|x)\.com/`), func(s *SocialLinks, u string) { s.TwitterURL = &u }},
	{"linkedin", socialPattern(`linkedin\.com/(?:company|in)/`), func(s *SocialLinks, u string) { s.LinkedInURL = &u }},
	{"threads", socialPattern(`threads\.net/@?`), func(s *SocialLinks, u string) { s.ThreadsURL = &u }},
	{"tiktok", socialPattern(`tiktok\.com/@`), func(s *SocialLinks, u string) { s.TikTokURL = &u }},
}

// ExtractSocialLinks scans the website, editorial summary and review texts
// of a place for social profile URLs.
func ExtractSocialLinks(place *places.Place) SocialLinks {
	return extractSocialLinks(socialCorpus(place))
}

func socialCorpus(place *places.Place) string {
	if place == nil {
		return ""
	}
	parts := make([]string, 0, 2+len(place.Reviews))
	if place.Website != "" {
		parts = append(parts, place.Website)
	}
	if place.EditorialSummary != nil && place.EditorialSummary.Overview != "" {
		parts = append(parts, place.EditorialSummary.Overview)
	}
	for _, review := range place.Reviews {
		if review.Text != "" {
			parts = append(parts, review.Text)
		}
	}
	return strings.Join(parts, " ")
}

func extractSocialLinks(corpus string) SocialLinks {
	var links SocialLinks
	if corpus == "" {
		return links
	}
	for _, rule := range socialRules {
		match := rule.pattern.FindString(corpus)
		if match == "" {
			continue
		}
		rule.assign(&links, normalizeSocialURL(match))
	}
	return links
}

func normalizeSocialURL(match string) string {
	match = strings.TrimRight(match, ".")
	lower := strings.ToLower(match)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		match = "https://" + match
	}
	return match
}
