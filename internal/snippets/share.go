package snippets

import (
	"net/url"
	"strings"
)

// ShareLinks are ready-made links for posting a snippet elsewhere.
type ShareLinks struct {
	URL      string `json:"url"`
	Facebook string `json:"facebook"`
	Twitter  string `json:"twitter"`
	LinkedIn string `json:"linkedin"`
	Telegram string `json:"telegram"`
	WhatsApp string `json:"whatsapp"`
}

// SnippetURL is the public page of snippet id under baseURL.
func SnippetURL(baseURL, id string) string {
	return strings.TrimRight(baseURL, "/") + "/snippets/" + url.PathEscape(id)
}

// NewShareLinks builds share links for a page URL and title.
func NewShareLinks(pageURL, title string) ShareLinks {
	u := encodeComponent(pageURL)
	t := encodeComponent(title)
	return ShareLinks{
		URL:      pageURL,
		Facebook: "https://www.facebook.com/sharer/sharer.php?u=" + u,
		Twitter:  "https://twitter.com/intent/tweet?url=" + u + "&text=" + t,
		LinkedIn: "https://www.linkedin.com/sharing/share-offsite/?url=" + u,
		Telegram: "https://t.me/share/url?url=" + u + "&text=" + t,
		WhatsApp: "https://wa.me/?text=" + t + "%20" + u,
	}
}

// encodeComponent escapes s for use inside a query value, spaces as %20.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
