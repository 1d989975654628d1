// Package share builds the social share links offered after signing.
package share

import "net/url"

// Links holds one share URL per platform.
type Links struct {
	WhatsApp string `json:"whatsapp"`
	Facebook string `json:"facebook"`
	LinkedIn string `json:"linkedin"`
	Twitter  string `json:"twitter"`
}

// Build returns share links for siteURL with the localized message.
func Build(siteURL, message string) Links {
	u := url.QueryEscape(siteURL)
	text := url.QueryEscape(message)
	return Links{
		WhatsApp: "https://wa.me/?text=" + text + "%20" + u,
		Facebook: "https://www.facebook.com/sharer/sharer.php?u=" + u,
		LinkedIn: "https://www.linkedin.com/sharing/share-offsite/?url=" + u,
		Twitter:  "https://twitter.com/intent/tweet?text=" + text + "&url=" + u,
	}
}
