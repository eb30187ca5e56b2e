package source

import (
	"math/rand"
	"net/http"
)

// userAgents are rotated for sources that scrape HTML. Portals and Scholar
// serve different markup (or captchas) to obvious bots.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
}

// SetBrowserHeaders applies browser-style request headers with a fixed
// User-Agent.
func SetBrowserHeaders(req *http.Request) {
	applyHeaders(req, userAgents[0])
}

// SetBrowserHeadersRandomUA applies browser-style request headers with a
// randomly chosen User-Agent, for sources that benefit from rotation.
func SetBrowserHeadersRandomUA(req *http.Request) {
	applyHeaders(req, userAgents[rand.Intn(len(userAgents))])
}

func applyHeaders(req *http.Request, userAgent string) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
}
