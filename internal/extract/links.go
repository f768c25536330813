package extract

import (
	"net/url"
	"strings"
)

// excludedNamespaces are wiki pages that are never articles
var excludedNamespaces = []string{"File:", "Image:", "Special:", "Help:", "Category:", "Template:", "Wikipedia:", "Talk:", "Portal:"}

// resolveURL resolves a relative URL against a base URL
func resolveURL(base *url.URL, href string) *url.URL {
	if href == "" || strings.HasPrefix(href, "#") {
		return nil
	}

	if strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") {
		return nil
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return nil
	}

	resolved := base.ResolveReference(parsed)

	// Only keep http/https URLs
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return nil
	}

	resolved.Fragment = ""
	return resolved
}

// articleLink returns the absolute URL of an intra-site article link, or "" for anything else
func articleLink(base *url.URL, href string) string {
	resolved := resolveURL(base, href)
	if resolved == nil || resolved.Host != base.Host {
		return ""
	}

	if !strings.HasPrefix(resolved.Path, "/wiki/") {
		return ""
	}

	page := strings.TrimPrefix(resolved.Path, "/wiki/")
	if page == "" {
		return ""
	}
	for _, ns := range excludedNamespaces {
		if strings.HasPrefix(page, ns) {
			return ""
		}
	}

	return resolved.String()
}

// collectLinks dedupes links in order and keeps at most limit
func collectLinks(base *url.URL, hrefs []string, limit int) []string {
	links := []string{}
	seen := make(map[string]bool)

	for _, href := range hrefs {
		link := articleLink(base, href)
		if link == "" || seen[link] {
			continue
		}
		seen[link] = true
		links = append(links, link)
		if len(links) == limit {
			break
		}
	}

	return links
}
