package views

import (
	"encoding/json"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/eringen/portfolio/models"
)

// buildURL joins path segments onto a base URL, ensuring a trailing slash.
func buildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// BlogPath returns the page path of a post.
func BlogPath(id string) string {
	return "/blog/" + url.PathEscape(id) + "/"
}

// FormatDate renders a timestamp the way post listings show it.
func FormatDate(b models.Blog) string {
	return b.CreatedAt.Format("Jan 2, 2006")
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block for site.
func WebsiteJsonLD(site models.Site) string {
	data := map[string]any{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     site.Name,
		"url":      buildURL(site.URL),
	}
	if site.Description != "" {
		data["description"] = site.Description
	}
	if site.Author != "" {
		data["author"] = map[string]string{"@type": "Person", "name": site.Author}
	}
	return marshalJsonLD(data)
}

// BlogPostingJsonLD produces a Schema.org BlogPosting JSON-LD block for post.
func BlogPostingJsonLD(site models.Site, post models.Blog) string {
	postURL := buildURL(site.URL, "blog", post.ID)
	data := map[string]any{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"description":   post.Excerpt,
		"datePublished": post.CreatedAt.Format("2006-01-02"),
		"dateModified":  post.UpdatedAt.Format("2006-01-02"),
		"url":           postURL,
		"timeRequired":  "PT" + strconv.Itoa(post.ReadTime) + "M",
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if site.Author != "" {
		data["author"] = map[string]string{"@type": "Person", "name": site.Author}
	}
	if len(post.Tags) > 0 {
		data["keywords"] = strings.Join(post.Tags, ", ")
	}
	return marshalJsonLD(data)
}

func marshalJsonLD(data map[string]any) string {
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	// keep the block from closing its <script> element early
	return strings.ReplaceAll(string(b), "</", `<\/`)
}
