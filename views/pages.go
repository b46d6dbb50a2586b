// Package views holds the default page templates of the portfolio site.
package views

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/portfolio"
	"github.com/eringen/portfolio/models"
)

// Funcs returns the default ViewFuncs.
func Funcs() portfolio.ViewFuncs {
	return portfolio.ViewFuncs{
		Home:             Home,
		Projects:         Projects,
		BlogIndex:        BlogIndex,
		BlogPost:         BlogPost,
		Contact:          Contact,
		AdminLogin:       AdminLogin,
		AdminDashboard:   AdminDashboard,
		AdminProjectForm: AdminProjectForm,
		AdminBlogForm:    AdminBlogForm,
		AdminMessages:    AdminMessages,
		NotFound:         NotFound,
		ServerError:      ServerError,
	}
}

// PageMeta carries per-page metadata into the document head.
type PageMeta struct {
	Title       string
	Description string
	URL         string
	JsonLD      string
}

// html writes raw markup; e escapes text for it.
type html struct {
	w   io.Writer
	err error
}

func (h *html) raw(parts ...string) {
	for _, p := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, p)
	}
}

func (h *html) render(ctx context.Context, c templ.Component) {
	if h.err == nil {
		h.err = c.Render(ctx, h.w)
	}
}

func e(s string) string { return templ.EscapeString(s) }

// Layout wraps body in the site chrome.
func Layout(site models.Site, meta PageMeta, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		title := site.Name
		if meta.Title != "" {
			title = meta.Title + " | " + site.Name
		}
		desc := meta.Description
		if desc == "" {
			desc = site.Description
		}
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1">`,
			`<title>`, e(title), `</title>`,
			`<meta name="description" content="`, e(desc), `">`,
			`<link rel="stylesheet" href="/public/styles.css">`,
			`<link rel="alternate" type="application/rss+xml" title="`, e(site.Name), `" href="/feed.xml">`)
		if meta.URL != "" {
			h.raw(`<link rel="canonical" href="`, e(meta.URL), `">`)
		}
		if meta.JsonLD != "" {
			h.raw(`<script type="application/ld+json">`, meta.JsonLD, `</script>`)
		}
		h.raw(`</head><body><header class="site-header"><a class="brand" href="/">`, e(site.Name), `</a><nav>`,
			`<a href="/projects/">Projects</a><a href="/blog/">Blog</a><a href="/contact/">Contact</a></nav></header><main>`)
		h.render(ctx, body)
		h.raw(`</main><footer class="site-footer">`)
		if site.Author != "" {
			h.raw(`<p>`, e(site.Author), `</p>`)
		}
		h.raw(`</footer></body></html>`)
		return h.err
	})
}

// Home shows featured projects and the latest posts.
func Home(site models.Site, featured []models.Project, recent []models.Blog) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<section class="hero"><h1>`, e(site.Name), `</h1>`)
		if site.Description != "" {
			h.raw(`<p>`, e(site.Description), `</p>`)
		}
		h.raw(`</section><section><h2>Featured Projects</h2>`)
		h.render(ctx, projectGrid(featured))
		h.raw(`<a class="more" href="/projects/">All projects</a></section>`)
		h.raw(`<section><h2>Latest Posts</h2>`)
		h.render(ctx, blogList(recent))
		h.raw(`<a class="more" href="/blog/">All posts</a></section>`)
		return h.err
	})
	return Layout(site, PageMeta{URL: buildURL(site.URL), JsonLD: WebsiteJsonLD(site)}, body)
}

// Projects lists every project.
func Projects(site models.Site, projects []models.Project) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<h1>Projects</h1>`)
		h.render(ctx, projectGrid(projects))
		return h.err
	})
	return Layout(site, PageMeta{Title: "Projects", URL: buildURL(site.URL, "projects")}, body)
}

// BlogIndex lists published posts.
func BlogIndex(site models.Site, posts []models.Blog) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<h1>Blog</h1>`)
		h.render(ctx, blogList(posts))
		return h.err
	})
	return Layout(site, PageMeta{Title: "Blog", URL: buildURL(site.URL, "blog")}, body)
}

// BlogPost renders a single post.
func BlogPost(site models.Site, post models.Blog) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<article class="post"><header><h1>`, e(post.Title), `</h1><p class="meta"><time datetime="`,
			post.CreatedAt.Format("2006-01-02"), `">`, e(FormatDate(post)), `</time> · `,
			strconv.Itoa(post.ReadTime), ` min read</p>`)
		h.render(ctx, tagList(post.Tags))
		h.raw(`</header>`)
		if post.ImageURL != "" {
			h.raw(`<img class="cover" src="`, e(post.ImageURL), `" alt="">`)
		}
		h.raw(`<div class="content">`)
		h.render(ctx, Markdown(post.Content))
		h.raw(`</div></article>`)
		return h.err
	})
	return Layout(site, PageMeta{
		Title:       post.Title,
		Description: post.Excerpt,
		URL:         buildURL(site.URL, "blog", post.ID),
		JsonLD:      BlogPostingJsonLD(site, post),
	}, body)
}

// NotFound is the 404 page.
func NotFound() templ.Component {
	return errorPage("Page not found", "The page you are looking for does not exist.")
}

// ServerError is the 5xx page.
func ServerError() templ.Component {
	return errorPage("Something went wrong", "Please try again later.")
}

func errorPage(title, text string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>`, e(title), `</title>`,
			`<link rel="stylesheet" href="/public/styles.css"></head><body><main class="error"><h1>`, e(title),
			`</h1><p>`, e(text), `</p><a href="/">Home</a></main></body></html>`)
		return h.err
	})
}

func projectGrid(projects []models.Project) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		if len(projects) == 0 {
			h.raw(`<p class="empty">No projects yet.</p>`)
			return h.err
		}
		h.raw(`<div class="projects">`)
		for _, p := range projects {
			h.raw(`<article class="project">`)
			if p.ImageURL != "" {
				h.raw(`<img src="`, e(p.ImageURL), `" alt="`, e(p.Title), `" loading="lazy">`)
			}
			h.raw(`<h3>`, e(p.Title), `</h3><p>`, e(p.Description), `</p>`)
			h.render(ctx, tagList(p.Technologies))
			h.raw(`<div class="links">`)
			if p.GithubURL != "" {
				h.raw(`<a href="`, e(p.GithubURL), `" rel="noopener">Code</a>`)
			}
			if p.LiveURL != "" {
				h.raw(`<a href="`, e(p.LiveURL), `" rel="noopener">Live</a>`)
			}
			h.raw(`</div></article>`)
		}
		h.raw(`</div>`)
		return h.err
	})
}

func blogList(posts []models.Blog) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		if len(posts) == 0 {
			h.raw(`<p class="empty">No posts yet.</p>`)
			return h.err
		}
		h.raw(`<ul class="posts">`)
		for _, p := range posts {
			h.raw(`<li><a href="`, e(BlogPath(p.ID)), `">`, e(p.Title), `</a>`,
				`<p class="meta">`, e(FormatDate(p)), ` · `, strconv.Itoa(p.ReadTime), ` min read</p>`,
				`<p>`, e(p.Excerpt), `</p></li>`)
		}
		h.raw(`</ul>`)
		return h.err
	})
}

func tagList(tags []string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(tags) == 0 {
			return nil
		}
		escaped := make([]string, len(tags))
		for i, t := range tags {
			escaped[i] = `<li>` + e(t) + `</li>`
		}
		_, err := io.WriteString(w, `<ul class="tags">`+strings.Join(escaped, "")+`</ul>`)
		return err
	})
}
