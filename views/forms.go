package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/portfolio/models"
)

const failureNotice = "Something went wrong. Your input has been kept; please review it and try again."

func csrfField(h *html, token string) {
	h.raw(`<input type="hidden" name="_csrf" value="`, e(token), `">`)
}

func notice(h *html, failed bool, text string) {
	if failed {
		h.raw(`<p class="notice error" role="alert">`, e(failureNotice), `</p>`)
		return
	}
	if text != "" {
		h.raw(`<p class="notice" role="status">`, e(text), `</p>`)
	}
}

// input renders a labelled text control with its field error, if any.
func input(h *html, label, name, typ, value string, errs models.FormErrors) {
	h.raw(`<label>`, e(label), `<input type="`, typ, `" name="`, name, `" value="`, e(value), `"></label>`)
	fieldError(h, name, errs)
}

func textarea(h *html, label, name, value string, rows int, errs models.FormErrors) {
	h.raw(`<label>`, e(label), `<textarea name="`, name, `" rows="`, strconv.Itoa(rows), `">`, e(value), `</textarea></label>`)
	fieldError(h, name, errs)
}

func checkbox(h *html, label, name string, checked bool) {
	h.raw(`<label class="check"><input type="checkbox" name="`, name, `" value="1"`)
	if checked {
		h.raw(` checked`)
	}
	h.raw(`> `, e(label), `</label>`)
}

func fieldError(h *html, name string, errs models.FormErrors) {
	if msg, ok := errs[name]; ok {
		h.raw(`<span class="field-error" data-field="`, name, `">`, e(msg), `</span>`)
	}
}

// postButton is a one-button form, used for deletes and state changes.
func postButton(h *html, action, label, token string) {
	h.raw(`<form method="post" action="`, e(action), `" class="inline">`)
	csrfField(h, token)
	h.raw(`<button type="submit">`, e(label), `</button></form>`)
}

// Contact is the public contact form.
func Contact(site models.Site, form models.ContactForm, csrfToken string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<h1>Contact</h1>`)
		if form.Sent {
			h.raw(`<p class="notice" role="status">Thanks for your message. I will get back to you soon.</p>`)
		}
		notice(h, form.Failed, "")
		h.raw(`<form method="post" action="/contact/" class="contact">`)
		csrfField(h, csrfToken)
		input(h, "Name", "name", "text", form.Name, form.Errors)
		input(h, "Email", "email", "email", form.Email, form.Errors)
		input(h, "Subject", "subject", "text", form.Subject, form.Errors)
		textarea(h, "Message", "message", form.Message, 6, form.Errors)
		h.raw(`<button type="submit">Send</button></form>`)
		return h.err
	})
	return Layout(site, PageMeta{Title: "Contact", URL: buildURL(site.URL, "contact")}, body)
}

func adminLayout(site models.Site, title, csrfToken string, body templ.Component) templ.Component {
	inner := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<nav class="admin-nav"><a href="/admin/">Dashboard</a><a href="/admin/projects/new/">New project</a>`,
			`<a href="/admin/blogs/new/">New post</a><a href="/admin/messages/">Messages</a>`)
		postButton(h, "/admin/logout/", "Log out", csrfToken)
		h.raw(`</nav>`)
		h.render(ctx, body)
		return h.err
	})
	return Layout(site, PageMeta{Title: title}, inner)
}

// AdminLogin is the admin sign-in form.
func AdminLogin(site models.Site, form models.LoginForm, csrfToken string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<h1>Admin</h1>`)
		if form.Failed {
			h.raw(`<p class="notice error" role="alert">Login failed. Check your credentials and try again.</p>`)
		}
		h.raw(`<form method="post" action="/admin/login/" class="login">`)
		csrfField(h, csrfToken)
		input(h, "Username", "username", "text", form.Username, nil)
		h.raw(`<label>Password<input type="password" name="password"></label>`,
			`<button type="submit">Log in</button></form>`)
		return h.err
	})
	return Layout(site, PageMeta{Title: "Admin"}, body)
}

// AdminDashboard shows the stat cards and every project and post.
func AdminDashboard(site models.Site, dash models.Dashboard, csrfToken string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<h1>Dashboard</h1>`)
		notice(h, false, dash.Notice)
		h.raw(`<div class="cards">`)
		for _, card := range dash.Stats.Cards {
			h.raw(`<div class="card card-`, e(string(card.Kind)), `"><span class="count">`, strconv.Itoa(card.Count),
				`</span><span class="label">`, e(card.Label), `</span></div>`)
		}
		h.raw(`</div><section><h2>Projects</h2><table class="admin-list">`)
		for _, p := range dash.Projects {
			h.raw(`<tr><td><a href="/admin/projects/`, e(p.ID), `/">`, e(p.Title), `</a></td><td>`)
			if p.Featured {
				h.raw(`featured`)
			}
			h.raw(`</td><td>`)
			postButton(h, "/admin/projects/"+p.ID+"/delete/", "Delete", csrfToken)
			h.raw(`</td></tr>`)
		}
		h.raw(`</table></section><section><h2>Blog posts</h2><table class="admin-list">`)
		for _, b := range dash.Blogs {
			h.raw(`<tr><td><a href="/admin/blogs/`, e(b.ID), `/">`, e(b.Title), `</a></td><td>`)
			if b.Published {
				h.raw(`published`)
			} else {
				h.raw(`draft`)
			}
			h.raw(`</td><td>`)
			postButton(h, "/admin/blogs/"+b.ID+"/delete/", "Delete", csrfToken)
			h.raw(`</td></tr>`)
		}
		h.raw(`</table></section>`)
		return h.err
	})
	return adminLayout(site, "Dashboard", csrfToken, body)
}

// AdminProjectForm edits a new or existing project.
func AdminProjectForm(site models.Site, form models.ProjectForm, csrfToken string) templ.Component {
	title := "New project"
	if form.ID != "" {
		title = "Edit project"
	}
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<h1>`, title, `</h1>`)
		notice(h, form.Failed, "")
		h.raw(`<form method="post" action="/admin/projects/" class="editor">`)
		csrfField(h, csrfToken)
		h.raw(`<input type="hidden" name="id" value="`, e(form.ID), `">`)
		input(h, "Title", "title", "text", form.Title, form.Errors)
		textarea(h, "Description", "description", form.Description, 5, form.Errors)
		input(h, "Image URL", "imageUrl", "text", form.ImageURL, form.Errors)
		input(h, "Technologies (comma separated)", "technologies", "text", form.Technologies, form.Errors)
		input(h, "GitHub URL", "githubUrl", "url", form.GithubURL, form.Errors)
		input(h, "Live URL", "liveUrl", "url", form.LiveURL, form.Errors)
		checkbox(h, "Featured", "featured", form.Featured)
		h.raw(`<button type="submit">Save</button></form>`)
		return h.err
	})
	return adminLayout(site, title, csrfToken, body)
}

// AdminBlogForm edits a new or existing blog post.
func AdminBlogForm(site models.Site, form models.BlogForm, csrfToken string) templ.Component {
	title := "New post"
	if form.ID != "" {
		title = "Edit post"
	}
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<h1>`, title, `</h1>`)
		notice(h, form.Failed, "")
		h.raw(`<form method="post" action="/admin/blogs/" class="editor">`)
		csrfField(h, csrfToken)
		h.raw(`<input type="hidden" name="id" value="`, e(form.ID), `">`)
		input(h, "Title", "title", "text", form.Title, form.Errors)
		textarea(h, "Excerpt", "excerpt", form.Excerpt, 3, form.Errors)
		textarea(h, "Content (Markdown)", "content", form.Content, 20, form.Errors)
		input(h, "Image URL", "imageUrl", "text", form.ImageURL, form.Errors)
		input(h, "Tags (comma separated)", "tags", "text", form.Tags, form.Errors)
		input(h, "Read time in minutes (blank to estimate)", "readTime", "text", form.ReadTime, form.Errors)
		checkbox(h, "Published", "published", form.Published)
		h.raw(`<button type="submit">Save</button></form>`)
		return h.err
	})
	return adminLayout(site, title, csrfToken, body)
}

// AdminMessages lists contact messages, unread ones highlighted.
func AdminMessages(site models.Site, msgs []models.Message, status string, csrfToken string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<h1>Messages</h1>`)
		notice(h, false, status)
		if len(msgs) == 0 {
			h.raw(`<p class="empty">No messages yet.</p>`)
			return h.err
		}
		h.raw(`<ul class="messages">`)
		for _, m := range msgs {
			class := "message"
			if !m.Read {
				class += " unread"
			}
			h.raw(`<li class="`, class, `"><p class="meta">`, e(m.Name), ` &lt;`, e(m.Email), `&gt; · `,
				m.CreatedAt.Format("Jan 2, 2006 15:04"), `</p>`)
			if m.Subject != "" {
				h.raw(`<h3>`, e(m.Subject), `</h3>`)
			}
			h.raw(`<p>`, e(m.Message), `</p>`)
			if !m.Read {
				postButton(h, "/admin/messages/"+m.ID+"/read/", "Mark as read", csrfToken)
			}
			postButton(h, "/admin/messages/"+m.ID+"/delete/", "Delete", csrfToken)
			h.raw(`</li>`)
		}
		h.raw(`</ul>`)
		return h.err
	})
	return adminLayout(site, "Messages", csrfToken, body)
}
