// Package models holds the record types shared by the store, the HTTP API,
// the views and the API client.
package models

import "time"

// Project is a portfolio entry shown on the projects page and, when
// Featured is set, on the landing page.
type Project struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	Technologies []string  `json:"technologies"`
	GithubURL    string    `json:"githubUrl,omitempty"`
	LiveURL      string    `json:"liveUrl,omitempty"`
	Featured     bool      `json:"featured"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Blog is a blog post. Drafts (Published == false) are only visible to the admin
// listing and direct lookups.
type Blog struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Excerpt   string    `json:"excerpt"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	Tags      []string  `json:"tags"`
	Published bool      `json:"published"`
	ReadTime  int       `json:"readTime"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Message is a contact-form submission. Only Read changes after creation.
type Message struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject,omitempty"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// AdminCredential is a stored admin identity. PasswordHash is a bcrypt hash and
// is never serialized.
type AdminCredential struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Image is the metadata of an uploaded image served from the uploads directory.
type Image struct {
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	Size         int       `json:"size"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// CardKind tags a dashboard card.
type CardKind string

const (
	CardProjects CardKind = "projects"
	CardBlogs    CardKind = "blogs"
	CardMessages CardKind = "messages"
	CardUnread   CardKind = "unread"
)

// Card is one entry of the admin dashboard.
type Card struct {
	Kind  CardKind `json:"kind"`
	Label string   `json:"label"`
	Count int      `json:"count"`
}

// Stats is the aggregate returned by the dashboard endpoint.
type Stats struct {
	Projects       int    `json:"projects"`
	Blogs          int    `json:"blogs"`
	Messages       int    `json:"messages"`
	UnreadMessages int    `json:"unreadMessages"`
	Cards          []Card `json:"cards"`
}

// BuildCards returns the fixed dashboard card set for s.
func (s Stats) BuildCards() []Card {
	return []Card{
		{Kind: CardProjects, Label: "Total Projects", Count: s.Projects},
		{Kind: CardBlogs, Label: "Blog Posts", Count: s.Blogs},
		{Kind: CardMessages, Label: "Messages", Count: s.Messages},
		{Kind: CardUnread, Label: "Unread Messages", Count: s.UnreadMessages},
	}
}

// Site carries site-wide settings into the page templates.
type Site struct {
	Name        string
	URL         string
	Description string
	Author      string
}
