package models

// FormErrors maps a field name to the message shown next to it.
type FormErrors map[string]string

// ContactForm is the state of the public contact form. Values are kept
// exactly as entered so a failed submission can be shown again.
type ContactForm struct {
	Name    string
	Email   string
	Subject string
	Message string

	Sent   bool // submission stored
	Failed bool // last submission was rejected or could not be stored
	Errors FormErrors
}

// LoginForm is the state of the admin login form. The password is never
// echoed back.
type LoginForm struct {
	Username string
	Failed   bool
}

// ProjectForm is the state of the admin project editor. ID is empty when
// creating. Technologies is the comma-joined text as typed.
type ProjectForm struct {
	ID           string
	Title        string
	Description  string
	ImageURL     string
	Technologies string
	GithubURL    string
	LiveURL      string
	Featured     bool

	Failed bool
	Errors FormErrors
}

// BlogForm is the state of the admin blog editor. ReadTime stays text so an
// invalid entry is shown as typed.
type BlogForm struct {
	ID        string
	Title     string
	Excerpt   string
	Content   string
	ImageURL  string
	Tags      string
	ReadTime  string
	Published bool

	Failed bool
	Errors FormErrors
}

// Dashboard is what the admin landing page shows.
type Dashboard struct {
	Stats    Stats
	Projects []Project
	Blogs    []Blog
	Notice   string
}
