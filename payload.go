package portfolio

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/eringen/portfolio/models"
)

// TagList accepts either a JSON array of strings or a single comma-joined
// string. Entries are trimmed and empty ones dropped.
type TagList []string

func (t *TagList) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*t = nil
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		var joined string
		if err2 := json.Unmarshal(b, &joined); err2 != nil {
			return &json.UnmarshalTypeError{Value: "value", Type: reflect.TypeOf(t).Elem()}
		}
		list = strings.Split(joined, ",")
	}
	*t = TagList(FilterEmpty(list))
	return nil
}

// Values returns the normalized entries, never nil.
func (t TagList) Values() []string {
	if t == nil {
		return []string{}
	}
	return []string(t)
}

// FieldError names one invalid payload field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// projectPatch is the JSON body of project create and update. Absent fields
// are nil and leave the target unchanged.
type projectPatch struct {
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	ImageURL     *string  `json:"imageUrl"`
	Technologies *TagList `json:"technologies"`
	GithubURL    *string  `json:"githubUrl"`
	LiveURL      *string  `json:"liveUrl"`
	Featured     *bool    `json:"featured"`
}

func (p projectPatch) apply(dst *models.Project) {
	setString(&dst.Title, p.Title)
	setString(&dst.Description, p.Description)
	setString(&dst.ImageURL, p.ImageURL)
	setString(&dst.GithubURL, p.GithubURL)
	setString(&dst.LiveURL, p.LiveURL)
	if p.Technologies != nil {
		dst.Technologies = p.Technologies.Values()
	}
	if p.Featured != nil {
		dst.Featured = *p.Featured
	}
}

type projectFields struct {
	Title        string   `json:"title" validate:"required,max=200"`
	Description  string   `json:"description" validate:"required,max=5000"`
	ImageURL     string   `json:"imageUrl" validate:"max=2048"`
	Technologies []string `json:"technologies" validate:"max=30,dive,max=50"`
	GithubURL    string   `json:"githubUrl" validate:"omitempty,url,max=2048"`
	LiveURL      string   `json:"liveUrl" validate:"omitempty,url,max=2048"`
}

// blogPatch is the JSON body of blog create and update.
type blogPatch struct {
	Title     *string  `json:"title"`
	Excerpt   *string  `json:"excerpt"`
	Content   *string  `json:"content"`
	ImageURL  *string  `json:"imageUrl"`
	Tags      *TagList `json:"tags"`
	Published *bool    `json:"published"`
	ReadTime  *int     `json:"readTime"`
}

func (p blogPatch) apply(dst *models.Blog) {
	setString(&dst.Title, p.Title)
	setString(&dst.Excerpt, p.Excerpt)
	setString(&dst.Content, p.Content)
	setString(&dst.ImageURL, p.ImageURL)
	if p.Tags != nil {
		dst.Tags = p.Tags.Values()
	}
	if p.Published != nil {
		dst.Published = *p.Published
	}
	if p.ReadTime != nil {
		dst.ReadTime = *p.ReadTime
	}
}

type blogFields struct {
	Title    string   `json:"title" validate:"required,max=200"`
	Excerpt  string   `json:"excerpt" validate:"required,max=500"`
	Content  string   `json:"content" validate:"required"`
	ImageURL string   `json:"imageUrl" validate:"max=2048"`
	Tags     []string `json:"tags" validate:"max=30,dive,max=50"`
	ReadTime int      `json:"readTime" validate:"gte=1,lte=600"`
}

type messageInput struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Subject string `json:"subject" validate:"max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

func (m *messageInput) normalize() {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.TrimSpace(m.Email)
	m.Subject = strings.TrimSpace(m.Subject)
	m.Message = strings.TrimSpace(m.Message)
}

type loginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

const wordsPerMinute = 200

// EstimateReadTime returns the reading time of content in whole minutes, at least 1.
func EstimateReadTime(content string) int {
	words := len(strings.Fields(content))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

var fieldValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateProject checks p against the rules project payloads must satisfy.
func ValidateProject(p models.Project) []FieldError {
	return check(projectFields{
		Title:        p.Title,
		Description:  p.Description,
		ImageURL:     p.ImageURL,
		Technologies: p.Technologies,
		GithubURL:    p.GithubURL,
		LiveURL:      p.LiveURL,
	})
}

// ValidateBlog checks b against the rules blog payloads must satisfy.
func ValidateBlog(b models.Blog) []FieldError {
	return check(blogFields{
		Title:    b.Title,
		Excerpt:  b.Excerpt,
		Content:  b.Content,
		ImageURL: b.ImageURL,
		Tags:     b.Tags,
		ReadTime: b.ReadTime,
	})
}

// check validates v and converts validator errors into FieldErrors.
func check(v any) []FieldError {
	err := fieldValidator.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "url":
		return fe.Field() + " must be a valid URL"
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at most %s entries", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return fe.Field() + " is invalid"
	}
}

// typeError reports a JSON field whose value has the wrong type, as found in
// a failed c.Bind.
func typeError(err error) (FieldError, bool) {
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Internal != nil {
		err = he.Internal
	}
	var ute *json.UnmarshalTypeError
	if !errors.As(err, &ute) || ute.Field == "" {
		return FieldError{}, false
	}
	return FieldError{Field: ute.Field, Message: ute.Field + " is invalid"}, true
}
