package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/eringen/portfolio"
	"github.com/eringen/portfolio/models"
)

var seedFile string

// seedContent is the layout of a seed file:
//
//	projects:
//	  - title: Compiler
//	    description: A toy compiler
//	    technologies: [Go, LLVM]
//	    featured: true
//	blogs:
//	  - title: Hello
//	    excerpt: First post
//	    content: |
//	      Body in markdown.
//	    tags: [go]
//	    published: true
type seedContent struct {
	Projects []seedProject `yaml:"projects"`
	Blogs    []seedBlog    `yaml:"blogs"`
}

type seedProject struct {
	Title        string   `yaml:"title"`
	Description  string   `yaml:"description"`
	ImageURL     string   `yaml:"imageUrl"`
	Technologies []string `yaml:"technologies"`
	GithubURL    string   `yaml:"githubUrl"`
	LiveURL      string   `yaml:"liveUrl"`
	Featured     bool     `yaml:"featured"`
}

type seedBlog struct {
	Title     string   `yaml:"title"`
	Excerpt   string   `yaml:"excerpt"`
	Content   string   `yaml:"content"`
	ImageURL  string   `yaml:"imageUrl"`
	Tags      []string `yaml:"tags"`
	Published bool     `yaml:"published"`
	ReadTime  int      `yaml:"readTime"`
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Import projects and blog posts from a YAML file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(seedFile)
		if err != nil {
			return err
		}
		defer f.Close()

		content, err := parseSeed(f)
		if err != nil {
			return err
		}

		store, err := openStore(settings.Site)
		if err != nil {
			return err
		}
		defer store.Close()

		projects, blogs, err := applySeed(cmd.Context(), store, content)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d projects and %d blog posts\n", projects, blogs)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "content.yaml", "seed file")
}

// parseSeed decodes and checks a seed file. Unknown keys are rejected so that
// typos do not silently drop fields.
func parseSeed(r io.Reader) (seedContent, error) {
	var content seedContent
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&content); err != nil && !errors.Is(err, io.EOF) {
		return seedContent{}, fmt.Errorf("parse seed file: %w", err)
	}

	for i, p := range content.Projects {
		if errs := portfolio.ValidateProject(p.model()); len(errs) > 0 {
			return seedContent{}, fmt.Errorf("project %d: %s", i+1, joinErrors(errs))
		}
	}
	for i, b := range content.Blogs {
		if errs := portfolio.ValidateBlog(b.model()); len(errs) > 0 {
			return seedContent{}, fmt.Errorf("blog %d: %s", i+1, joinErrors(errs))
		}
	}
	return content, nil
}

func joinErrors(errs []portfolio.FieldError) string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

func (p seedProject) model() models.Project {
	return models.Project{
		Title:        strings.TrimSpace(p.Title),
		Description:  strings.TrimSpace(p.Description),
		ImageURL:     strings.TrimSpace(p.ImageURL),
		Technologies: portfolio.FilterEmpty(p.Technologies),
		GithubURL:    strings.TrimSpace(p.GithubURL),
		LiveURL:      strings.TrimSpace(p.LiveURL),
		Featured:     p.Featured,
	}
}

// model fills in an estimated read time when none is given.
func (b seedBlog) model() models.Blog {
	readTime := b.ReadTime
	if readTime <= 0 {
		readTime = portfolio.EstimateReadTime(b.Content)
	}
	return models.Blog{
		Title:     strings.TrimSpace(b.Title),
		Excerpt:   strings.TrimSpace(b.Excerpt),
		Content:   b.Content,
		ImageURL:  strings.TrimSpace(b.ImageURL),
		Tags:      portfolio.FilterEmpty(b.Tags),
		Published: b.Published,
		ReadTime:  readTime,
	}
}

type seedTarget interface {
	CreateProject(ctx context.Context, p models.Project) (models.Project, error)
	CreateBlog(ctx context.Context, b models.Blog) (models.Blog, error)
}

func applySeed(ctx context.Context, store seedTarget, content seedContent) (projects, blogs int, err error) {
	for _, p := range content.Projects {
		if _, err := store.CreateProject(ctx, p.model()); err != nil {
			return projects, blogs, err
		}
		projects++
	}
	for _, b := range content.Blogs {
		if _, err := store.CreateBlog(ctx, b.model()); err != nil {
			return projects, blogs, err
		}
		blogs++
	}
	return projects, blogs, nil
}
