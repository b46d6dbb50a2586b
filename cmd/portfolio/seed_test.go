package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/portfolio"
)

const sampleSeed = `
projects:
  - title: Compiler
    description: A toy compiler
    technologies: [Go, " ", LLVM]
    featured: true
  - title: Website
    description: This site
blogs:
  - title: Hello
    excerpt: First post
    content: |
      Some words here.
    tags: [go]
    published: true
  - title: Draft
    excerpt: Later
    content: Not yet
    readTime: 4
`

func TestParseSeed(t *testing.T) {
	content, err := parseSeed(strings.NewReader(sampleSeed))
	require.NoError(t, err)
	require.Len(t, content.Projects, 2)
	require.Len(t, content.Blogs, 2)
	assert.True(t, content.Projects[0].Featured)
	assert.Equal(t, "Some words here.\n", content.Blogs[0].Content)
	assert.Equal(t, 4, content.Blogs[1].ReadTime)
}

func TestParseSeedEmpty(t *testing.T) {
	content, err := parseSeed(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, content.Projects)
	assert.Empty(t, content.Blogs)
}

func TestParseSeedRejectsUnknownKeys(t *testing.T) {
	_, err := parseSeed(strings.NewReader("projects:\n  - title: x\n    descripton: typo\n"))
	assert.Error(t, err)
}

func TestParseSeedRequiresTitle(t *testing.T) {
	_, err := parseSeed(strings.NewReader("blogs:\n  - excerpt: e\n    content: c\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blog 1")
}

func TestParseSeedAppliesFieldRules(t *testing.T) {
	_, err := parseSeed(strings.NewReader("projects:\n  - title: x\n    description: d\n    githubUrl: not a url\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project 1: githubUrl must be a valid URL")

	long := strings.Repeat("a", 201)
	_, err = parseSeed(strings.NewReader("blogs:\n  - title: " + long + "\n    excerpt: e\n    content: c\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title must be at most 200 characters")
}

func TestApplySeed(t *testing.T) {
	store, err := portfolio.NewStore(portfolio.DriverSQLite, filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	defer store.Close()

	content, err := parseSeed(strings.NewReader(sampleSeed))
	require.NoError(t, err)

	ctx := context.Background()
	projects, blogs, err := applySeed(ctx, store, content)
	require.NoError(t, err)
	assert.Equal(t, 2, projects)
	assert.Equal(t, 2, blogs)

	featured, err := store.ListProjects(ctx, true)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, []string{"Go", "LLVM"}, featured[0].Technologies)

	published, err := store.ListBlogs(ctx, true)
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, 1, published[0].ReadTime)
}
