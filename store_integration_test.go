//go:build integration

package portfolio

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/eringen/portfolio/models"
)

type PostgresStoreSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	store     *Store
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("portfolio_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	store, err := NewStore(DriverPostgres, connStr)
	s.Require().NoError(err)
	s.store = store
}

func (s *PostgresStoreSuite) TearDownSuite() {
	if s.store != nil {
		s.store.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PostgresStoreSuite) SetupTest() {
	for _, table := range []string{"projects", "blogs", "messages", "admins", "images"} {
		_, _ = s.store.db.ExecContext(s.ctx, "DELETE FROM "+table)
	}
	stepClock(s.store)
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) TestSchemaIsIdempotent() {
	s.NoError(s.store.ensureSchema())
}

func (s *PostgresStoreSuite) TestProjectRoundTrip() {
	created, err := s.store.CreateProject(s.ctx, models.Project{
		Title:        "Compiler",
		Description:  "d",
		Technologies: []string{"Go", "SQL"},
		Featured:     true,
	})
	s.Require().NoError(err)

	got, err := s.store.GetProject(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(created, got)

	featured, err := s.store.ListProjects(s.ctx, true)
	s.Require().NoError(err)
	s.Len(featured, 1)

	s.Require().NoError(s.store.DeleteProject(s.ctx, created.ID))
	_, err = s.store.GetProject(s.ctx, created.ID)
	s.True(errors.Is(err, ErrNotFound))
}

func (s *PostgresStoreSuite) TestBlogsPublishedOrder() {
	first, err := s.store.CreateBlog(s.ctx, models.Blog{Title: "a", Excerpt: "e", Content: "c", Published: true, ReadTime: 1})
	s.Require().NoError(err)
	_, err = s.store.CreateBlog(s.ctx, models.Blog{Title: "b", Excerpt: "e", Content: "c", ReadTime: 1})
	s.Require().NoError(err)
	third, err := s.store.CreateBlog(s.ctx, models.Blog{Title: "c", Excerpt: "e", Content: "c", Published: true, ReadTime: 1})
	s.Require().NoError(err)

	published, err := s.store.ListBlogs(s.ctx, true)
	s.Require().NoError(err)
	s.Require().Len(published, 2)
	s.Equal(third.ID, published[0].ID)
	s.Equal(first.ID, published[1].ID)
}

func (s *PostgresStoreSuite) TestMessageCounts() {
	m, err := s.store.CreateMessage(s.ctx, models.Message{Name: "a", Email: "a@example.com", Message: "x"})
	s.Require().NoError(err)
	_, err = s.store.CreateMessage(s.ctx, models.Message{Name: "b", Email: "b@example.com", Message: "y"})
	s.Require().NoError(err)

	s.Require().NoError(s.store.MarkMessageRead(s.ctx, m.ID))
	s.Require().NoError(s.store.MarkMessageRead(s.ctx, m.ID))

	total, unread, err := s.store.CountMessages(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, total)
	s.Equal(1, unread)
}

func (s *PostgresStoreSuite) TestAdminUpsert() {
	created, err := SetAdminPassword(s.ctx, s.store, "admin", "pw-one")
	s.Require().NoError(err)
	s.True(created)

	created, err = SetAdminPassword(s.ctx, s.store, "admin", "pw-two")
	s.Require().NoError(err)
	s.False(created)

	n, err := s.store.CountAdmins(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, n)
}

func (s *PostgresStoreSuite) TestSameTimestampNewestFirst() {
	fixed := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.store.now = func() time.Time { return fixed }

	var ids []string
	for _, title := range []string{"a", "b", "c"} {
		p, err := s.store.CreateProject(s.ctx, models.Project{Title: title, Description: "d"})
		s.Require().NoError(err)
		ids = append(ids, p.ID)
	}

	listed, err := s.store.ListProjects(s.ctx, false)
	s.Require().NoError(err)
	s.Require().Len(listed, 3)
	s.Equal([]string{ids[2], ids[1], ids[0]}, []string{listed[0].ID, listed[1].ID, listed[2].ID})
}
