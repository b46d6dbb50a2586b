package portfolio

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/eringen/portfolio/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// stepClock advances by one second on every call so records get distinct,
// increasing timestamps.
func stepClock(s *Store) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		base = base.Add(time.Second)
		return base
	}
}

func TestNewStore(t *testing.T) {
	s := setupTestStore(t)
	if s.Driver() != DriverSQLite {
		t.Errorf("Driver() = %q, want %q", s.Driver(), DriverSQLite)
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestNewStoreUnknownDriver(t *testing.T) {
	if _, err := NewStore("mysql", "x"); err == nil {
		t.Error("expected error for unsupported driver")
	}
}

func TestProjectCRUD(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	created, err := s.CreateProject(ctx, models.Project{
		Title:        "Compiler",
		Description:  "A toy compiler",
		Technologies: []string{"Go", "LLVM"},
		GithubURL:    "https://github.com/x/y",
	})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}
	if !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Errorf("CreatedAt %v != UpdatedAt %v", created.CreatedAt, created.UpdatedAt)
	}

	got, err := s.GetProject(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}
	if got.Title != "Compiler" || got.Description != "A toy compiler" {
		t.Errorf("unexpected project: %+v", got)
	}
	if len(got.Technologies) != 2 || got.Technologies[1] != "LLVM" {
		t.Errorf("Technologies = %v", got.Technologies)
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created.CreatedAt)
	}

	got.Title = "Interpreter"
	got.Featured = true
	updated, err := s.UpdateProject(ctx, got)
	if err != nil {
		t.Fatalf("UpdateProject failed: %v", err)
	}
	if updated.Title != "Interpreter" || !updated.Featured {
		t.Errorf("update not applied: %+v", updated)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Error("update must preserve CreatedAt")
	}

	if err := s.DeleteProject(ctx, created.ID); err != nil {
		t.Fatalf("DeleteProject failed: %v", err)
	}
	if _, err := s.GetProject(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetProject after delete: err = %v, want ErrNotFound", err)
	}
	if err := s.DeleteProject(ctx, created.ID); err != nil {
		t.Errorf("deleting a missing project should succeed, got %v", err)
	}
}

func TestUpdateMissingProject(t *testing.T) {
	s := setupTestStore(t)
	_, err := s.UpdateProject(context.Background(), models.Project{ID: "nope", Title: "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestProjectsNewestFirstAndFeatured(t *testing.T) {
	s := setupTestStore(t)
	stepClock(s)
	ctx := context.Background()

	for _, p := range []models.Project{
		{Title: "one", Description: "d", Featured: true},
		{Title: "two", Description: "d"},
		{Title: "three", Description: "d", Featured: true},
	} {
		if _, err := s.CreateProject(ctx, p); err != nil {
			t.Fatalf("CreateProject failed: %v", err)
		}
	}

	all, err := s.ListProjects(ctx, false)
	if err != nil {
		t.Fatalf("ListProjects failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	for i, want := range []string{"three", "two", "one"} {
		if all[i].Title != want {
			t.Errorf("all[%d] = %q, want %q", i, all[i].Title, want)
		}
	}

	featured, err := s.ListProjects(ctx, true)
	if err != nil {
		t.Fatalf("ListProjects(featured) failed: %v", err)
	}
	if len(featured) != 2 || featured[0].Title != "three" || featured[1].Title != "one" {
		t.Errorf("featured = %+v", featured)
	}

	n, err := s.CountProjects(ctx)
	if err != nil || n != 3 {
		t.Errorf("CountProjects = %d, %v; want 3", n, err)
	}
}

func TestBlogPublishedFilter(t *testing.T) {
	s := setupTestStore(t)
	stepClock(s)
	ctx := context.Background()

	draft, err := s.CreateBlog(ctx, models.Blog{Title: "Draft", Excerpt: "e", Content: "c", ReadTime: 1})
	if err != nil {
		t.Fatalf("CreateBlog failed: %v", err)
	}
	pub, err := s.CreateBlog(ctx, models.Blog{Title: "Live", Excerpt: "e", Content: "c", Tags: []string{"go"}, Published: true, ReadTime: 2})
	if err != nil {
		t.Fatalf("CreateBlog failed: %v", err)
	}

	published, err := s.ListBlogs(ctx, true)
	if err != nil {
		t.Fatalf("ListBlogs failed: %v", err)
	}
	if len(published) != 1 || published[0].ID != pub.ID {
		t.Errorf("published = %+v", published)
	}
	if len(published[0].Tags) != 1 || published[0].Tags[0] != "go" {
		t.Errorf("Tags = %v", published[0].Tags)
	}

	all, err := s.ListBlogs(ctx, false)
	if err != nil {
		t.Fatalf("ListBlogs(all) failed: %v", err)
	}
	if len(all) != 2 || all[0].ID != pub.ID || all[1].ID != draft.ID {
		t.Errorf("all = %+v", all)
	}

	// drafts stay reachable by id
	got, err := s.GetBlog(ctx, draft.ID)
	if err != nil {
		t.Fatalf("GetBlog(draft) failed: %v", err)
	}
	if got.Published {
		t.Error("draft should not be published")
	}
	if got.Tags == nil {
		t.Error("Tags should be an empty slice, not nil")
	}

	got.Published = true
	got.ReadTime = 7
	updated, err := s.UpdateBlog(ctx, got)
	if err != nil {
		t.Fatalf("UpdateBlog failed: %v", err)
	}
	if !updated.Published || updated.ReadTime != 7 {
		t.Errorf("update not applied: %+v", updated)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Error("UpdatedAt should advance on update")
	}

	if err := s.DeleteBlog(ctx, draft.ID); err != nil {
		t.Fatalf("DeleteBlog failed: %v", err)
	}
	n, err := s.CountBlogs(ctx)
	if err != nil || n != 1 {
		t.Errorf("CountBlogs = %d, %v; want 1", n, err)
	}
}

func TestMessagesReadAndCount(t *testing.T) {
	s := setupTestStore(t)
	stepClock(s)
	ctx := context.Background()

	first, err := s.CreateMessage(ctx, models.Message{Name: "Ann", Email: "ann@example.com", Message: "hi"})
	if err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}
	if first.Read {
		t.Error("new message should be unread")
	}
	second, err := s.CreateMessage(ctx, models.Message{Name: "Bob", Email: "bob@example.com", Subject: "job", Message: "hello"})
	if err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}

	list, err := s.ListMessages(ctx)
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(list) != 2 || list[0].ID != second.ID {
		t.Errorf("messages = %+v", list)
	}

	if err := s.MarkMessageRead(ctx, first.ID); err != nil {
		t.Fatalf("MarkMessageRead failed: %v", err)
	}
	if err := s.MarkMessageRead(ctx, first.ID); err != nil {
		t.Errorf("marking twice should succeed, got %v", err)
	}
	if err := s.MarkMessageRead(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("MarkMessageRead(missing) err = %v, want ErrNotFound", err)
	}

	total, unread, err := s.CountMessages(ctx)
	if err != nil {
		t.Fatalf("CountMessages failed: %v", err)
	}
	if total != 2 || unread != 1 {
		t.Errorf("CountMessages = %d, %d; want 2, 1", total, unread)
	}

	got, err := s.GetMessage(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetMessage failed: %v", err)
	}
	if !got.Read {
		t.Error("message should be read")
	}

	if err := s.DeleteMessage(ctx, second.ID); err != nil {
		t.Fatalf("DeleteMessage failed: %v", err)
	}
	total, unread, _ = s.CountMessages(ctx)
	if total != 1 || unread != 0 {
		t.Errorf("after delete CountMessages = %d, %d; want 1, 0", total, unread)
	}
}

func TestSameTimestampNewestFirst(t *testing.T) {
	s := setupTestStore(t)
	fixed := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	ctx := context.Background()

	var projectIDs, blogIDs, messageIDs []string
	for _, title := range []string{"a", "b", "c"} {
		p, err := s.CreateProject(ctx, models.Project{Title: title, Description: "d"})
		if err != nil {
			t.Fatal(err)
		}
		projectIDs = append([]string{p.ID}, projectIDs...)
		b, err := s.CreateBlog(ctx, models.Blog{Title: title, Excerpt: "e", Content: "c", Published: true, ReadTime: 1})
		if err != nil {
			t.Fatal(err)
		}
		blogIDs = append([]string{b.ID}, blogIDs...)
		m, err := s.CreateMessage(ctx, models.Message{Name: title, Email: "x@example.com", Message: "m"})
		if err != nil {
			t.Fatal(err)
		}
		messageIDs = append([]string{m.ID}, messageIDs...)
	}

	projects, _ := s.ListProjects(ctx, false)
	blogs, _ := s.ListBlogs(ctx, true)
	msgs, _ := s.ListMessages(ctx)
	if len(projects) != 3 || len(blogs) != 3 || len(msgs) != 3 {
		t.Fatalf("listed %d projects, %d blogs, %d messages", len(projects), len(blogs), len(msgs))
	}
	for i := range projectIDs {
		if projects[i].ID != projectIDs[i] {
			t.Errorf("projects[%d] = %s, want %s", i, projects[i].Title, projectIDs[i])
		}
		if blogs[i].ID != blogIDs[i] {
			t.Errorf("blogs[%d] = %s, want %s", i, blogs[i].Title, blogIDs[i])
		}
		if msgs[i].ID != messageIDs[i] {
			t.Errorf("messages[%d] = %s, want %s", i, msgs[i].Name, messageIDs[i])
		}
	}
}

func TestCountMessagesEmpty(t *testing.T) {
	s := setupTestStore(t)
	total, unread, err := s.CountMessages(context.Background())
	if err != nil {
		t.Fatalf("CountMessages failed: %v", err)
	}
	if total != 0 || unread != 0 {
		t.Errorf("CountMessages = %d, %d; want 0, 0", total, unread)
	}
}

func TestAdmins(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	if _, err := s.GetAdminByUsername(ctx, "admin"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}

	created, err := SetAdminPassword(ctx, s, "admin", "first-password")
	if err != nil {
		t.Fatalf("SetAdminPassword failed: %v", err)
	}
	if !created {
		t.Error("expected credential to be created")
	}
	cred, err := s.GetAdminByUsername(ctx, "admin")
	if err != nil {
		t.Fatalf("GetAdminByUsername failed: %v", err)
	}
	oldHash := cred.PasswordHash

	created, err = SetAdminPassword(ctx, s, "admin", "second-password")
	if err != nil {
		t.Fatalf("SetAdminPassword failed: %v", err)
	}
	if created {
		t.Error("expected existing credential to be updated")
	}
	cred, _ = s.GetAdminByUsername(ctx, "admin")
	if cred.PasswordHash == oldHash {
		t.Error("password hash should change")
	}

	n, err := s.CountAdmins(ctx)
	if err != nil || n != 1 {
		t.Errorf("CountAdmins = %d, %v; want 1", n, err)
	}

	if _, err := s.CreateAdmin(ctx, "admin", "x"); err == nil {
		t.Error("duplicate username should fail")
	}
}

func TestImages(t *testing.T) {
	s := setupTestStore(t)
	stepClock(s)
	ctx := context.Background()

	for _, name := range []string{"a.jpg", "b.jpg"} {
		if _, err := s.SaveImage(ctx, models.Image{Filename: name, OriginalName: name, Width: 10, Height: 5, Size: 100}); err != nil {
			t.Fatalf("SaveImage failed: %v", err)
		}
	}

	ok, err := s.ImageExists(ctx, "a.jpg")
	if err != nil || !ok {
		t.Errorf("ImageExists(a.jpg) = %v, %v", ok, err)
	}
	ok, _ = s.ImageExists(ctx, "c.jpg")
	if ok {
		t.Error("c.jpg should not exist")
	}

	list, err := s.ListImages(ctx)
	if err != nil {
		t.Fatalf("ListImages failed: %v", err)
	}
	if len(list) != 2 || list[0].Filename != "b.jpg" {
		t.Errorf("images = %+v", list)
	}

	if err := s.DeleteImage(ctx, "a.jpg"); err != nil {
		t.Fatalf("DeleteImage failed: %v", err)
	}
	list, _ = s.ListImages(ctx)
	if len(list) != 1 {
		t.Errorf("len = %d, want 1", len(list))
	}
}

func TestJSONListScan(t *testing.T) {
	tests := []struct {
		name string
		src  any
		want int
	}{
		{"nil", nil, 0},
		{"empty string", "", 0},
		{"array", `["a","b"]`, 2},
		{"bytes", []byte(`["a"]`), 1},
		{"null", "null", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l jsonList
			if err := l.Scan(tt.src); err != nil {
				t.Fatalf("Scan failed: %v", err)
			}
			if l == nil {
				t.Fatal("Scan should never leave a nil list")
			}
			if len(l) != tt.want {
				t.Errorf("len = %d, want %d", len(l), tt.want)
			}
		})
	}
}
