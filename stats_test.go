package portfolio

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/mock/gomock"

	"github.com/eringen/portfolio/mocks"
	"github.com/eringen/portfolio/models"
)

func TestGetStats(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mocks.NewMockRecords(ctrl)
	m.EXPECT().CountProjects(gomock.Any()).Return(3, nil)
	m.EXPECT().CountBlogs(gomock.Any()).Return(2, nil)
	m.EXPECT().CountMessages(gomock.Any()).Return(5, 4, nil)

	stats, err := GetStats(context.Background(), m)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.Projects != 3 || stats.Blogs != 2 || stats.Messages != 5 || stats.UnreadMessages != 4 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	want := []models.Card{
		{Kind: models.CardProjects, Label: "Total Projects", Count: 3},
		{Kind: models.CardBlogs, Label: "Blog Posts", Count: 2},
		{Kind: models.CardMessages, Label: "Messages", Count: 5},
		{Kind: models.CardUnread, Label: "Unread Messages", Count: 4},
	}
	if len(stats.Cards) != len(want) {
		t.Fatalf("len(Cards) = %d, want %d", len(stats.Cards), len(want))
	}
	for i := range want {
		if stats.Cards[i] != want[i] {
			t.Errorf("Cards[%d] = %+v, want %+v", i, stats.Cards[i], want[i])
		}
	}
}

func TestGetStatsFailsWhenAnyCountFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mocks.NewMockRecords(ctrl)
	m.EXPECT().CountProjects(gomock.Any()).Return(3, nil)
	m.EXPECT().CountBlogs(gomock.Any()).Return(0, errors.New("disk I/O error"))
	m.EXPECT().CountMessages(gomock.Any()).Return(5, 4, nil)

	if _, err := GetStats(context.Background(), m); err == nil {
		t.Fatal("expected error")
	}
}

func TestHandleStatsHidesStorageError(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mocks.NewMockRecords(ctrl)
	m.EXPECT().CountProjects(gomock.Any()).Return(0, errors.New("database is locked")).AnyTimes()
	m.EXPECT().CountBlogs(gomock.Any()).Return(0, nil).AnyTimes()
	m.EXPECT().CountMessages(gomock.Any()).Return(0, 0, nil).AnyTimes()

	a := &App{Store: m}
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	rec := httptest.NewRecorder()

	if err := a.handleStats(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Failed to fetch stats") {
		t.Errorf("body = %q", body)
	}
	if strings.Contains(body, "locked") {
		t.Errorf("storage detail leaked: %q", body)
	}
}
