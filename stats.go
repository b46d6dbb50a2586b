package portfolio

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/eringen/portfolio/models"
)

type statsSource interface {
	CountProjects(ctx context.Context) (int, error)
	CountBlogs(ctx context.Context) (int, error)
	CountMessages(ctx context.Context) (total, unread int, err error)
}

// GetStats runs the three dashboard counts concurrently. The counts are
// independent reads, so a write landing between them may show up in one
// count and not another.
func GetStats(ctx context.Context, src statsSource) (models.Stats, error) {
	var stats models.Stats

	var mu sync.Mutex
	var wg sync.WaitGroup
	var firstErr error

	setErr := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		n, err := src.CountProjects(ctx)
		if err != nil {
			setErr(fmt.Errorf("count projects: %w", err))
			return
		}
		mu.Lock()
		stats.Projects = n
		mu.Unlock()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		n, err := src.CountBlogs(ctx)
		if err != nil {
			setErr(fmt.Errorf("count blogs: %w", err))
			return
		}
		mu.Lock()
		stats.Blogs = n
		mu.Unlock()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		total, unread, err := src.CountMessages(ctx)
		if err != nil {
			setErr(fmt.Errorf("count messages: %w", err))
			return
		}
		mu.Lock()
		stats.Messages = total
		stats.UnreadMessages = unread
		mu.Unlock()
	}()

	wg.Wait()
	if firstErr != nil {
		return models.Stats{}, firstErr
	}
	stats.Cards = stats.BuildCards()
	return stats, nil
}

func (a *App) handleStats(c echo.Context) error {
	stats, err := GetStats(c.Request().Context(), a.Store)
	if err != nil {
		return storageError(c, "Failed to fetch stats", err)
	}
	return c.JSON(http.StatusOK, stats)
}
