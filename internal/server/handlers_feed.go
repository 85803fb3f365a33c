package server

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/HenryXiaoYang/economic-news-skill/internal/classify"
	"github.com/HenryXiaoYang/economic-news-skill/internal/domain"
	apperrors "github.com/HenryXiaoYang/economic-news-skill/internal/errors"
	"github.com/HenryXiaoYang/economic-news-skill/internal/metrics"
)

const (
	maxLatestLimit = 200
	maxSearchLimit = 100
)

type top10Item struct {
	Rank    int    `json:"rank"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Time    string `json:"time"`
}

func (s *Server) handleTop10(c echo.Context) error {
	ctx := c.Request().Context()

	entries := s.state.TopList()
	items := make([]top10Item, 0, len(entries))
	for _, entry := range entries {
		content := ""
		if entry.FlashID != "" {
			if cached, ok, err := s.details.Get(ctx, entry.FlashID); err != nil {
				slog.Warn("Detail store read failed", "flash_id", entry.FlashID, "error", err)
			} else if ok {
				content = cached
			}
			if content == "" {
				if rec, ok := s.ring.Find(entry.FlashID); ok {
					content = rec.Content
				}
			}
		}
		// A headline with no body yet falls back to itself.
		if content == "" {
			content = entry.Title
		}
		items = append(items, top10Item{
			Rank:    len(items) + 1,
			Title:   entry.Title,
			Content: content,
			Time:    entry.DisplayTime,
		})
	}

	var updated any
	if t := s.state.LastUpdate(); !t.IsZero() {
		updated = t.Format("2006-01-02T15:04:05")
	}

	return c.JSON(200, map[string]any{
		"success": true,
		"count":   len(items),
		"items":   items,
		"updated": updated,
	})
}

func (s *Server) handleLatest(c echo.Context) error {
	limit, err := queryInt(c, "limit", 50)
	if err != nil {
		return err
	}
	limit = clampLimit(limit, maxLatestLimit)

	var items []domain.FlashRecord
	var total int
	if raw := c.QueryParam("channel"); raw != "" {
		channel, err := strconv.Atoi(raw)
		if err != nil {
			return apperrors.ValidationError("parameter must be an integer").WithField("param", "channel")
		}
		matched := s.ring.Filter(0, func(r domain.FlashRecord) bool {
			return r.InChannel(channel)
		})
		total = len(matched)
		items = truncate(matched, limit)
	} else {
		all := s.ring.Items(0)
		total = len(all)
		items = truncate(all, limit)
	}

	return c.JSON(200, map[string]any{
		"success": true,
		"count":   total,
		"items":   items,
	})
}

// cleanCategory is a category node stripped down to id and name.
type cleanCategory struct {
	ID    int             `json:"id"`
	Name  string          `json:"name"`
	Child []cleanCategory `json:"child,omitempty"`
}

func (s *Server) handleCategories(c echo.Context) error {
	categories := s.state.Categories()
	items := make([]cleanCategory, 0, len(categories))
	for _, cat := range categories {
		clean := cleanCategory{ID: cat.ID, Name: cat.Name}
		for _, child := range cat.Child {
			clean.Child = append(clean.Child, cleanCategory{ID: child.ID, Name: child.Name})
		}
		items = append(items, clean)
	}

	return c.JSON(200, map[string]any{
		"success": true,
		"count":   len(items),
		"items":   items,
	})
}

func (s *Server) handleCategory(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return apperrors.ValidationError("category id must be an integer").WithField("param", "id")
	}
	limit, err := queryInt(c, "limit", 50)
	if err != nil {
		return err
	}
	limit = clampLimit(limit, maxLatestLimit)

	items := []domain.FlashRecord{}
	if limit > 0 {
		items = s.ring.Filter(limit, func(r domain.FlashRecord) bool {
			return r.InChannel(id)
		})
	}
	if items == nil {
		items = []domain.FlashRecord{}
	}

	var name any
	if n, ok := s.state.CategoryName(id); ok {
		name = n
	}

	return c.JSON(200, map[string]any{
		"success":       true,
		"category_id":   id,
		"category_name": name,
		"count":         len(items),
		"items":         items,
	})
}

func (s *Server) handleSearch(c echo.Context) error {
	query := c.QueryParam("q")
	if strings.TrimSpace(query) == "" {
		metrics.SearchRequestsTotal.WithLabelValues("invalid").Inc()
		return apperrors.ValidationError("search keyword must not be empty").WithField("param", "q")
	}

	limit, err := queryInt(c, "limit", 20)
	if err != nil {
		return err
	}
	limit = clampLimit(limit, maxSearchLimit)

	results, err := s.searcher.Search(c.Request().Context(), query)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
		return apperrors.ExternalError("search failed", err).WithField("keyword", query)
	}

	items := make([]domain.FlashRecord, 0, limit)
	for _, raw := range results {
		if len(items) >= limit {
			break
		}
		rec, ok := classify.ParseSearchFlash(raw)
		if !ok {
			continue
		}
		items = append(items, rec)
	}

	metrics.SearchRequestsTotal.WithLabelValues("ok").Inc()
	return c.JSON(200, map[string]any{
		"success": true,
		"keyword": query,
		"count":   len(items),
		"items":   items,
	})
}

// clampLimit bounds a client-supplied limit on both ends: values above max
// are capped, non-positive values collapse to zero.
func clampLimit(limit, max int) int {
	if limit < 0 {
		return 0
	}
	if limit > max {
		return max
	}
	return limit
}

func truncate(items []domain.FlashRecord, limit int) []domain.FlashRecord {
	if items == nil || limit <= 0 {
		return []domain.FlashRecord{}
	}
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
