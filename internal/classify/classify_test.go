package classify

import (
	"strings"
	"testing"

	"github.com/HenryXiaoYang/economic-news-skill/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsGated_EachCondition(t *testing.T) {
	tests := []struct {
		name  string
		flash domain.RawFlash
		gated bool
	}{
		{"plain item", domain.RawFlash{ID: "1", Data: &domain.RawFlashData{Content: "hello"}}, false},
		{"type marker", domain.RawFlash{ID: "2", Type: 1}, true},
		{"vip marker", domain.RawFlash{ID: "3", VIP: 1}, true},
		{"lock marker", domain.RawFlash{ID: "4", Data: &domain.RawFlashData{Lock: true}}, true},
		{"vip level", domain.RawFlash{ID: "5", Data: &domain.RawFlashData{VIPLevel: 2}}, true},
		{"no nested payload", domain.RawFlash{ID: "6", Title: "t"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.gated, IsGated(tt.flash))
		})
	}
}

func TestParseFlash_FiltersGatedBatch(t *testing.T) {
	batch := []domain.RawFlash{
		{ID: "a", Data: &domain.RawFlashData{Content: "ok one"}},
		{ID: "b", Type: 1},
		{ID: "c", VIP: 1},
		{ID: "d", Data: &domain.RawFlashData{Content: "locked", Lock: true}},
		{ID: "e", Data: &domain.RawFlashData{Content: "leveled", VIPLevel: 1}},
		{ID: "f", Data: &domain.RawFlashData{Content: "ok two"}},
	}

	var accepted []domain.FlashRecord
	for _, f := range batch {
		if rec, ok := ParseFlash(f); ok {
			accepted = append(accepted, rec)
		}
	}

	require.Len(t, accepted, 2)
	assert.Equal(t, "a", accepted[0].ID)
	assert.Equal(t, "f", accepted[1].ID)
}

func TestExtractTitle_BracketedPrefix(t *testing.T) {
	tests := []struct {
		content string
		want    string
	}{
		{"【Breaking】Markets rally", "Breaking"},
		{"<b>【Breaking】</b>Markets rally", "Breaking"},
		{"【<b>Breaking</b>】Markets rally", "Breaking"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractTitle(tt.content), "content %q", tt.content)
	}
}

func TestExtractTitle_Truncation(t *testing.T) {
	long := strings.Repeat("x", 80)
	got := ExtractTitle(long)
	assert.Equal(t, long[:50], got)

	short := "no brackets here"
	assert.Equal(t, short, ExtractTitle(short))

	// Truncation counts characters, not bytes.
	wide := strings.Repeat("金", 80)
	assert.Equal(t, strings.Repeat("金", 50), ExtractTitle(wide))
}

func TestParseFlash_TitleResolutionOrder(t *testing.T) {
	// Explicit nested title wins over derivation.
	rec, ok := ParseFlash(domain.RawFlash{
		ID:   "1",
		Data: &domain.RawFlashData{Title: "Explicit", Content: "【Derived】body"},
	})
	require.True(t, ok)
	assert.Equal(t, "Explicit", rec.Title)

	// No explicit title: derive from the body.
	rec, ok = ParseFlash(domain.RawFlash{
		ID:   "2",
		Data: &domain.RawFlashData{Content: "【Derived】body"},
	})
	require.True(t, ok)
	assert.Equal(t, "Derived", rec.Title)

	// No nested payload at all: fall back to the top-level title.
	rec, ok = ParseFlash(domain.RawFlash{ID: "3", Title: "TopLevel"})
	require.True(t, ok)
	assert.Equal(t, "TopLevel", rec.Title)
	assert.Empty(t, rec.Content)
}

func TestParseFlash_CarriesChannelsAndImportance(t *testing.T) {
	rec, ok := ParseFlash(domain.RawFlash{
		ID:        "1",
		Time:      "2026-08-27 10:00:00",
		Important: 1,
		Channel:   []int{3, 7},
		Data:      &domain.RawFlashData{Content: "body"},
	})
	require.True(t, ok)
	assert.True(t, rec.Important)
	assert.True(t, rec.InChannel(7))
	assert.False(t, rec.InChannel(4))
	assert.Equal(t, "2026-08-27 10:00:00", rec.Time)
}

func TestParseSearchFlash_NeverDerivesTitle(t *testing.T) {
	rec, ok := ParseSearchFlash(domain.RawFlash{
		ID:   "1",
		Data: &domain.RawFlashData{Content: "【WouldDerive】body"},
	})
	require.True(t, ok)
	assert.Empty(t, rec.Title, "search path must not derive a title from the body")
	assert.Equal(t, "【WouldDerive】body", rec.Content)
}

func TestParseSearchFlash_GatedExcludedEntirely(t *testing.T) {
	_, ok := ParseSearchFlash(domain.RawFlash{ID: "1", VIP: 1, Data: &domain.RawFlashData{Title: "secret"}})
	assert.False(t, ok)
}

func TestParseSearchFlash_TimeFallback(t *testing.T) {
	rec, ok := ParseSearchFlash(domain.RawFlash{ID: "1", DisplayDatetime: "2026-08-27 09:00"})
	require.True(t, ok)
	assert.Equal(t, "2026-08-27 09:00", rec.Time)
}
