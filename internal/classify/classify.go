package classify

import (
	"regexp"

	"github.com/HenryXiaoYang/economic-news-skill/internal/domain"
)

const titleFallbackLen = 50

// titlePattern matches a leading 【…】 segment, optionally wrapped in bold
// markup on either side of the brackets.
var titlePattern = regexp.MustCompile(`^(?:<b>)?【(?:<b>)?(.+?)(?:</b>)?】`)

// IsGated reports whether a raw item is restricted to the premium audience.
// Any one of the four upstream markers is enough to reject it.
func IsGated(f domain.RawFlash) bool {
	if f.Type == 1 {
		return true
	}
	if f.VIP == 1 {
		return true
	}
	if f.Data != nil {
		if bool(f.Data.Lock) {
			return true
		}
		if f.Data.VIPLevel > 0 {
			return true
		}
	}
	return false
}

// ExtractTitle derives a title from body text: the captured inner text of a
// leading bracketed segment, otherwise the first 50 characters of the body.
func ExtractTitle(content string) string {
	if content == "" {
		return ""
	}
	if m := titlePattern.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	runes := []rune(content)
	if len(runes) > titleFallbackLen {
		return string(runes[:titleFallbackLen])
	}
	return content
}

// ParseFlash classifies one raw feed item. Gated items are rejected. The
// title resolution order is: nested explicit title, derived from the body,
// top-level title when no nested payload exists at all.
func ParseFlash(f domain.RawFlash) (domain.FlashRecord, bool) {
	if IsGated(f) {
		return domain.FlashRecord{}, false
	}

	var title, content string
	if f.Data != nil {
		content = f.Data.Content
		title = f.Data.Title
		if title == "" {
			title = ExtractTitle(content)
		}
	} else {
		title = f.Title
	}

	return domain.FlashRecord{
		ID:        f.ID,
		Time:      f.Time,
		Important: f.Important == 1,
		Title:     title,
		Content:   content,
		Channels:  f.Channel,
	}, true
}

// ParseSearchFlash classifies one raw search result. Same gating as the feed
// path, but the title only ever comes from an explicit field (nested first,
// then top-level) and is never derived from the body.
func ParseSearchFlash(f domain.RawFlash) (domain.FlashRecord, bool) {
	if IsGated(f) {
		return domain.FlashRecord{}, false
	}

	var title, content string
	if f.Data != nil {
		title = f.Data.Title
		content = f.Data.Content
	}
	if title == "" {
		title = f.Title
	}

	t := f.Time
	if t == "" {
		t = f.DisplayDatetime
	}

	return domain.FlashRecord{
		ID:        f.ID,
		Time:      t,
		Important: f.Important == 1,
		Title:     title,
		Content:   content,
		Channels:  f.Channel,
	}, true
}
