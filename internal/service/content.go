package service

import (
	"fmt"
	"strconv"

	"creator-commerce/internal/model"
)

type entryField func(model.ContentEntry) string

// Preference order per field; the first non-empty value wins.
var (
	urlPreference = []entryField{
		func(e model.ContentEntry) string { return e.DownloadURL },
		func(e model.ContentEntry) string { return e.PublicURL },
		func(e model.ContentEntry) string { return e.FileURL },
	}
	thumbnailPreference = []entryField{
		func(e model.ContentEntry) string { return e.ThumbnailURL },
		func(e model.ContentEntry) string { return e.Thumbnail },
	}
	sizeLabelPreference = []entryField{
		func(e model.ContentEntry) string { return e.SizeLabel },
		func(e model.ContentEntry) string { return FormatFileSize(e.Size) },
	}
)

func firstNonEmpty(e model.ContentEntry, prefs []entryField) string {
	for _, pick := range prefs {
		if v := pick(e); v != "" {
			return v
		}
	}
	return ""
}

// NormalizeContent turns raw bundle entries into self-contained purchased
// items. Optional fields come out as empty strings, zero or empty slices.
func NormalizeContent(entries []model.ContentEntry) []model.PurchasedItem {
	items := make([]model.PurchasedItem, 0, len(entries))
	for i, e := range entries {
		title := e.Title
		if title == "" {
			title = fmt.Sprintf("Item %d", i+1)
		}
		tags := make([]string, len(e.Tags))
		copy(tags, e.Tags)

		items = append(items, model.PurchasedItem{
			ID:           e.ID,
			Title:        title,
			URL:          firstNonEmpty(e, urlPreference),
			Size:         e.Size,
			SizeLabel:    firstNonEmpty(e, sizeLabelPreference),
			Duration:     e.Duration,
			Format:       e.Format,
			MimeType:     e.MimeType,
			ThumbnailURL: firstNonEmpty(e, thumbnailPreference),
			Tags:         tags,
			Quality:      e.Quality,
		})
	}
	return items
}

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatFileSize renders a byte count with 1024-based units.
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 B"
	}
	if bytes < 1024 {
		return strconv.FormatInt(bytes, 10) + " B"
	}
	v := float64(bytes)
	unit := 0
	for v >= 1024 && unit < len(sizeUnits)-1 {
		v /= 1024
		unit++
	}
	return strconv.FormatFloat(v, 'f', 1, 64) + " " + sizeUnits[unit]
}
