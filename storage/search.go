package storage

import (
	"strings"
	"time"
	"unicode/utf8"

	"aidbg/model"
)

// MessageMatch is one search hit inside an archived transcript.
type MessageMatch struct {
	TranscriptID   string
	TranscriptName string
	MessageIndex   int
	Role           string
	Preview        string
	UpdatedAt      time.Time
}

const previewLimit = 100

// Search scans every archived transcript for a case-insensitive substring
// match, skipping system messages.
func (a *Archive) Search(query string) ([]MessageMatch, error) {
	if query == "" {
		return []MessageMatch{}, nil
	}

	metas, err := a.List()
	if err != nil {
		return nil, err
	}

	queryLower := strings.ToLower(query)
	var matches []MessageMatch

	for _, meta := range metas {
		t, err := a.Load(meta.ID)
		if err != nil || t == nil {
			continue
		}

		for i, msg := range t.Messages {
			if msg.Role == model.RoleSystem {
				continue
			}
			if !strings.Contains(strings.ToLower(msg.Content), queryLower) {
				continue
			}

			preview := truncatePreview(msg.Content)

			matches = append(matches, MessageMatch{
				TranscriptID:   t.ID,
				TranscriptName: t.Name,
				MessageIndex:   i,
				Role:           msg.Role,
				Preview:        preview,
				UpdatedAt:      t.UpdatedAt,
			})
		}
	}

	return matches, nil
}

// truncatePreview cuts content to previewLimit bytes, backing up to a rune
// boundary so the preview stays valid UTF-8.
func truncatePreview(content string) string {
	if len(content) <= previewLimit {
		return content
	}
	cut := previewLimit
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return content[:cut] + "..."
}
