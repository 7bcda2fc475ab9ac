package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type HighlightColor string

const (
	HighlightColorYellow HighlightColor = "yellow"
	HighlightColorGreen  HighlightColor = "green"
	HighlightColorBlue   HighlightColor = "blue"
	HighlightColorPink   HighlightColor = "pink"
	HighlightColorPurple HighlightColor = "purple"
	HighlightColorOrange HighlightColor = "orange"
)

func (c HighlightColor) Valid() bool {
	switch c {
	case HighlightColorYellow, HighlightColorGreen, HighlightColorBlue,
		HighlightColorPink, HighlightColorPurple, HighlightColorOrange:
		return true
	}
	return false
}

type NoteType string

const (
	NoteTypeGeneral  NoteType = "general"
	NoteTypeQuestion NoteType = "question"
	NoteTypeInsight  NoteType = "insight"
	NoteTypeQuote    NoteType = "quote"
	NoteTypeSummary  NoteType = "summary"
)

func (t NoteType) Valid() bool {
	switch t {
	case NoteTypeGeneral, NoteTypeQuestion, NoteTypeInsight, NoteTypeQuote, NoteTypeSummary:
		return true
	}
	return false
}

type DeviceType string

const (
	DeviceTypeMobile  DeviceType = "mobile"
	DeviceTypeDesktop DeviceType = "desktop"
)

// ReadingProgress is the single progress record for a (user, book) pair.
type ReadingProgress struct {
	ID                 string     `gorm:"primaryKey;size:36" json:"id,omitempty"`
	UserID             string     `gorm:"uniqueIndex:idx_progress_user_book;size:64" json:"user_id"`
	BookID             string     `gorm:"uniqueIndex:idx_progress_user_book;size:64" json:"book_id"`
	CurrentChapterID   string     `gorm:"size:64" json:"current_chapter_id,omitempty"`
	CurrentPosition    int        `json:"current_position"`
	ProgressPercentage float64    `json:"progress_percentage"`
	TotalReadingTime   int64      `json:"total_reading_time"` // seconds
	SessionsCount      int        `json:"sessions_count"`
	StartedAt          time.Time  `json:"started_at"`
	LastReadAt         time.Time  `json:"last_read_at"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
}

func (ReadingProgress) TableName() string {
	return "reading_progress"
}

// ProgressUpdate is a partial ReadingProgress; nil fields are left unchanged.
type ProgressUpdate struct {
	CurrentChapterID   *string  `json:"current_chapter_id,omitempty"`
	CurrentPosition    *int     `json:"current_position,omitempty"`
	ProgressPercentage *float64 `json:"progress_percentage,omitempty"`
	TotalReadingTime   *int64   `json:"total_reading_time,omitempty"`
	SessionsCount      *int     `json:"sessions_count,omitempty"`
}

func (u ProgressUpdate) Apply(p *ReadingProgress) {
	if u.CurrentChapterID != nil {
		p.CurrentChapterID = *u.CurrentChapterID
	}
	if u.CurrentPosition != nil {
		p.CurrentPosition = *u.CurrentPosition
	}
	if u.ProgressPercentage != nil {
		p.ProgressPercentage = *u.ProgressPercentage
	}
	if u.TotalReadingTime != nil {
		p.TotalReadingTime = *u.TotalReadingTime
	}
	if u.SessionsCount != nil {
		p.SessionsCount = *u.SessionsCount
	}
}

// UserHighlight is a span of chapter text marked by the user. Context before
// and after the span lets clients re-anchor it when content drifts.
type UserHighlight struct {
	ID            string         `gorm:"primaryKey;size:36" json:"id,omitempty"`
	UserID        string         `gorm:"index;size:64" json:"user_id"`
	BookID        string         `gorm:"index;size:64" json:"book_id"`
	ChapterID     string         `gorm:"size:64" json:"chapter_id"`
	SelectedText  string         `gorm:"type:text" json:"selected_text"`
	StartOffset   int            `json:"start_offset"`
	EndOffset     int            `json:"end_offset"`
	Color         HighlightColor `gorm:"size:10;default:'yellow'" json:"color"`
	Note          string         `gorm:"type:text" json:"note,omitempty"`
	IsPublic      bool           `gorm:"default:false" json:"is_public"`
	ContextBefore string         `gorm:"size:500" json:"context_before,omitempty"`
	ContextAfter  string         `gorm:"size:500" json:"context_after,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (UserHighlight) TableName() string {
	return "user_highlights"
}

// HighlightUpdate carries a partial highlight update; nil fields are left as is.
type HighlightUpdate struct {
	Color         *HighlightColor `json:"color,omitempty"`
	Note          *string         `json:"note,omitempty"`
	IsPublic      *bool           `json:"is_public,omitempty"`
	ContextBefore *string         `json:"context_before,omitempty"`
	ContextAfter  *string         `json:"context_after,omitempty"`
}

func (u HighlightUpdate) Apply(h *UserHighlight) {
	if u.Color != nil {
		h.Color = *u.Color
	}
	if u.Note != nil {
		h.Note = *u.Note
	}
	if u.IsPublic != nil {
		h.IsPublic = *u.IsPublic
	}
	if u.ContextBefore != nil {
		h.ContextBefore = *u.ContextBefore
	}
	if u.ContextAfter != nil {
		h.ContextAfter = *u.ContextAfter
	}
}

// UserNote is a free-form annotation, optionally anchored to a highlight or a
// position.
type UserNote struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id,omitempty"`
	UserID      string    `gorm:"index;size:64" json:"user_id"`
	BookID      string    `gorm:"index;size:64" json:"book_id"`
	ChapterID   string    `gorm:"size:64" json:"chapter_id,omitempty"`
	HighlightID string    `gorm:"size:36" json:"highlight_id,omitempty"`
	Position    *int      `json:"position,omitempty"`
	Title       string    `gorm:"size:256" json:"title,omitempty"`
	Content     string    `gorm:"type:text" json:"content"`
	NoteType    NoteType  `gorm:"size:20;default:'general'" json:"note_type"`
	Tags        Tags      `gorm:"type:text" json:"tags"`
	IsFavorite  bool      `gorm:"default:false" json:"is_favorite"`
	IsPublic    bool      `gorm:"default:false" json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (UserNote) TableName() string {
	return "user_notes"
}

type NoteUpdate struct {
	Title      *string   `json:"title,omitempty"`
	Content    *string   `json:"content,omitempty"`
	NoteType   *NoteType `json:"note_type,omitempty"`
	Tags       *Tags     `json:"tags,omitempty"`
	IsFavorite *bool     `json:"is_favorite,omitempty"`
	IsPublic   *bool     `json:"is_public,omitempty"`
}

func (u NoteUpdate) Apply(n *UserNote) {
	if u.Title != nil {
		n.Title = *u.Title
	}
	if u.Content != nil {
		n.Content = *u.Content
	}
	if u.NoteType != nil {
		n.NoteType = *u.NoteType
	}
	if u.Tags != nil {
		n.Tags = append(Tags(nil), (*u.Tags)...)
	}
	if u.IsFavorite != nil {
		n.IsFavorite = *u.IsFavorite
	}
	if u.IsPublic != nil {
		n.IsPublic = *u.IsPublic
	}
}

// Bookmark is a named pointer into a book. IDs are generated by the client.
type Bookmark struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"index;size:64" json:"user_id"`
	BookID    string    `gorm:"index;size:64" json:"book_id"`
	ChapterID string    `gorm:"size:64" json:"chapter_id"`
	Position  int       `json:"position"`
	Title     string    `gorm:"size:256" json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

func (Bookmark) TableName() string {
	return "bookmarks"
}

// ReadingSession is one continuous reading interval, bounded by opening and
// closing a book.
type ReadingSession struct {
	ID              string     `gorm:"primaryKey;size:36" json:"id,omitempty"`
	UserID          string     `gorm:"index;size:64" json:"user_id"`
	BookID          string     `gorm:"index;size:64" json:"book_id"`
	StartTime       time.Time  `gorm:"index" json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationSeconds int64      `json:"duration_seconds"`
	StartPosition   int        `json:"start_position"`
	EndPosition     int        `json:"end_position"`
	WordsRead       int        `json:"words_read"`
	PagesRead       int        `json:"pages_read"`
	DeviceType      DeviceType `gorm:"size:20" json:"device_type"`
	CreatedAt       time.Time  `json:"created_at"`
}

func (ReadingSession) TableName() string {
	return "reading_sessions"
}

// Tags is a string list persisted as a JSON array column.
type Tags []string

func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(t))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (t *Tags) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*t = Tags{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("tags: unsupported column type %T", src)
	}
	if len(raw) == 0 {
		*t = Tags{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("tags: %w", err)
	}
	*t = out
	return nil
}

// Normalize trims tags, drops empties and duplicates, and keeps input order.
func (t Tags) Normalize() Tags {
	seen := make(map[string]bool, len(t))
	out := make(Tags, 0, len(t))
	for _, tag := range t {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
