package entities

import (
	"time"
)

type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// Known setting keys
const (
	// SettingKeyReaderSettings is the storage namespace for the persisted
	// reader display preferences.
	SettingKeyReaderSettings = "readnwin.reader.settings"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeSepia Theme = "sepia"
)

// ReaderSettings describes presentation only: typography, theme, layout,
// navigation, text to speech and accessibility.
type ReaderSettings struct {
	// Typography
	FontSize      int     `json:"fontSize"`
	FontFamily    string  `json:"fontFamily"`
	LineHeight    float64 `json:"lineHeight"`
	LetterSpacing float64 `json:"letterSpacing"`
	WordSpacing   float64 `json:"wordSpacing"`
	TextAlign     string  `json:"textAlign"`

	// Theme
	Theme           Theme  `json:"theme"`
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`

	// Layout
	PageWidth   string `json:"pageWidth"` // narrow, medium, wide, full
	MarginSize  string `json:"marginSize"`
	ColumnCount int    `json:"columnCount"`
	PageMode    string `json:"pageMode"` // scroll or paginated

	// Navigation
	ShowProgress     bool `json:"showProgress"`
	ShowChapterTitle bool `json:"showChapterTitle"`
	TapToTurn        bool `json:"tapToTurn"`
	AutoBookmark     bool `json:"autoBookmark"`

	// Text to speech
	TTSEnabled bool    `json:"ttsEnabled"`
	TTSVoice   string  `json:"ttsVoice"`
	TTSRate    float64 `json:"ttsRate"`
	TTSPitch   float64 `json:"ttsPitch"`
	TTSVolume  float64 `json:"ttsVolume"`

	// Accessibility
	HighContrast          bool `json:"highContrast"`
	ReduceMotion          bool `json:"reduceMotion"`
	DyslexiaFont          bool `json:"dyslexiaFont"`
	ScreenReaderOptimized bool `json:"screenReaderOptimized"`
}

func DefaultReaderSettings() ReaderSettings {
	return ReaderSettings{
		FontSize:      16,
		FontFamily:    "serif",
		LineHeight:    1.6,
		LetterSpacing: 0,
		WordSpacing:   0,
		TextAlign:     "left",

		Theme:           ThemeLight,
		BackgroundColor: "#ffffff",
		TextColor:       "#1a1a1a",

		PageWidth:   "medium",
		MarginSize:  "medium",
		ColumnCount: 1,
		PageMode:    "scroll",

		ShowProgress:     true,
		ShowChapterTitle: true,
		TapToTurn:        true,
		AutoBookmark:     false,

		TTSEnabled: false,
		TTSVoice:   "",
		TTSRate:    1.0,
		TTSPitch:   1.0,
		TTSVolume:  1.0,
	}
}

// SettingsUpdate is a partial ReaderSettings; nil fields are left unchanged.
type SettingsUpdate struct {
	FontSize      *int     `json:"fontSize,omitempty"`
	FontFamily    *string  `json:"fontFamily,omitempty"`
	LineHeight    *float64 `json:"lineHeight,omitempty"`
	LetterSpacing *float64 `json:"letterSpacing,omitempty"`
	WordSpacing   *float64 `json:"wordSpacing,omitempty"`
	TextAlign     *string  `json:"textAlign,omitempty"`

	Theme           *Theme  `json:"theme,omitempty"`
	BackgroundColor *string `json:"backgroundColor,omitempty"`
	TextColor       *string `json:"textColor,omitempty"`

	PageWidth   *string `json:"pageWidth,omitempty"`
	MarginSize  *string `json:"marginSize,omitempty"`
	ColumnCount *int    `json:"columnCount,omitempty"`
	PageMode    *string `json:"pageMode,omitempty"`

	ShowProgress     *bool `json:"showProgress,omitempty"`
	ShowChapterTitle *bool `json:"showChapterTitle,omitempty"`
	TapToTurn        *bool `json:"tapToTurn,omitempty"`
	AutoBookmark     *bool `json:"autoBookmark,omitempty"`

	TTSEnabled *bool    `json:"ttsEnabled,omitempty"`
	TTSVoice   *string  `json:"ttsVoice,omitempty"`
	TTSRate    *float64 `json:"ttsRate,omitempty"`
	TTSPitch   *float64 `json:"ttsPitch,omitempty"`
	TTSVolume  *float64 `json:"ttsVolume,omitempty"`

	HighContrast          *bool `json:"highContrast,omitempty"`
	ReduceMotion          *bool `json:"reduceMotion,omitempty"`
	DyslexiaFont          *bool `json:"dyslexiaFont,omitempty"`
	ScreenReaderOptimized *bool `json:"screenReaderOptimized,omitempty"`
}

// Apply returns s with every non-nil field of u copied over.
func (u SettingsUpdate) Apply(s ReaderSettings) ReaderSettings {
	setInt(&s.FontSize, u.FontSize)
	setString(&s.FontFamily, u.FontFamily)
	setFloat(&s.LineHeight, u.LineHeight)
	setFloat(&s.LetterSpacing, u.LetterSpacing)
	setFloat(&s.WordSpacing, u.WordSpacing)
	setString(&s.TextAlign, u.TextAlign)

	if u.Theme != nil {
		s.Theme = *u.Theme
	}
	setString(&s.BackgroundColor, u.BackgroundColor)
	setString(&s.TextColor, u.TextColor)

	setString(&s.PageWidth, u.PageWidth)
	setString(&s.MarginSize, u.MarginSize)
	setInt(&s.ColumnCount, u.ColumnCount)
	setString(&s.PageMode, u.PageMode)

	setBool(&s.ShowProgress, u.ShowProgress)
	setBool(&s.ShowChapterTitle, u.ShowChapterTitle)
	setBool(&s.TapToTurn, u.TapToTurn)
	setBool(&s.AutoBookmark, u.AutoBookmark)

	setBool(&s.TTSEnabled, u.TTSEnabled)
	setString(&s.TTSVoice, u.TTSVoice)
	setFloat(&s.TTSRate, u.TTSRate)
	setFloat(&s.TTSPitch, u.TTSPitch)
	setFloat(&s.TTSVolume, u.TTSVolume)

	setBool(&s.HighContrast, u.HighContrast)
	setBool(&s.ReduceMotion, u.ReduceMotion)
	setBool(&s.DyslexiaFont, u.DyslexiaFont)
	setBool(&s.ScreenReaderOptimized, u.ScreenReaderOptimized)
	return s
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
