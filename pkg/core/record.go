package core

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// MaxMoodLength is the maximum mood length in characters (runes).
const MaxMoodLength = 200

var (
	ErrNotFound         = errors.New("record not found")
	ErrMissingPhoto     = errors.New("a photo is required")
	ErrUnsupportedPhoto = errors.New("only JPG or PNG photos are supported")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrEmptyMood        = errors.New("mood text is required")
	ErrMoodTooLong      = fmt.Errorf("mood text exceeds %d characters", MaxMoodLength)
	ErrMissingID        = errors.New("record id is required")
)

// Record is a single journal entry. Timestamps are kept as the ISO-8601
// strings they were stored with; use Created to read them as time values.
type Record struct {
	ID        string   `json:"id"`
	Photo     string   `json:"photo"`
	Category  Category `json:"category"`
	Mood      string   `json:"mood"`
	Reaction  string   `json:"animalReply"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`
}

// NewRecord validates the user input and builds a record with a fresh id
// and a random reaction.
func NewRecord(photo string, category Category, mood string, now time.Time) (Record, error) {
	mood, err := validate(photo, category, mood)
	if err != nil {
		return Record{}, err
	}
	stamp := FormatTimestamp(now)
	return Record{
		ID:        uuid.NewString(),
		Photo:     photo,
		Category:  category,
		Mood:      mood,
		Reaction:  RandomReaction(),
		CreatedAt: stamp,
		UpdatedAt: stamp,
	}, nil
}

// Edit returns a copy of r with new content. ID, CreatedAt and Reaction
// never change.
func (r Record) Edit(photo string, category Category, mood string, now time.Time) (Record, error) {
	mood, err := validate(photo, category, mood)
	if err != nil {
		return Record{}, err
	}
	r.Photo = photo
	r.Category = category
	r.Mood = mood
	r.UpdatedAt = FormatTimestamp(now)
	return r, nil
}

// Validate checks a record loaded from storage or a backup.
func (r Record) Validate() error {
	if r.ID == "" {
		return ErrMissingID
	}
	if utf8.RuneCountInString(r.Mood) > MaxMoodLength {
		return fmt.Errorf("record %s: %w", r.ID, ErrMoodTooLong)
	}
	return nil
}

// Created parses CreatedAt in loc. ok is false when the stored timestamp is
// not a valid date.
func (r Record) Created(loc *time.Location) (t time.Time, ok bool) {
	return ParseTimestamp(r.CreatedAt, loc)
}

func validate(photo string, category Category, mood string) (string, error) {
	if err := CheckPhoto(photo); err != nil {
		return "", err
	}
	if !category.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, string(category))
	}
	mood = norm.NFC.String(strings.TrimSpace(mood))
	if mood == "" {
		return "", ErrEmptyMood
	}
	if utf8.RuneCountInString(mood) > MaxMoodLength {
		return "", ErrMoodTooLong
	}
	return mood, nil
}

// FormatTimestamp renders t the way records store it (UTC, millisecond
// precision).
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// ParseTimestamp accepts RFC 3339 timestamps with or without fractional
// seconds, and bare dates (read as UTC midnight). The result is in loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(loc), true
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t.In(loc), true
	}
	return time.Time{}, false
}

// SortNewestFirst orders records by creation time, newest first. Records
// with unreadable timestamps go last, keeping their relative order.
func SortNewestFirst(records []Record) {
	type keyed struct {
		t  time.Time
		ok bool
	}
	keys := make(map[string]keyed, len(records))
	for _, r := range records {
		t, ok := r.Created(time.UTC)
		keys[r.ID] = keyed{t, ok}
	}
	sort.SliceStable(records, func(i, j int) bool {
		a, b := keys[records[i].ID], keys[records[j].ID]
		if a.ok != b.ok {
			return a.ok
		}
		return a.t.After(b.t)
	})
}

var reactions = []string{
	"🐱 喵呜～", "🐱 喵喵喵", "🐶 汪汪！", "🐶 嗷呜～", "🐦 啾啾～",
	"🐦 叽叽叽", "🐸 呱呱～", "🐸 咕咕咕", "🐮 哞哞～", "🐷 哼哼～",
	"🐑 咩咩～", "🦊 嗷呜嗷", "🐯 吼吼～", "🐰 吱吱～", "🐹 啾啾啾",
	"🦆 嘎嘎嘎", "🐧 呜呜～", "🦉 咕咕～", "🐿️ 吱吱吱", "🦋 嗡嗡～",
	"🦁 嗷呜！", "🐨 嗯嗯～", "🐼 嗯呐～", "🦔 嘶嘶～", "🦝 呜呜～",
	"🦌 呦呦～", "🦩 嘎嘎～", "🦜 唧唧～", "🦫 啪啪～", "🐾 哒哒～",
}

// Reactions returns a copy of the reaction pool.
func Reactions() []string {
	return append([]string(nil), reactions...)
}

// RandomReaction picks one entry of the reaction pool.
func RandomReaction() string {
	return reactions[rand.IntN(len(reactions))]
}
