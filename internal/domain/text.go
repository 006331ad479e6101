package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify превращает заголовок в slug: нижний регистр, всё кроме [a-z0-9] -> "-".
func Slugify(text string) string {
	s := nonSlug.ReplaceAllString(strings.ToLower(text), "-")
	return strings.Trim(s, "-")
}

const (
	wordsPerMinute = 200
	excerptLength  = 200
)

// ReadingTime - время чтения в минутах, округлённое вверх.
func ReadingTime(content string) int {
	words := len(strings.Fields(content))
	if words == 0 {
		return 0
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}

// Excerpt возвращает первые 200 символов текста с многоточием.
func Excerpt(content string) string {
	if utf8.RuneCountInString(content) <= excerptLength {
		return content + "..."
	}
	return string([]rune(content)[:excerptLength]) + "..."
}

// ContainsFold - регистронезависимый поиск подстроки.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// ParseTimestamp разбирает границу диапазона дат: RFC 3339 или YYYY-MM-DD (UTC).
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp %q is neither RFC 3339 nor YYYY-MM-DD", s)
	}
	return t, nil
}

// FormatTime приводит время к формату API.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}
