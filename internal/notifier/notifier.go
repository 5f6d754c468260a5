package notifier

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxPostLength is the Twitter status limit in characters
const maxPostLength = 280

// Announcement is a data point worth announcing
type Announcement struct {
	Rule string
	Date string
	Text string
	URL  string
}

// Notifier defines the interface for posting announcements
type Notifier interface {
	// Notify posts one message per announcement
	Notify(announcements []Announcement) error
}

// formatPost formats an announcement as a status update
func formatPost(a Announcement) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📰 %s, %s\n\n", a.Rule, a.Date)
	b.WriteString(a.Text)
	if a.URL != "" {
		fmt.Fprintf(&b, "\n\n🔗 %s", a.URL)
	}

	post := b.String()
	if utf8.RuneCountInString(post) > maxPostLength {
		runes := []rune(post)
		post = string(runes[:maxPostLength-3]) + "..."
	}
	return post
}
