package vault

import (
	"path"
	"strings"
	"time"
)

// JournalLayout places daily journal notes. Patterns use moment-style tokens,
// e.g. folder "YYYY/MM" and file "YYYY-MM-DD_ddd".
type JournalLayout struct {
	RootFolder    string
	FolderPattern string
	FilePattern   string
}

// momentTokens maps moment.js tokens to Go layouts, longest first
var momentTokens = []struct {
	token  string
	layout string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"dddd", "Monday"},
	{"MMM", "Jan"},
	{"ddd", "Mon"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// FormatMoment formats t with a moment-style pattern. Text inside square
// brackets is copied literally; characters that are not tokens pass through.
func FormatMoment(t time.Time, pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); {
		if pattern[i] == '[' {
			if end := strings.IndexByte(pattern[i:], ']'); end > 0 {
				b.WriteString(pattern[i+1 : i+end])
				i += end + 1
				continue
			}
		}

		matched := false
		for _, tok := range momentTokens {
			if strings.HasPrefix(pattern[i:], tok.token) {
				b.WriteString(t.Format(tok.layout))
				i += len(tok.token)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(pattern[i])
			i++
		}
	}
	return b.String()
}

// JournalNoteID returns the note ID of the journal note for date
func (v *FSVault) JournalNoteID(date time.Time) string {
	return v.cfg.Journal.NoteID(date)
}

// NoteID joins the root folder, the formatted folder and the formatted file name
func (l JournalLayout) NoteID(date time.Time) string {
	filePattern := l.FilePattern
	if filePattern == "" {
		filePattern = "YYYY-MM-DD"
	}

	parts := []string{strings.Trim(l.RootFolder, "/")}
	if l.FolderPattern != "" {
		parts = append(parts, strings.Trim(FormatMoment(date, l.FolderPattern), "/"))
	}
	parts = append(parts, FormatMoment(date, filePattern)+".md")
	return strings.TrimPrefix(path.Join(parts...), "/")
}
