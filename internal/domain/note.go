package domain

import "strings"

// Note is a single note owned by one user. Content is plain markdown text;
// clients that encrypt store the ciphertext in EncryptedContent and leave
// Content empty.
type Note struct {
	Record
	UserID           string   `json:"user_id"`
	FolderID         string   `json:"folder_id,omitempty"` // empty means "no folder"; never validated against existing folders
	Title            string   `json:"title"`
	Content          string   `json:"content"`
	EncryptedContent string   `json:"encrypted_content,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	IsPinned         bool     `json:"is_pinned"`
	WordCount        int      `json:"word_count"`
}

// SetContent replaces the note's content and recomputes the word count.
// All content writes must go through here so the count never drifts.
func (n *Note) SetContent(content string) {
	n.Content = content
	n.WordCount = CountWords(content)
}

// HasTag reports whether the note carries the given tag (exact match).
func (n *Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// CountWords counts whitespace-delimited non-empty tokens.
func CountWords(s string) int {
	return len(strings.Fields(s))
}
