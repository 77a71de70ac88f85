package domain

// Folder groups notes for one user. Folders may nest through ParentID,
// but parent references are not validated; a dangling parent just renders
// the folder at the top level.
type Folder struct {
	Record
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	Label    string `json:"label,omitempty"` // short glyph shown next to the name, at most two characters
	ParentID string `json:"parent_id,omitempty"`
}
