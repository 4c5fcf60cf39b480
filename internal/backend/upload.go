package backend

import "time"

// Upload is a stored receipt file, created before the bill it belongs to
type Upload struct {
	Key         string    `json:"key"`
	Email       string    `json:"email"`
	Filename    string    `json:"filename"` // original filename
	Path        string    `json:"path"`     // path in storage
	ContentType string    `json:"content_type"`
	BillID      string    `json:"bill_id,omitempty"` // set once a bill took over the upload
	CreatedAt   time.Time `json:"created_at"`
}
