package model

import "time"

const (
	FileTypePDF  = "pdf"
	FileTypeText = "text"
)

type Document struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Content    string    `json:"content"`
	UploadedAt time.Time `json:"uploaded_at"`
	Size       int       `json:"size"`
	FileType   string    `json:"file_type"`
	SessionID  string    `json:"session_id"`
}

// DocumentSummary is the listing view of a document: full content is
// replaced by a 100-character preview.
type DocumentSummary struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	UploadedAt time.Time `json:"uploaded_at"`
	Size       int       `json:"size"`
	SessionID  string    `json:"session_id"`
	Preview    string    `json:"preview"`
}

const previewChars = 100

func (d *Document) Summary() DocumentSummary {
	return DocumentSummary{
		ID:         d.ID,
		Filename:   d.Filename,
		UploadedAt: d.UploadedAt,
		Size:       d.Size,
		SessionID:  d.SessionID,
		Preview:    Preview(d.Content),
	}
}

// Preview returns the first 100 characters of content, with an ellipsis
// marker when truncated.
func Preview(content string) string {
	if len(content) <= previewChars {
		return content
	}
	return content[:previewChars] + "..."
}
