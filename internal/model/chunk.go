package model

// ChunkMeta is stored alongside every indexed chunk.
type ChunkMeta struct {
	Source     string `json:"source"`
	DocID      string `json:"doc_id"`
	SessionID  string `json:"session_id"`
	Position   int    `json:"chunk"`
	Updated    bool   `json:"updated,omitempty"`
	UpdateTime int64  `json:"update_time,omitempty"`
}

// ChunkMatch is a retrieval hit. Distance is the index's native similarity
// distance, smaller is closer.
type ChunkMatch struct {
	Text     string    `json:"text"`
	Distance float64   `json:"distance"`
	Meta     ChunkMeta `json:"metadata"`
}
