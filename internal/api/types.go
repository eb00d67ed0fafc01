package api

import "time"

// SubmitRequest is the body of POST /api/articles.
type SubmitRequest struct {
	URL string `json:"url"`
}

// ArticleView is the wire representation of a stored article.
type ArticleView struct {
	ID        int64     `json:"id"`
	VideoID   string    `json:"video_id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Uploader  string    `json:"uploader"`
	HTML      string    `json:"html"`
	Source    string    `json:"source"`
	WordCount int       `json:"word_count"`
	ReadTime  int       `json:"read_time"`
	Duration  int64     `json:"duration_seconds"`
	ViewCount int64     `json:"view_count"`
	CreatedAt time.Time `json:"created_at"`
}

// ArticleListResponse is the body of GET /api/articles.
type ArticleListResponse struct {
	Articles []ArticleView `json:"articles"`
}

// StatusResponse is the body of GET /api/status.
type StatusResponse struct {
	Running    bool     `json:"running"`
	InFlight   []string `json:"in_flight"`
	Articles   int      `json:"articles"`
	DBPath     string   `json:"db_path"`
	StagingDir string   `json:"staging_dir"`
}

// ErrorResponse is the body of any error reply.
type ErrorResponse struct {
	Error    string `json:"error"`
	Category string `json:"category,omitempty"`
}
