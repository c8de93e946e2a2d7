package prompts

import "time"

// Sort orders for list browsing.
const (
	SortNewest  = "newest"
	SortOldest  = "oldest"
	SortPopular = "popular"
)

// Prompt is one entry in the prompt library.
type Prompt struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Content     string    `json:"content"`
	Tags        []string  `json:"tags,omitempty"`
	AuthorID    string    `json:"authorId"`
	AuthorName  string    `json:"authorName,omitempty"`
	Likes       int       `json:"likes"`
	IsPublic    bool      `json:"isPublic"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ListParams filters and paginates a library listing. Zero values mean
// server defaults; Tags are ANDed by the server.
type ListParams struct {
	Page    int
	PerPage int
	Search  string
	Tags    []string
	Sort    string
}

// PromptPage is one page of listing results.
type PromptPage struct {
	Items      []Prompt `json:"items"`
	Page       int      `json:"page"`
	PerPage    int      `json:"perPage"`
	TotalItems int      `json:"totalItems"`
	TotalPages int      `json:"totalPages"`
}

// CreateRequest holds the fields for publishing a new prompt.
type CreateRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Content     string   `json:"content"`
	Tags        []string `json:"tags,omitempty"`
	IsPublic    bool     `json:"isPublic"`
}
