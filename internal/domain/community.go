package domain

import "time"

// User is a registered farmer/advisor account
type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone,omitempty"`
	UserType       string    `json:"user_type,omitempty"`
	HashedPassword string    `json:"-"`
	Crop           string    `json:"crop,omitempty"`
	Location       string    `json:"location,omitempty"`
	State          string    `json:"state,omitempty"`
	District       string    `json:"district,omitempty"`
	Village        string    `json:"village,omitempty"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

// PostAuthor is the embedded author view on a post
type PostAuthor struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Post is a community feed entry
type Post struct {
	ID            int64       `json:"id"`
	Content       string      `json:"content"`
	AuthorID      int64       `json:"author_id"`
	Author        *PostAuthor `json:"author,omitempty"`
	Region        string      `json:"region,omitempty"`
	Crop          string      `json:"crop,omitempty"`
	Category      string      `json:"category,omitempty"`
	LikesCount    int         `json:"likes_count"`
	CommentsCount int         `json:"comments_count"`
	ImageURL      string      `json:"image_url,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	IsLiked       bool        `json:"is_liked"`
}

// Comment is a reply on a post
type Comment struct {
	ID         int64     `json:"id"`
	PostID     int64     `json:"post_id"`
	AuthorID   int64     `json:"author_id"`
	AuthorName string    `json:"author_name,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// PostFilter narrows post listings
type PostFilter struct {
	Crop     string
	Category string
	Offset   int
	Limit    int
}
