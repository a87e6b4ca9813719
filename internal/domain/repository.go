package domain

import "context"

// UserRepository defines persistence for user accounts.
// Domain owns the interface; storage implementations live elsewhere.
type UserRepository interface {
	// CreateUser inserts a new user and returns it with its ID set
	CreateUser(ctx context.Context, user User) (User, error)

	// GetUserByEmail returns the user for an email, or ErrNotFound
	GetUserByEmail(ctx context.Context, email string) (User, error)

	// GetUserByID returns the user for an ID, or ErrNotFound
	GetUserByID(ctx context.Context, id int64) (User, error)

	// UpdateUser applies profile changes
	UpdateUser(ctx context.Context, user User) error
}

// PostRepository defines persistence for community posts, likes and
// comments.
type PostRepository interface {
	// CreatePost inserts a post and returns it with its ID set
	CreatePost(ctx context.Context, post Post) (Post, error)

	// ListPosts returns posts newest-first, honoring the filter.
	// viewerID marks IsLiked on each returned post.
	ListPosts(ctx context.Context, filter PostFilter, viewerID int64) ([]Post, error)

	// GetPost returns one post, or ErrNotFound
	GetPost(ctx context.Context, id int64) (Post, error)

	// DeletePost removes a post owned by authorID
	DeletePost(ctx context.Context, id, authorID int64) error

	// SetLike adds or removes a like, adjusting the counter.
	// Returns the new like count.
	SetLike(ctx context.Context, postID, userID int64, liked bool) (int, error)

	// CreateComment inserts a comment, incrementing the post counter
	CreateComment(ctx context.Context, comment Comment) (Comment, error)

	// ListComments returns comments for a post, oldest first
	ListComments(ctx context.Context, postID int64) ([]Comment, error)

	// Health checks storage connectivity
	Health(ctx context.Context) error
}
