package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agrisense/backend/internal/domain"
)

// Repository implements domain.UserRepository and domain.PostRepository
// on PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateUser inserts a new user
func (r *Repository) CreateUser(ctx context.Context, user domain.User) (domain.User, error) {
	query := `
		INSERT INTO users (email, name, phone, user_type, hashed_password, crop, location, state, district, village, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, query,
		user.Email, user.Name, user.Phone, user.UserType, user.HashedPassword,
		user.Crop, user.Location, user.State, user.District, user.Village,
		user.IsActive, user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		return domain.User{}, fmt.Errorf("postgres: failed to create user: %w", err)
	}
	return user, nil
}

// GetUserByEmail fetches one user by email
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	query := `
		SELECT id, email, name, phone, user_type, hashed_password, crop, location, state, district, village, is_active, created_at
		FROM users WHERE email = $1
	`
	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

// GetUserByID fetches one user by ID
func (r *Repository) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	query := `
		SELECT id, email, name, phone, user_type, hashed_password, crop, location, state, district, village, is_active, created_at
		FROM users WHERE id = $1
	`
	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *Repository) scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.Phone, &u.UserType, &u.HashedPassword,
		&u.Crop, &u.Location, &u.State, &u.District, &u.Village,
		&u.IsActive, &u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("postgres: failed to scan user: %w", err)
	}
	return u, nil
}

// UpdateUser applies profile changes
func (r *Repository) UpdateUser(ctx context.Context, user domain.User) error {
	query := `
		UPDATE users SET name = $2, phone = $3, crop = $4, location = $5, state = $6, district = $7, village = $8
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		user.ID, user.Name, user.Phone, user.Crop, user.Location,
		user.State, user.District, user.Village,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CreatePost inserts a new community post
func (r *Repository) CreatePost(ctx context.Context, post domain.Post) (domain.Post, error) {
	query := `
		INSERT INTO posts (content, author_id, region, crop, category, image_url, likes_count, comments_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, 0, $7)
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, query,
		post.Content, post.AuthorID, post.Region, post.Crop, post.Category,
		post.ImageURL, post.CreatedAt,
	).Scan(&post.ID)
	if err != nil {
		return domain.Post{}, fmt.Errorf("postgres: failed to create post: %w", err)
	}
	return post, nil
}

// ListPosts returns posts newest-first with author info and the
// viewer's like status.
func (r *Repository) ListPosts(ctx context.Context, filter domain.PostFilter, viewerID int64) ([]domain.Post, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := `
		SELECT p.id, p.content, p.author_id, u.name, u.email, p.region, p.crop, p.category,
		       p.likes_count, p.comments_count, p.image_url, p.created_at,
		       EXISTS (SELECT 1 FROM post_likes pl WHERE pl.post_id = p.id AND pl.user_id = $1)
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE ($2 = '' OR p.crop = $2)
		  AND ($3 = '' OR p.category = $3)
		ORDER BY p.created_at DESC
		OFFSET $4 LIMIT $5
	`
	rows, err := r.pool.Query(ctx, query, viewerID, filter.Crop, filter.Category, filter.Offset, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		var p domain.Post
		var author domain.PostAuthor
		err := rows.Scan(
			&p.ID, &p.Content, &p.AuthorID, &author.Name, &author.Email,
			&p.Region, &p.Crop, &p.Category, &p.LikesCount, &p.CommentsCount,
			&p.ImageURL, &p.CreatedAt, &p.IsLiked,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan post: %w", err)
		}
		author.ID = p.AuthorID
		p.Author = &author
		posts = append(posts, p)
	}
	return posts, nil
}

// GetPost fetches one post
func (r *Repository) GetPost(ctx context.Context, id int64) (domain.Post, error) {
	query := `
		SELECT id, content, author_id, region, crop, category, likes_count, comments_count, image_url, created_at
		FROM posts WHERE id = $1
	`
	var p domain.Post
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Content, &p.AuthorID, &p.Region, &p.Crop, &p.Category,
		&p.LikesCount, &p.CommentsCount, &p.ImageURL, &p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Post{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Post{}, fmt.Errorf("postgres: failed to scan post: %w", err)
	}
	return p, nil
}

// DeletePost removes a post owned by authorID
func (r *Repository) DeletePost(ctx context.Context, id, authorID int64) error {
	post, err := r.GetPost(ctx, id)
	if err != nil {
		return err
	}
	if post.AuthorID != authorID {
		return domain.ErrForbidden
	}

	if _, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("postgres: failed to delete post: %w", err)
	}
	return nil
}

// SetLike adds or removes a like and returns the new count
func (r *Repository) SetLike(ctx context.Context, postID, userID int64, liked bool) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("postgres: failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if liked {
		_, err = tx.Exec(ctx,
			`INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			postID, userID)
	} else {
		_, err = tx.Exec(ctx,
			`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`,
			postID, userID)
	}
	if err != nil {
		return 0, fmt.Errorf("postgres: failed to set like: %w", err)
	}

	var count int
	err = tx.QueryRow(ctx, `
		UPDATE posts SET likes_count = (SELECT COUNT(*) FROM post_likes WHERE post_id = $1)
		WHERE id = $1
		RETURNING likes_count
	`, postID).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("postgres: failed to update like count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("postgres: failed to commit like: %w", err)
	}
	return count, nil
}

// CreateComment inserts a comment and bumps the post counter
func (r *Repository) CreateComment(ctx context.Context, comment domain.Comment) (domain.Comment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("postgres: failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO comments (post_id, author_id, content, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, comment.PostID, comment.AuthorID, comment.Content, comment.CreatedAt).Scan(&comment.ID)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("postgres: failed to create comment: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE posts SET comments_count = comments_count + 1 WHERE id = $1`,
		comment.PostID)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("postgres: failed to bump comment count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Comment{}, fmt.Errorf("postgres: failed to commit comment: %w", err)
	}
	return comment, nil
}

// ListComments returns a post's comments oldest first
func (r *Repository) ListComments(ctx context.Context, postID int64) ([]domain.Comment, error) {
	query := `
		SELECT c.id, c.post_id, c.author_id, u.name, c.content, c.created_at
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id = $1
		ORDER BY c.created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query comments: %w", err)
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.AuthorName, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, nil
}

// Health checks database connectivity
func (r *Repository) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}
