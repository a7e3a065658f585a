package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/artex"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ artex.ArticleService = (*ArticleService)(nil)

// ArticleService implements artex.ArticleService using SQLite.
type ArticleService struct {
	db *DB
}

// NewArticleService creates a new ArticleService.
func NewArticleService(db *DB) *ArticleService {
	return &ArticleService{db: db}
}

// CreateArticle stores a new article. A missing ID or fetch time is
// filled in; the caller's content hash is kept as-is.
func (s *ArticleService) CreateArticle(ctx context.Context, article *artex.Article) error {
	if err := article.Validate(); err != nil {
		return err
	}

	if article.ID == "" {
		article.ID = uuid.New().String()
	}
	if article.FetchedAt.IsZero() {
		article.FetchedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO articles (id, site, source_url, title, content_html, content_hash, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, article.ID, article.Site, article.SourceURL, article.Title, article.ContentHTML,
		article.ContentHash, article.FetchedAt.Format(time.RFC3339))

	return err
}

// FindArticleByID retrieves an article by ID.
func (s *ArticleService) FindArticleByID(ctx context.Context, id string) (*artex.Article, error) {
	var article artex.Article
	var fetchedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, site, source_url, title, content_html, content_hash, fetched_at
		FROM articles
		WHERE id = ?
	`, id).Scan(&article.ID, &article.Site, &article.SourceURL, &article.Title,
		&article.ContentHTML, &article.ContentHash, &fetchedAt)

	if err == sql.ErrNoRows {
		return nil, artex.Errorf(artex.ENOTFOUND, "article not found")
	}
	if err != nil {
		return nil, err
	}

	article.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at")
	if err != nil {
		return nil, err
	}

	return &article, nil
}

// FindArticles retrieves articles matching the filter, newest first.
func (s *ArticleService) FindArticles(ctx context.Context, filter artex.ArticleFilter) ([]*artex.Article, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, site, source_url, title, content_html, content_hash, fetched_at FROM articles WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Site != nil {
		query.WriteString(" AND site = ?")
		args = append(args, *filter.Site)
	}
	if filter.SourceURL != nil {
		query.WriteString(" AND source_url = ?")
		args = append(args, *filter.SourceURL)
	}

	query.WriteString(" ORDER BY fetched_at DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []*artex.Article
	for rows.Next() {
		var article artex.Article
		var fetchedAt string

		if err := rows.Scan(&article.ID, &article.Site, &article.SourceURL, &article.Title,
			&article.ContentHTML, &article.ContentHash, &fetchedAt); err != nil {
			return nil, err
		}

		article.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at")
		if err != nil {
			return nil, err
		}

		articles = append(articles, &article)
	}

	return articles, rows.Err()
}

// DeleteArticle permanently removes an article.
func (s *ArticleService) DeleteArticle(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM articles WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return artex.Errorf(artex.ENOTFOUND, "article not found")
	}

	return nil
}

// parseRFC3339 parses an RFC3339 formatted timestamp string.
func parseRFC3339(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}

// appendPagination appends LIMIT and OFFSET clauses when set.
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	if limit > 0 {
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	}
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}
