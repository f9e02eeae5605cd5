package repositories

import (
	"context"

	"github.com/deeperweave/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MediaRepository reads and upserts the cached TMDB metadata tables
type MediaRepository interface {
	GetMoviesByIDs(ctx context.Context, ids []int64) ([]models.Movie, error)
	GetSeriesByIDs(ctx context.Context, ids []int64) ([]models.Series, error)
	MovieExists(ctx context.Context, id int64) (bool, error)
	SeriesExists(ctx context.Context, id int64) (bool, error)
	UpsertMovie(ctx context.Context, movie *models.Movie) error
	UpsertSeries(ctx context.Context, series *models.Series) error
}

// PostgresMediaRepository implements MediaRepository for PostgreSQL
type PostgresMediaRepository struct {
	db *gorm.DB
}

// NewPostgresMediaRepository creates a new PostgresMediaRepository
func NewPostgresMediaRepository(db *gorm.DB) *PostgresMediaRepository {
	return &PostgresMediaRepository{db: db}
}

var mediaColumns = []string{"tmdb_id", "title", "poster_url", "backdrop_url", "release_date"}

func (r *PostgresMediaRepository) GetMoviesByIDs(ctx context.Context, ids []int64) ([]models.Movie, error) {
	var movies []models.Movie
	err := r.db.WithContext(ctx).Select(mediaColumns).Where("tmdb_id IN ?", ids).Find(&movies).Error
	return movies, err
}

func (r *PostgresMediaRepository) GetSeriesByIDs(ctx context.Context, ids []int64) ([]models.Series, error) {
	var series []models.Series
	err := r.db.WithContext(ctx).Select(mediaColumns).Where("tmdb_id IN ?", ids).Find(&series).Error
	return series, err
}

func (r *PostgresMediaRepository) MovieExists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Movie{}).Where("tmdb_id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *PostgresMediaRepository) SeriesExists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Series{}).Where("tmdb_id = ?", id).Count(&count).Error
	return count > 0, err
}

var upsertOnTMDBID = clause.OnConflict{
	Columns:   []clause.Column{{Name: "tmdb_id"}},
	DoUpdates: clause.AssignmentColumns([]string{"title", "poster_url", "backdrop_url", "release_date", "overview", "genres", "updated_at"}),
}

func (r *PostgresMediaRepository) UpsertMovie(ctx context.Context, movie *models.Movie) error {
	return r.db.WithContext(ctx).Clauses(upsertOnTMDBID).Create(movie).Error
}

func (r *PostgresMediaRepository) UpsertSeries(ctx context.Context, series *models.Series) error {
	return r.db.WithContext(ctx).Clauses(upsertOnTMDBID).Create(series).Error
}
