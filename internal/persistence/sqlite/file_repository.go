package sqlite

import (
	"context"

	"github.com/example/workplace-insights/internal/persistence"
)

const (
	fileColumns     = `id, name, path, type, creator_id, last_modified`
	activityColumns = `id, file_id, user_id, action, timestamp`
)

// FileRepository implements persistence.FileRepository using SQLite
type FileRepository struct {
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewFileRepository creates a new SQLite file repository
func NewFileRepository(pool *ConnectionPool) *FileRepository {
	return &FileRepository{
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateFile inserts a file
func (r *FileRepository) CreateFile(ctx context.Context, file persistence.File) error {
	if file.ID == "" || file.CreatorID == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.helper.Exec(ctx, `INSERT INTO files (`+fileColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		file.ID, file.Name, file.Path, file.Type, file.CreatorID, formatTime(file.LastModified))
	if err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

// GetFile retrieves a file by ID
func (r *FileRepository) GetFile(ctx context.Context, id string) (persistence.File, error) {
	file, err := scanFile(r.helper.QueryRow(ctx, `SELECT `+fileColumns+` FROM files WHERE id = ?`, id))
	if err != nil {
		return persistence.File{}, r.mapper.MapError(err)
	}
	return file, nil
}

// ListFiles returns up to limit files, least recently modified first
func (r *FileRepository) ListFiles(ctx context.Context, limit int) ([]persistence.File, error) {
	rows, err := r.helper.Query(ctx,
		`SELECT `+fileColumns+` FROM files ORDER BY last_modified ASC, id ASC LIMIT ?`, sqlLimit(limit))
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	files, err := scanAll(rows, scanFile)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	return files, nil
}

// CreateFileActivity records one access to a file
func (r *FileRepository) CreateFileActivity(ctx context.Context, activity persistence.FileActivity) error {
	if activity.ID == "" || activity.FileID == "" || activity.UserID == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.helper.Exec(ctx, `INSERT INTO file_activities (`+activityColumns+`) VALUES (?, ?, ?, ?, ?)`,
		activity.ID, activity.FileID, activity.UserID, activity.Action, formatTime(activity.Timestamp))
	if err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

// ListFileActivities returns activities matching filter, newest first
func (r *FileRepository) ListFileActivities(ctx context.Context, filter persistence.FileActivityFilter) ([]persistence.FileActivity, error) {
	var cond conditions
	if filter.UserID != "" {
		cond.add("user_id = ?", filter.UserID)
	}
	if filter.FileID != "" {
		cond.add("file_id = ?", filter.FileID)
	}
	if filter.Since != nil {
		cond.add("timestamp >= ?", formatTime(*filter.Since))
	}
	if len(filter.Actions) > 0 {
		args := make([]any, len(filter.Actions))
		for i, action := range filter.Actions {
			args[i] = action
		}
		cond.add("action IN ("+placeholders(len(args))+")", args...)
	}

	query := `SELECT ` + activityColumns + ` FROM file_activities` + cond.where() + ` ORDER BY timestamp DESC, id DESC LIMIT ?`
	rows, err := r.helper.Query(ctx, query, append(cond.args, sqlLimit(filter.Limit))...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	activities := make([]persistence.FileActivity, 0)
	for rows.Next() {
		var activity persistence.FileActivity
		var timestamp string
		if err := rows.Scan(&activity.ID, &activity.FileID, &activity.UserID, &activity.Action, &timestamp); err != nil {
			return nil, r.mapper.MapError(err)
		}
		if activity.Timestamp, err = parseTime("timestamp", timestamp); err != nil {
			return nil, err
		}
		activities = append(activities, activity)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return activities, nil
}

func scanFile(row rowScanner) (persistence.File, error) {
	var file persistence.File
	var lastModified string
	if err := row.Scan(&file.ID, &file.Name, &file.Path, &file.Type, &file.CreatorID, &lastModified); err != nil {
		return persistence.File{}, err
	}

	var err error
	if file.LastModified, err = parseTime("last_modified", lastModified); err != nil {
		return persistence.File{}, err
	}
	return file, nil
}
