package db

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Activity types written to the activity_log table.
const (
	ActivityExtract   = "extract"
	ActivityTranslate = "translate"
	ActivityTTS       = "tts"
	ActivitySTT       = "stt"
)

// Activity is one logged operation in the activity_log table.
type Activity struct {
	ID         int64     `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Type       string    `json:"type"`
	SourceLang string    `json:"source_lang,omitempty"`
	TargetLang string    `json:"target_lang,omitempty"`
	CharCount  int       `json:"char_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// UserStats aggregates a user's activity for the stats endpoints.
type UserStats struct {
	TotalOperations int            `json:"total_operations"`
	TotalChars      int64          `json:"total_chars"`
	ByType          map[string]int `json:"by_type"`
	LastActivity    *time.Time     `json:"last_activity,omitempty"`
}

// UserStatsRow is one row of the admin all-users report.
type UserStatsRow struct {
	Username        string     `json:"username"`
	TotalOperations int        `json:"total_operations"`
	TotalChars      int64      `json:"total_chars"`
	LastActivity    *time.Time `json:"last_activity,omitempty"`
}

// LogActivity appends one operation to the activity log.
func LogActivity(ctx context.Context, a *Activity) error {
	query := `
		INSERT INTO activity_log (user_id, activity_type, source_lang, target_lang, char_count)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5)
		RETURNING id, created_at
	`

	return Pool.QueryRow(ctx, query,
		a.UserID, a.Type, a.SourceLang, a.TargetLang, a.CharCount,
	).Scan(&a.ID, &a.CreatedAt)
}

// GetUserStats returns aggregate usage for one user.
func GetUserStats(ctx context.Context, userID uuid.UUID) (*UserStats, error) {
	stats := &UserStats{ByType: map[string]int{}}

	query := `
		SELECT COUNT(*), COALESCE(SUM(char_count), 0), MAX(created_at)
		FROM activity_log
		WHERE user_id = $1
	`
	err := Pool.QueryRow(ctx, query, userID).Scan(
		&stats.TotalOperations, &stats.TotalChars, &stats.LastActivity,
	)
	if err != nil {
		return nil, err
	}

	rows, err := Pool.Query(ctx, `
		SELECT activity_type, COUNT(*)
		FROM activity_log
		WHERE user_id = $1
		GROUP BY activity_type
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var activityType string
		var count int
		if err := rows.Scan(&activityType, &count); err != nil {
			return nil, err
		}
		stats.ByType[activityType] = count
	}

	return stats, rows.Err()
}

// GetAllUserStats returns per-user usage across all accounts (admin only).
func GetAllUserStats(ctx context.Context) ([]UserStatsRow, error) {
	query := `
		SELECT u.username,
		       COUNT(a.id),
		       COALESCE(SUM(a.char_count), 0),
		       MAX(a.created_at)
		FROM users u
		LEFT JOIN activity_log a ON a.user_id = u.id
		GROUP BY u.username
		ORDER BY COUNT(a.id) DESC
	`

	rows, err := Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []UserStatsRow
	for rows.Next() {
		var row UserStatsRow
		if err := rows.Scan(&row.Username, &row.TotalOperations, &row.TotalChars, &row.LastActivity); err != nil {
			return nil, err
		}
		out = append(out, row)
	}

	return out, rows.Err()
}
