package sqlite

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/buildfastwithai/jd-qna/pkg/models"
	"github.com/buildfastwithai/jd-qna/pkg/repository"
)

// RegenerationStats computes the dashboard aggregates: totals, top-N per-skill
// counts, a 30-day daily trend, reason frequencies and satisfaction counts.
func (r *SQLiteRepo) RegenerationStats(ctx context.Context, f repository.AnalyticsFilter) (*models.RegenerationStats, error) {
	topN := f.TopN
	if topN <= 0 {
		topN = 10
	}

	where := ` WHERE 1=1`
	var args []any
	if f.RecordID != nil {
		where += ` AND record_id = ?`
		args = append(args, *f.RecordID)
	}
	if f.SkillID != nil {
		where += ` AND skill_id = ?`
		args = append(args, *f.SkillID)
	}

	stats := &models.RegenerationStats{
		PerSkill: []models.SkillRegenCount{},
		Trend:    []models.DayCount{},
		Reasons:  []models.ReasonCount{},
	}

	row := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM regenerations`+where, args...)
	if err := row.Scan(&stats.TotalRegenerations); err != nil {
		return nil, err
	}

	row = r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM questions`+where, args...)
	if err := row.Scan(&stats.TotalQuestions); err != nil {
		return nil, err
	}

	// per-skill counts, top N
	perSkillArgs := append(append([]any{}, args...), topN)
	rows, err := r.conn.QueryRows(ctx, `SELECT r.skill_id, COALESCE(s.name, ''), COUNT(*) AS cnt FROM regenerations r LEFT JOIN skills s ON s.id = r.skill_id`+whereQualified(where, "r")+` GROUP BY r.skill_id ORDER BY cnt DESC LIMIT ?`, perSkillArgs...)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var c models.SkillRegenCount
		if err := rows.Scan(&c.SkillID, &c.SkillName, &c.Count); err != nil {
			rows.Close()
			return nil, err
		}
		stats.PerSkill = append(stats.PerSkill, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// trailing 30-day daily trend; created is stored as unix milliseconds
	cutoff := time.Now().UTC().AddDate(0, 0, -30).UnixMilli()
	trendArgs := append(append([]any{}, args...), cutoff)
	rows, err = r.conn.QueryRows(ctx, `SELECT date(created/1000, 'unixepoch') AS day, COUNT(*) FROM regenerations`+where+` AND created >= ? GROUP BY day ORDER BY day ASC`, trendArgs...)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var d models.DayCount
		if err := rows.Scan(&d.Day, &d.Count); err != nil {
			rows.Close()
			return nil, err
		}
		stats.Trend = append(stats.Trend, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// reason frequencies
	rows, err = r.conn.QueryRows(ctx, `SELECT reason, COUNT(*) AS cnt FROM regenerations`+where+` AND reason != '' GROUP BY reason ORDER BY cnt DESC`, args...)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var c models.ReasonCount
		if err := rows.Scan(&c.Reason, &c.Count); err != nil {
			rows.Close()
			return nil, err
		}
		stats.Reasons = append(stats.Reasons, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// satisfaction counts over regenerations
	rows, err = r.conn.QueryRows(ctx, `SELECT liked, COUNT(*) FROM regenerations`+where+` GROUP BY liked`, args...)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var liked string
		var cnt int64
		if err := rows.Scan(&liked, &cnt); err != nil {
			rows.Close()
			return nil, err
		}
		switch liked {
		case models.LikedStatusLiked:
			stats.Satisfaction.Liked = cnt
		case models.LikedStatusDisliked:
			stats.Satisfaction.Disliked = cnt
		default:
			stats.Satisfaction.None += cnt
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if stats.TotalQuestions > 0 {
		avg := float64(stats.TotalRegenerations) / float64(stats.TotalQuestions)
		stats.AveragePerQuestion = math.Round(avg*100) / 100
	}

	return stats, nil
}

// whereQualified rewrites the shared filter clause with a table alias for the
// joined per-skill query.
func whereQualified(where, alias string) string {
	out := strings.ReplaceAll(where, " record_id", " "+alias+".record_id")
	return strings.ReplaceAll(out, " skill_id", " "+alias+".skill_id")
}
