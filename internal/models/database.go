package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	sqlitecloud "github.com/sqlitecloud/sqlitecloud-go"

	"github.com/yt-insights/ytreport/internal/logging"
)

// ReportSnapshot is an archived summary of a generated report
type ReportSnapshot struct {
	ChannelID   string          `json:"channelId"`
	ChannelName string          `json:"channelName"`
	Subscribers uint64          `json:"subscribers"`
	TotalViews  uint64          `json:"totalViews"`
	VideoCount  int             `json:"videoCount"`
	Statistics  json.RawMessage `json:"statistics"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// NewReportSnapshot flattens a report into an archive row.
func NewReportSnapshot(r *Report) (*ReportSnapshot, error) {
	if r == nil || r.Profile == nil {
		return nil, fmt.Errorf("report has no channel profile")
	}

	rows := []VideoStatistics{}
	if r.Statistics != nil && r.Statistics.Rows != nil {
		rows = r.Statistics.Rows
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal statistics: %w", err)
	}

	return &ReportSnapshot{
		ChannelID:   r.ChannelID,
		ChannelName: r.Profile.Name,
		Subscribers: r.Profile.Subscribers,
		TotalViews:  r.Profile.TotalViews,
		VideoCount:  len(rows),
		Statistics:  data,
		CreatedAt:   r.GeneratedAt.UTC(),
	}, nil
}

// Database represents the report archive connection
type Database struct {
	db *sqlitecloud.SQCloud
}

// NewDatabase connects to SQLite Cloud and creates the archive table
func NewDatabase(dsn string) (*Database, error) {
	logging.Logger.Info().Str("dsn", maskConnectionString(dsn)).Msg("connecting to report archive")

	db, err := sqlitecloud.Connect(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite Cloud: %w", err)
	}

	database := &Database{db: db}
	if err := database.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return database, nil
}

// maskConnectionString hides the API key in logs for security
func maskConnectionString(connStr string) string {
	if strings.Contains(connStr, "apikey=") {
		parts := strings.Split(connStr, "apikey=")
		if len(parts) > 1 {
			return parts[0] + "apikey=***"
		}
	}
	return connStr
}

func (d *Database) createTables() error {
	sql := `CREATE TABLE IF NOT EXISTS report_snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		channel_id TEXT NOT NULL,
		channel_name TEXT NOT NULL,
		subscribers INTEGER NOT NULL DEFAULT 0,
		total_views INTEGER NOT NULL DEFAULT 0,
		video_count INTEGER NOT NULL DEFAULT 0,
		statistics TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`
	if err := d.db.Execute(sql); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// SaveReport appends a snapshot of the report to the archive
func (d *Database) SaveReport(r *Report) error {
	snap, err := NewReportSnapshot(r)
	if err != nil {
		return err
	}

	sql := `INSERT INTO report_snapshots
		(channel_id, channel_name, subscribers, total_views, video_count, statistics, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	// Counts are stored as decimal text; SQLite's INTEGER affinity converts them.
	args := []interface{}{
		snap.ChannelID,
		snap.ChannelName,
		strconv.FormatUint(snap.Subscribers, 10),
		strconv.FormatUint(snap.TotalViews, 10),
		snap.VideoCount,
		string(snap.Statistics),
		snap.CreatedAt.Format(time.RFC3339),
	}
	if err := d.db.ExecuteArray(sql, args); err != nil {
		return fmt.Errorf("failed to store report snapshot: %w", err)
	}

	logging.Logger.Debug().Str("channel_id", snap.ChannelID).Msg("stored report snapshot")
	return nil
}

// RecentReports lists the newest snapshots first
func (d *Database) RecentReports(limit int) ([]ReportSnapshot, error) {
	if limit <= 0 {
		limit = 10
	}

	sql := `SELECT channel_id, channel_name, subscribers, total_views, video_count, statistics, created_at
		FROM report_snapshots
		ORDER BY id DESC LIMIT ?`

	result, err := d.db.SelectArray(sql, []interface{}{limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list report snapshots: %w", err)
	}

	snapshots := make([]ReportSnapshot, 0, result.GetNumberOfRows())
	for row := uint64(0); row < result.GetNumberOfRows(); row++ {
		var cols [7]string
		for col := range cols {
			v, err := result.GetStringValue(row, uint64(col))
			if err != nil {
				return nil, fmt.Errorf("failed to read snapshot row %d: %w", row, err)
			}
			cols[col] = v
		}

		snap, err := parseSnapshotRow(cols)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, *snap)
	}
	return snapshots, nil
}

func parseSnapshotRow(cols [7]string) (*ReportSnapshot, error) {
	subscribers, err := strconv.ParseUint(strings.TrimSpace(cols[2]), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse subscribers: %w", err)
	}
	views, err := strconv.ParseUint(strings.TrimSpace(cols[3]), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse total_views: %w", err)
	}
	count, err := strconv.Atoi(strings.TrimSpace(cols[4]))
	if err != nil {
		return nil, fmt.Errorf("failed to parse video_count: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339, strings.TrimSpace(cols[6]))
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return &ReportSnapshot{
		ChannelID:   cols[0],
		ChannelName: cols[1],
		Subscribers: subscribers,
		TotalViews:  views,
		VideoCount:  count,
		Statistics:  json.RawMessage(cols[5]),
		CreatedAt:   createdAt,
	}, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}
