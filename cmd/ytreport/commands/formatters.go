package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/yt-insights/ytreport/internal/models"
	"github.com/yt-insights/ytreport/internal/report"
)

// Formatter renders a report for the terminal
type Formatter interface {
	Format(r *models.Report) (string, error)
}

// NewFormatter returns the formatter for an output format name
func NewFormatter(format string) (Formatter, error) {
	switch format {
	case "text", "":
		return &TextFormatter{}, nil
	case "json":
		return &JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// TextFormatter formats a report as plain text
type TextFormatter struct{}

// Format formats a report as plain text
func (f *TextFormatter) Format(r *models.Report) (string, error) {
	var output strings.Builder
	p := r.Profile

	output.WriteString(fmt.Sprintf("Channel: %s (%s)\n", p.Name, r.ChannelID))
	if p.Description != "" {
		output.WriteString(p.Description)
		output.WriteString("\n")
	}
	output.WriteString(fmt.Sprintf("Subscribers:  %s\n", report.Thousands(p.Subscribers)))
	output.WriteString(fmt.Sprintf("Total Views:  %s\n", report.Thousands(p.TotalViews)))
	output.WriteString(fmt.Sprintf("Total Videos: %s\n", report.Thousands(p.TotalVideos)))

	if len(r.Uploads) > 0 {
		output.WriteString(fmt.Sprintf("\nLatest Videos (%d)\n", len(r.Uploads)))
		output.WriteString("==================\n")
		for i, u := range r.Uploads {
			output.WriteString(fmt.Sprintf("[%d] %s\n    %s\n", i+1, u.Title, u.URL))
		}
	}

	if r.HasStatistics() {
		output.WriteString("\nVideo Performance\n")
		output.WriteString("=================\n")
		for _, row := range r.Statistics.Rows {
			output.WriteString(fmt.Sprintf("%s\n    Views: %s | Likes: %s | Comments: %s\n",
				row.Title, report.Thousands(row.Views), report.Thousands(row.Likes), report.Thousands(row.Comments)))
		}

		s := models.Summarize(r.Statistics.Rows)
		output.WriteString(fmt.Sprintf("\nAverage views: %s  Like rate: %.2f%%  Comment rate: %.2f%%\n",
			humanize.Commaf(s.AverageViews), 100*s.LikeToViewRatio, 100*s.CommentToViewRatio))
	}

	for _, w := range r.Warnings {
		output.WriteString(fmt.Sprintf("Warning: %s\n", w))
	}
	return output.String(), nil
}

// JSONFormatter formats a report as JSON
type JSONFormatter struct{}

// Format formats a report as indented JSON with its summary and chart series
func (f *JSONFormatter) Format(r *models.Report) (string, error) {
	type Output struct {
		*models.Report
		Summary models.ReportSummary `json:"summary"`
		Charts  []report.BarChart    `json:"charts"`
	}

	var rows []models.VideoStatistics
	if r.Statistics != nil {
		rows = r.Statistics.Rows
	}
	charts := report.BuildCharts(r.Statistics)
	if charts == nil {
		charts = []report.BarChart{}
	}

	data, err := json.MarshalIndent(Output{Report: r, Summary: models.Summarize(rows), Charts: charts}, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}

// FormatHistory formats archived snapshots as a plain text list
func FormatHistory(snapshots []models.ReportSnapshot) string {
	if len(snapshots) == 0 {
		return "No archived reports.\n"
	}

	var output strings.Builder
	for _, s := range snapshots {
		output.WriteString(fmt.Sprintf("%s (%s)  subscribers %s  views %s  videos %d  %s\n",
			s.ChannelName, s.ChannelID,
			humanize.Comma(int64(s.Subscribers)), humanize.Comma(int64(s.TotalViews)),
			s.VideoCount, humanize.Time(s.CreatedAt)))
	}
	return output.String()
}
