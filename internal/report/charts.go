package report

import "github.com/yt-insights/ytreport/internal/models"

// Series is one group of bars in a chart
type Series struct {
	Name   string   `json:"name"`
	Values []uint64 `json:"values"`
}

// BarChart is a grouped bar chart keyed by video title
type BarChart struct {
	Title      string   `json:"title"`
	BarMode    string   `json:"barMode"`
	Categories []string `json:"categories"`
	Series     []Series `json:"series"`
}

// BuildCharts returns the "Views vs Likes" and "Views vs Comments" charts,
// or nil when the table is empty.
func BuildCharts(table *models.StatisticsTable) []BarChart {
	if table.Empty() {
		return nil
	}

	n := len(table.Rows)
	titles := make([]string, n)
	views := make([]uint64, n)
	likes := make([]uint64, n)
	comments := make([]uint64, n)
	for i, row := range table.Rows {
		titles[i] = row.Title
		views[i] = row.Views
		likes[i] = row.Likes
		comments[i] = row.Comments
	}

	return []BarChart{
		{
			Title:      "Views vs Likes",
			BarMode:    "group",
			Categories: titles,
			Series:     []Series{{Name: "Views", Values: views}, {Name: "Likes", Values: likes}},
		},
		{
			Title:      "Views vs Comments",
			BarMode:    "group",
			Categories: titles,
			Series:     []Series{{Name: "Views", Values: views}, {Name: "Comments", Values: comments}},
		},
	}
}
