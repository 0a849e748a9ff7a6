package models

import "sort"

// ReportSummary represents engagement analytics over a statistics table
type ReportSummary struct {
	TotalVideos        int               `json:"totalVideos"`
	TotalViews         uint64            `json:"totalViews"`
	TotalLikes         uint64            `json:"totalLikes"`
	TotalComments      uint64            `json:"totalComments"`
	AverageViews       float64           `json:"averageViews"`
	LikeToViewRatio    float64           `json:"likeToViewRatio"`
	CommentToViewRatio float64           `json:"commentToViewRatio"`
	TopEngagingVideos  []VideoStatistics `json:"topEngagingVideos"`
}

// EngagementScore calculates the engagement score for a video
// This is a weighted combination of views, likes, and comments
func (v *VideoStatistics) EngagementScore() float64 {
	if v.Views == 0 {
		return 0
	}

	const (
		viewWeight    = 1.0
		likeWeight    = 2.0
		commentWeight = 3.0
	)

	return (viewWeight * float64(v.Views)) +
		(likeWeight * float64(v.Likes)) +
		(commentWeight * float64(v.Comments))
}

// Summarize computes totals, averages and the top five most engaging videos.
// The input rows are not reordered.
func Summarize(rows []VideoStatistics) ReportSummary {
	var s ReportSummary
	s.TotalVideos = len(rows)
	if len(rows) == 0 {
		s.TopEngagingVideos = []VideoStatistics{}
		return s
	}

	for _, r := range rows {
		s.TotalViews += r.Views
		s.TotalLikes += r.Likes
		s.TotalComments += r.Comments
	}

	s.AverageViews = float64(s.TotalViews) / float64(len(rows))
	if s.TotalViews > 0 {
		s.LikeToViewRatio = float64(s.TotalLikes) / float64(s.TotalViews)
		s.CommentToViewRatio = float64(s.TotalComments) / float64(s.TotalViews)
	}

	ranked := make([]VideoStatistics, len(rows))
	copy(ranked, rows)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].EngagementScore() > ranked[j].EngagementScore()
	})
	if len(ranked) > 5 {
		ranked = ranked[:5]
	}
	s.TopEngagingVideos = ranked
	return s
}
