package models

import "time"

// Report is the outcome of one channel report session
type Report struct {
	ChannelID   string           `json:"channelId"`
	Profile     *ChannelProfile  `json:"profile"`
	Uploads     []UploadItem     `json:"uploads"`
	Statistics  *StatisticsTable `json:"statistics"`
	Warnings    []string         `json:"warnings,omitempty"`
	GeneratedAt time.Time        `json:"generatedAt"`
}

// VideoIDs returns the IDs of the report's uploads in playlist order.
func (r *Report) VideoIDs() []string {
	ids := make([]string, 0, len(r.Uploads))
	for _, u := range r.Uploads {
		ids = append(ids, u.VideoID)
	}
	return ids
}

// HasStatistics reports whether there is anything to chart or export.
func (r *Report) HasStatistics() bool {
	return r != nil && !r.Statistics.Empty()
}
