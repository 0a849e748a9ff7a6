package models

// ChannelProfile represents the descriptive and aggregate statistics of a YouTube channel
type ChannelProfile struct {
	ID                string `json:"id"`
	Name              string `json:"channelName"`
	Description       string `json:"description"`
	Subscribers       uint64 `json:"subscribers"`
	TotalViews        uint64 `json:"totalViews"`
	TotalVideos       uint64 `json:"totalVideos"`
	UploadsPlaylistID string `json:"playlistId"`
}

// ProfileField is a labelled profile value as it appears in exported reports.
type ProfileField struct {
	Key   string
	Value any
}

// Fields returns the profile in export order. The uploads playlist ID is
// last so callers that hide it can stop one short.
func (p *ChannelProfile) Fields() []ProfileField {
	return []ProfileField{
		{Key: "Channel_Name", Value: p.Name},
		{Key: "Description", Value: p.Description},
		{Key: "Subscribers", Value: p.Subscribers},
		{Key: "Total_Views", Value: p.TotalViews},
		{Key: "Total_Videos", Value: p.TotalVideos},
		{Key: "Playlist_ID", Value: p.UploadsPlaylistID},
	}
}
