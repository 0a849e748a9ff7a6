package models

// WatchURLPrefix is prepended verbatim to a video ID to form its watch URL.
const WatchURLPrefix = "https://www.youtube.com/watch?v="

// UploadItem represents one entry of a channel's uploads playlist
type UploadItem struct {
	Title   string `json:"Video_Title"`
	VideoID string `json:"Video_ID"`
	URL     string `json:"Video_URL"`
}

// WatchURL derives the canonical watch URL for a video ID. The ID is not escaped.
func WatchURL(videoID string) string {
	return WatchURLPrefix + videoID
}

// VideoStatistics represents per-video engagement counts
type VideoStatistics struct {
	VideoID  string `json:"-"`
	Title    string `json:"Video_Title"`
	Views    uint64 `json:"Views"`
	Likes    uint64 `json:"Likes"`
	Comments uint64 `json:"Comments"`
}

// ChunkRange identifies a contiguous slice [Start, End) of the requested video IDs
// whose statistics call failed.
type ChunkRange struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Error string `json:"error"`
}

// StatisticsTable is the ordered result of a statistics batch
type StatisticsTable struct {
	Rows         []VideoStatistics `json:"rows"`
	FailedChunks []ChunkRange      `json:"failedChunks,omitempty"`
}

// Empty reports whether the table has no rows.
func (t *StatisticsTable) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// Partial reports whether some chunks failed while others produced rows.
func (t *StatisticsTable) Partial() bool {
	return t != nil && len(t.FailedChunks) > 0 && len(t.Rows) > 0
}
