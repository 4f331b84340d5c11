package dto

// RawNewsItem is one row as delivered by the upstream feed, before
// fingerprinting and deduplication. Each poll returns the feed's current
// full snapshot, so most rows repeat across cycles.
type RawNewsItem struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	PublishDate string `json:"publish_date"`
	PublishTime string `json:"publish_time"`
}
