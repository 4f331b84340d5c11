package entity

import "time"

// NewsSummary is one narrative summary for an asset class over a time window.
// Rows are append-only; repeated aggregation runs accumulate history.
type NewsSummary struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AssetClass  string    `gorm:"type:varchar(50);not null" json:"asset_class"`
	SummaryText string    `gorm:"type:text;not null" json:"summary_text"`
	WindowStart time.Time `gorm:"not null" json:"window_start"`
	WindowEnd   time.Time `gorm:"not null" json:"window_end"`
	NewsCount   int       `gorm:"not null" json:"news_count"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the NewsSummary model.
func (NewsSummary) TableName() string {
	return "news_summaries"
}
