package entity

import (
	"crypto/md5"
	"encoding/hex"
	"time"

	"gorm.io/datatypes"
)

// Asset classes the enrichment model is allowed to assign. The set is fixed;
// anything the model invents outside of it is folded into AssetClassOther.
const (
	AssetClassCommodities = "Commodities"
	AssetClassEquities    = "Equities"
	AssetClassBonds       = "Bonds"
	AssetClassRates       = "Rates"
	AssetClassFX          = "FX"
	AssetClassCrypto      = "Crypto"
	AssetClassRealEstate  = "Real Estate"
	AssetClassDerivatives = "Derivatives"
	AssetClassOther       = "Other"
)

// AssetClasses lists every valid asset class, in the order aggregation
// passes iterate over them.
var AssetClasses = []string{
	AssetClassCommodities,
	AssetClassEquities,
	AssetClassBonds,
	AssetClassRates,
	AssetClassFX,
	AssetClassCrypto,
	AssetClassRealEstate,
	AssetClassDerivatives,
	AssetClassOther,
}

// UnknownField is the marker value the enrichment contract uses for fields the
// model could not determine. Pipeline convention: structured columns on an
// enriched row are never database-null, only "Unknown".
const UnknownField = "Unknown"

// NewsItem represents a single ingested news article and, once enriched, its
// structured analysis fields.
type NewsItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Fingerprint string          `gorm:"type:varchar(64);unique;not null" json:"fingerprint"`
	Title       string          `gorm:"not null" json:"title"`
	Content     string          `gorm:"type:text" json:"content"`
	PublishDate *datatypes.Date `json:"publish_date,omitempty"`
	PublishTime *datatypes.Time `json:"publish_time,omitempty"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`

	// Structured fields, populated by enrichment. EnrichedAt non-null means
	// every one of them was attempted; individual values may be "Unknown".
	Source         string         `gorm:"type:varchar(100)" json:"source"`
	Region         string         `gorm:"type:varchar(50)" json:"region"`
	Subject        string         `gorm:"type:varchar(100)" json:"subject"`
	AssetClass     string         `gorm:"type:varchar(50)" json:"asset_class"`
	Sector         string         `gorm:"type:varchar(100)" json:"sector"`
	SentimentScore float64        `json:"sentiment_score"`
	ImpactWeight   int            `json:"impact_weight"`
	TrendSignal    int            `json:"trend_signal"`
	EventType      string         `gorm:"type:varchar(100)" json:"event_type"`
	DriverFactor   string         `gorm:"type:text" json:"driver_factor"`
	KeyMetrics     string         `gorm:"type:text" json:"key_metrics"`
	RawEnrichment  datatypes.JSON `json:"raw_enrichment,omitempty"`
	EnrichedAt     *time.Time     `json:"enriched_at,omitempty"`
}

// TableName specifies the table name for the NewsItem model.
func (NewsItem) TableName() string {
	return "news_items"
}

// Fingerprint computes the content-addressed identity of a news item. It
// covers title and content only: two fetches of the same story at different
// poll cycles must collide regardless of timestamps.
func Fingerprint(title, content string) string {
	sum := md5.Sum([]byte(title + content))
	return hex.EncodeToString(sum[:])
}
