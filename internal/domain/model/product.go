package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// productsテーブルに保存する正規化済みの商品。
// ProductIDはWildberries側のIDで、upsertのキーになる。
type Product struct {
	ID            uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID     string              `gorm:"type:varchar(50);uniqueIndex;not null" json:"product_id"`
	ProductName   string              `gorm:"type:varchar(255);not null" json:"product_name"`
	Price         decimal.Decimal     `gorm:"type:numeric(12,2);not null" json:"price"`
	DiscountPrice decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"discount_price"`
	Rating        float64             `gorm:"not null;default:0" json:"rating"`
	ReviewsCount  int                 `gorm:"not null;default:0" json:"reviews_count"`
	ProductURL    string              `gorm:"type:varchar(500);not null" json:"product_url"`
	Category      string              `gorm:"type:varchar(100);not null;default:''" json:"category"`
	SearchQuery   string              `gorm:"type:varchar(200);not null;default:''" json:"search_query"`
	CreatedAt     time.Time           `gorm:"not null" json:"created_at"`
	UpdatedAt     *time.Time          `gorm:"autoUpdateTime:false" json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// 検索結果1件を正規化したもの（内部IDはまだ無い）。
type ParsedProduct struct {
	ProductID     string
	ProductName   string
	Price         decimal.Decimal
	DiscountPrice decimal.NullDecimal
	Rating        float64
	ReviewsCount  int
	ProductURL    string
	Category      string
	SearchQuery   string
}
