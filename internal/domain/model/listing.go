package model

import "encoding/json"

// 検索APIのdata.productsの1件。
// 価格はコペイカ単位（/100でルーブル）。欠けている項目はゼロ値になる。
type RawListing struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Brand        string  `json:"brand"`
	PriceU       int64   `json:"priceU"`
	SalePriceU   int64   `json:"salePriceU"`
	Rating       float64 `json:"rating"`
	ReviewRating float64 `json:"reviewRating"`
	Feedbacks    int     `json:"feedbacks"`
}

// 検索APIのレスポンス全体。
// productsは1件ずつデコードする（型の合わない1件で全体を落とさない）。
type SearchResponse struct {
	Data struct {
		Products []json.RawMessage `json:"products"`
	} `json:"data"`
}
