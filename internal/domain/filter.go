package domain

// PropertyFilter narrows a property listing. Zero values do not filter.
type PropertyFilter struct {
	Limit     int            `json:"limit"`
	Offset    int            `json:"offset"`
	Location  string         `json:"location"`
	MinPrice  float64        `json:"min_price"`
	MaxPrice  float64        `json:"max_price"`
	Status    PropertyStatus `json:"status"`
	DealClass Recommendation `json:"deal_class"`
	// Sort is one of "price_asc", "price_desc", "score_desc"; anything else orders by id.
	Sort string `json:"sort"`
}
