package domain

// AIAdvisorRequest is the aggregate metric payload sent to the external
// recommendation service.
type AIAdvisorRequest struct {
	ProductID      *uint64 `json:"product_id,omitempty"`
	Views          int     `json:"views"`
	Carts          int     `json:"carts"`
	Purchases      int     `json:"purchases"`
	ConversionRate float64 `json:"conversion_rate"`
	ProductCount   int     `json:"product_count,omitempty"`
}

// AIAdvisorResponse comes from an untrusted service; every field is
// optional and callers must tolerate any of them missing.
type AIAdvisorResponse struct {
	Recommendations  []AIAdvisorSuggestion `json:"recommendations"`
	AbandonmentScore *float64              `json:"abandonment_score,omitempty"`
	Suggestion       string                `json:"suggestion,omitempty"`
}

type AIAdvisorSuggestion struct {
	ProductID  *uint64 `json:"product_id,omitempty"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}
