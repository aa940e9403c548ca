package dto

// CUITCheckResponse resultado de GET /api/fiscal/cuit/:cuit.
type CUITCheckResponse struct {
	CUIT      string `json:"cuit"`
	Formatted string `json:"formatted,omitempty"`
	Valid     bool   `json:"valid"`
	Reason    string `json:"reason,omitempty"`
}
