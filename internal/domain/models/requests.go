package models

// Requests for the dashboard HTTP endpoints. Defined in domain for
// consistency and reuse.

type DashboardRequest struct {
	Indicators  bool `query:"indicators" json:"indicators"`
	Correlation bool `query:"correlation" json:"correlation"`
}

type AssetRequest struct {
	Symbol     string `param:"symbol" json:"symbol" validate:"required"`
	Indicators bool   `query:"indicators" json:"indicators"`
	Bars       int    `query:"bars" json:"bars" default:"260" validate:"gte=1,lte=2000"`
}

type SimulateRequest struct {
	Symbol  string `param:"symbol" json:"symbol" validate:"required"`
	Sims    int    `query:"sims" json:"sims" default:"50" validate:"gte=1,lte=1000"`
	Horizon int    `query:"horizon" json:"horizon" default:"30" validate:"gte=1,lte=365"`
}

type ExportRequest struct {
	Indicators bool `query:"indicators" json:"indicators"`
}
