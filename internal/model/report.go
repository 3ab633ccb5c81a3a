package model

type SalesSummary struct {
	Orders     int64          `json:"orders"`
	PaidOrders int64          `json:"paidOrders"`
	Revenue    float64        `json:"revenue"`
	Monthly    []MonthlySales `json:"monthly"`
}

type MonthlySales struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Orders  int64   `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// Dashboard is the admin overview.
type Dashboard struct {
	Users        int64          `json:"users"`
	UsersByRole  map[Role]int64 `json:"usersByRole"`
	Products     int64          `json:"products"`
	PendingPlans int64          `json:"pendingPlans"`
	Inquiries    int64          `json:"openInquiries"`
	Sales        *SalesSummary  `json:"sales"`
}
