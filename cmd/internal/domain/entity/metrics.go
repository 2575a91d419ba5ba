package entity

// CompanyMetrics aggregates a company's dashboard counters.
type CompanyMetrics struct {
	TotalOpportunities    int64
	ActiveOpportunities   int64
	InactiveOpportunities int64
	PendingOpportunities  int64
	ApprovedOpportunities int64
	RejectedOpportunities int64
	TotalApplications     int64
	TotalInterests        int64
}

// OpportunitySummary is an opportunity with its engagement counters.
type OpportunitySummary struct {
	Opportunity
	ApplicationCount int64
	InterestCount    int64
}
