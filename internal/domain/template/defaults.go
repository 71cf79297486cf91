package template

// StationManager is the built-in role id.
const StationManager = "station_manager"

// Default returns the built-in catalog used when no template file is
// configured.
func Default() Catalog {
	return Catalog{Roles: map[string]Role{
		StationManager: {
			Name: "Station Manager",
			Categories: []CategorySpec{
				{Key: "operations", Name: "Operational Performance", Weight: 40, Metrics: []MetricSpec{
					{Key: "on_time_departure", Name: "On-time departures", Unit: "%", Target: 90},
					{Key: "turnaround_time", Name: "Average turnaround", Unit: "min", Target: 45, LowerIsBetter: true},
					{Key: "baggage_mishandled", Name: "Mishandled bags per 1000 pax", Unit: "per 1000", Target: 3, LowerIsBetter: true},
				}},
				{Key: "safety", Name: "Safety & Compliance", Weight: 30, Metrics: []MetricSpec{
					{Key: "ground_incidents", Name: "Ground damage incidents", Unit: "count", Target: 0, LowerIsBetter: true},
					{Key: "audit_score", Name: "Safety audit score", Unit: "score", Target: 95},
				}},
				{Key: "customer", Name: "Customer Experience", Weight: 20, Metrics: []MetricSpec{
					{Key: "csat", Name: "Passenger satisfaction", Unit: "%", Target: 85},
					{Key: "complaints", Name: "Complaints per 10k pax", Unit: "per 10k", Target: 2, LowerIsBetter: true},
				}},
				{Key: "people", Name: "People & Cost", Weight: 10, Metrics: []MetricSpec{
					{Key: "training_completion", Name: "Training completion", Unit: "%", Target: 100},
					{Key: "overtime_cost", Name: "Overtime cost", Unit: "kEUR", Target: 20, LowerIsBetter: true},
				}},
			},
		},
	}}
}
