package cost

// Unit costs for a wood-frame residential build. Dollar figures are
// replacement-cost baselines, not quotes.
const (
	ExcavationCostPerM3  = 35.0   // $/m³
	FoundationDepth      = 1.2    // m below grade
	SlabCostPerM2        = 150.0  // $/m² of footprint
	ResidentialCostPerM2 = 3000.0 // $/m² floor area
	CoachHouseCostPerM2  = 2600.0 // $/m² floor area
	GarageCostPerM2      = 1200.0 // $/m² floor area
	PartyWallCostPerM2   = 250.0  // $/m² of wall, fire-rated assembly
	SiteWorkCostPerM2    = 60.0   // $/m² of open site, landscaping and paving

	DefaultInterestRate   = 0.05
	DefaultDebtTermYears  = 25
	DefaultOpsPerUnitYear = 6000.0 // $ per unit per year
)
