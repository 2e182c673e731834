package refdata

// Dataset names understood by the cache.
const (
	DatasetDevices  = "devices"
	DatasetSymptoms = "symptoms"
	DatasetRewards  = "rewards"
	DatasetPricing  = "pricing"
)

type DeviceModel struct {
	Brand    string `json:"brand"`
	Model    string `json:"model"`
	Category string `json:"category"`
}

type DeviceCatalog struct {
	Models []DeviceModel `json:"models"`
}

type SymptomCategory struct {
	Name     string   `json:"name"`
	Symptoms []string `json:"symptoms"`
}

type SymptomTaxonomy struct {
	Categories []SymptomCategory `json:"categories"`
}

type RewardTier struct {
	Name      string   `json:"name"`
	MinPoints int      `json:"minPoints"`
	Perks     []string `json:"perks"`
}

type RewardsTiers struct {
	Tiers []RewardTier `json:"tiers"`
}

type Plan struct {
	Name         string   `json:"name"`
	MonthlyPrice float64  `json:"monthlyPrice"`
	Currency     string   `json:"currency"`
	Features     []string `json:"features"`
}

type CreditPack struct {
	Credits int     `json:"credits"`
	Price   float64 `json:"price"`
}

type PricingPlans struct {
	Plans       []Plan       `json:"plans"`
	CreditPacks []CreditPack `json:"creditPacks"`
}

// Snapshot holds whichever datasets were loadable for one request.
// Nil fields mean the dataset is absent for this request, not that it
// failed permanently.
type Snapshot struct {
	Devices  *DeviceCatalog
	Symptoms *SymptomTaxonomy
	Rewards  *RewardsTiers
	Pricing  *PricingPlans
}
