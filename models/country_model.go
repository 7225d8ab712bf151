package models

// Country is one normalized entry from the country data provider.
// Once it lands in the cache it is treated as immutable.
type Country struct {
	Name         string `json:"name"`
	Code         string `json:"code"`
	FlagImageURL string `json:"flagImageUrl"`
	Eligible     bool   `json:"isEligible"`
}
