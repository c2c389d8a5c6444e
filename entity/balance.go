package entity

// Balance maps currency codes to subunit amounts. Available excludes
// amounts reserved in open orders, Total includes them.
type Balance struct {
	Available map[string]int64
	Total     map[string]int64
}
