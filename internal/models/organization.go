package models

// Organization is a raw item returned by the paginated source API.
// Only the fields the transformer cares about are decoded; everything
// else in the upstream payload is ignored.
type Organization struct {
	Name       string  `json:"name"`
	City       string  `json:"city"`
	State      string  `json:"state"`
	TotRevenue float64 `json:"totrevenue"`
}

// Eligible reports whether the organization carries enough data to be
// turned into a player record. Items without a name or a city are
// dropped silently during transformation.
func (o Organization) Eligible() bool {
	return o.Name != "" && o.City != ""
}

// SearchPage is one page of the source API response.
type SearchPage struct {
	Organizations []Organization `json:"organizations"`
	NumPages      int            `json:"num_pages"`
}
