package domain

// Location is a reverse-geocoded place. Fields are empty strings when
// the lookup failed or returned nothing.
type Location struct {
	State    string `json:"state"`
	District string `json:"district"`
	Village  string `json:"village"`
}
