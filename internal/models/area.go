package models

// Area is a node of the country/region/city tree returned by GET /areas.
type Area struct {
	ID       string  `json:"id"`
	ParentID *string `json:"parent_id"`
	Name     string  `json:"name"`
	Areas    []Area  `json:"areas"`
}

// AreaMatch is an area whose name matched a lookup.
type AreaMatch struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
