// Package domain holds DTOs for the assignment http and service contracts
package domain

// ReassignInput mutates the depot on one in-scope area
type ReassignInput struct {
	DepotCode string `json:"depot_code" validate:"required,depot_code" example:"SGM"`
}

// AreaRow is the flat area view returned from mutations and used for export
type AreaRow struct {
	AreaID       string `json:"area_id"`
	AreaName     string `json:"area_name"`
	Municipality string `json:"municipality"`
	DepotCode    string `json:"depot_code"`
	DepotName    string `json:"depot_name"`
	InScope      bool   `json:"in_scope"`
	Granularity  string `json:"geometry_granularity"`
}

// DepotCount is one sidebar bucket
type DepotCount struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Summary is the per-depot breakdown for the sidebar
type Summary struct {
	Total      int          `json:"total"`
	InScope    int          `json:"in_scope"`
	OutOfScope int          `json:"out_of_scope"`
	Unassigned int          `json:"unassigned"`
	ByDepot    []DepotCount `json:"by_depot"`
}

// DepotInfo is one canonical depot with its map pin
type DepotInfo struct {
	Code string  `json:"code"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}
