// Package domain holds DTOs for agency http and service contracts
package domain

import "grantdir/internal/core/listing"

// ListInput is the query string of the agency index
type ListInput struct {
	Q        string `schema:"q" json:"q,omitempty" validate:"max=200,nocontrol" example:"energy"`
	Page     int    `schema:"page" json:"page,omitempty" example:"1"`
	PageSize int    `schema:"pageSize" json:"pageSize,omitempty" example:"20"`
}

// DetailInput pages the listings shown on an agency page
type DetailInput struct {
	Page     int `schema:"page" json:"page,omitempty" example:"1"`
	PageSize int `schema:"pageSize" json:"pageSize,omitempty" example:"20"`
}

// AgencyPage is one page of the agency index
type AgencyPage struct {
	Agencies []listing.Agency `json:"agencies"`
	Total    int              `json:"total"    example:"112"`
	Page     int              `json:"page"     example:"1"`
	PageSize int              `json:"pageSize" example:"20"`
}

// AgencyDetail is an agency with one page of its grants
type AgencyDetail struct {
	Agency   listing.Agency    `json:"agency"`
	Grants   []listing.Listing `json:"grants"`
	Total    int               `json:"total"    example:"8"`
	Page     int               `json:"page"     example:"1"`
	PageSize int               `json:"pageSize" example:"20"`
}
