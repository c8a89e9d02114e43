package models

import (
	"time"

	"github.com/google/uuid"
)

// OrganizationKind distinguishes schools from companies.
type OrganizationKind string

const (
	OrganizationSchool  OrganizationKind = "school"
	OrganizationCompany OrganizationKind = "company"
)

// Organization is a school or company entity. Company verification lives in
// Metadata as contractSigned and is written by the contracts subsystem, not
// by this service.
type Organization struct {
	ID           uuid.UUID            `json:"id"`
	Name         string               `json:"name"`
	Kind         OrganizationKind     `json:"kind"`
	ContactEmail string               `json:"contactEmail,omitempty"`
	Phone        string               `json:"phone,omitempty"`
	City         string               `json:"city,omitempty"`
	Address      string               `json:"address,omitempty"`
	Metadata     OrganizationMetadata `json:"metadata"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
}

// OrganizationMetadata is the free-form metadata bag stored as JSONB.
type OrganizationMetadata struct {
	ContractSigned bool `json:"contractSigned,omitempty"`
}

// ContractVerified reports whether the company has a signed contract.
func (o *Organization) ContractVerified() bool {
	return o.Metadata.ContractSigned
}
