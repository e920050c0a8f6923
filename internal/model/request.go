package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// RequestType selects which search variant a request carries.
type RequestType string

const (
	// RequestCorporate searches for people holding a role at a company.
	RequestCorporate RequestType = "corp"
	// RequestSmallBusiness searches for businesses of a type in a location.
	RequestSmallBusiness RequestType = "smb"
)

// SearchRequest is a lead request as received from the front controller.
// Exactly one variant is active: corp (Role+Company) or smb
// (BusinessType+Location).
type SearchRequest struct {
	Type         RequestType `json:"type"`
	Role         string      `json:"role,omitempty"`
	Company      string      `json:"company,omitempty"`
	BusinessType string      `json:"businessType,omitempty"`
	Location     string      `json:"location,omitempty"`
}

// Validate checks that the active variant's required fields are present.
// Requests failing validation are rejected before any external call.
func (r SearchRequest) Validate() error {
	switch r.Type {
	case RequestCorporate:
		if strings.TrimSpace(r.Role) == "" || strings.TrimSpace(r.Company) == "" {
			return eris.New("model: corp request requires role and company")
		}
	case RequestSmallBusiness:
		if strings.TrimSpace(r.BusinessType) == "" || strings.TrimSpace(r.Location) == "" {
			return eris.New("model: smb request requires businessType and location")
		}
	case "":
		return eris.New("model: missing search type")
	default:
		return eris.Errorf("model: unknown search type %q", r.Type)
	}
	return nil
}

// IsSMB reports whether the small-business variant is active.
func (r SearchRequest) IsSMB() bool { return r.Type == RequestSmallBusiness }
