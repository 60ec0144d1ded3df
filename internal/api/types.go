package api

import "strings"

// ErrorPrefix marks a failed registration in the legacy message convention.
const ErrorPrefix = "Error:"

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse is the backend's registration reply. Email is only echoed
// by newer backend revisions.
type RegisterResponse struct {
	Message string `json:"message"`
	Email   string `json:"email,omitempty"`
}

// HasErrorPrefix reports whether Message follows the "Error:" failure convention.
func (r RegisterResponse) HasErrorPrefix() bool {
	return HasErrorPrefix(r.Message)
}

// CreateOrganizationRequest is the body of POST /organizations. The country is
// sent as a header, not here.
type CreateOrganizationRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type CreateOrganizationResponse struct {
	OrganizationKey string `json:"organizationKey"`
	Message         string `json:"message"`
}

// HasKey reports whether the backend issued an organization key. A 200 reply
// without one is a rejection.
func (r CreateOrganizationResponse) HasKey() bool {
	return r.OrganizationKey != ""
}

// HasErrorPrefix is a case-insensitive check for the "Error:" prefix.
func HasErrorPrefix(msg string) bool {
	return len(msg) >= len(ErrorPrefix) && strings.EqualFold(msg[:len(ErrorPrefix)], ErrorPrefix)
}
