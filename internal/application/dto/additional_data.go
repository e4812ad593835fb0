package dto

import "github.com/oksasatya/go-social-users/internal/domain/gateway"

// AdditionalDataRequest carries the only writable field of the enrichment mapper.
type AdditionalDataRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// AdditionalData is the enriched payload. Everything except Email is
// read-only and filled from the enrichment provider.
type AdditionalData struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Gender    string `json:"gender,omitempty"`
	Location  string `json:"location,omitempty"`
	Bio       string `json:"bio,omitempty"`
	Site      string `json:"site,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
}

// Merge overrides the read-only fields with attrs. Unknown keys and blank
// values are ignored.
func (d *AdditionalData) Merge(attrs map[string]string) {
	targets := map[string]*string{
		gateway.AttrFirstName: &d.FirstName,
		gateway.AttrLastName:  &d.LastName,
		gateway.AttrGender:    &d.Gender,
		gateway.AttrLocation:  &d.Location,
		gateway.AttrBio:       &d.Bio,
		gateway.AttrSite:      &d.Site,
		gateway.AttrAvatar:    &d.Avatar,
	}
	for k, v := range attrs {
		if dst, ok := targets[k]; ok && v != "" {
			*dst = v
		}
	}
}
