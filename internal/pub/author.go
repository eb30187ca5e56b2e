// Package pub defines the core domain types for bibliographic records.
package pub

// Author represents a publication author with optional structured name parts.
type Author struct {
	// Name is the display name and is never empty for a valid author.
	Name string `json:"name"`

	GivenName   string `json:"given_name,omitempty"`
	FamilyName  string `json:"family_name,omitempty"`
	ORCID       string `json:"orcid,omitempty"`
	Affiliation string `json:"affiliation,omitempty"`
}

// String renders the author as "Family, Given" when both parts are known,
// falling back to the display name.
func (a Author) String() string {
	if a.FamilyName != "" && a.GivenName != "" {
		return a.FamilyName + ", " + a.GivenName
	}
	return a.Name
}
