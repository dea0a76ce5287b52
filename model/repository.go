package model

import (
	"math"
	"time"
)

// RepositoryMetaData describes one repository of the organisation
// Languages is filled by the enrichment step and may stay empty
type RepositoryMetaData struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Owner      string    `json:"owner"`
	HTMLURL    string    `json:"htmlUrl"`
	Size       int       `json:"size"` // size in kB as reported by github
	Fork       bool      `json:"fork"`
	Archived   bool      `json:"archived"`
	Disabled   bool      `json:"disabled"`
	IsTemplate bool      `json:"isTemplate"`
	PushedAt   time.Time `json:"pushedAt,omitempty"`

	// main language reported by github, empty when github found no code at all
	PrimaryLanguage string         `json:"primaryLanguage,omitempty"`
	Languages       LinguisticData `json:"languages,omitempty"`
}

// RepositoryLanguages is the result of a languages request for a single repository
type RepositoryLanguages struct {
	RepositoryID int64
	Languages    LinguisticData
	Err          error
}

// FullName return owner/name as used by github
func (r RepositoryMetaData) FullName() string {
	return r.Owner + "/" + r.Name
}

// SizeMB convert the github size (kB) to MB rounded to 2 digits
func (r RepositoryMetaData) SizeMB() float64 {
	return math.Round(float64(r.Size)/1024*100) / 100
}
