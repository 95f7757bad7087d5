package documents

import (
	"time"

	"github.com/google/uuid"
)

// Visibility controls who can see a document.
type Visibility string

const (
	VisibilityPersonal Visibility = "personal"
	VisibilityCompany  Visibility = "company"
)

func (v Visibility) Valid() bool {
	return v == VisibilityPersonal || v == VisibilityCompany
}

// Document is a stored file reference. Personal documents belong to a
// single employee, company documents are visible to everyone.
type Document struct {
	ID         uuid.UUID
	OwnerID    int64
	OwnerName  string
	Title      string
	Kind       string
	FileURL    string
	Visibility Visibility
	CreatedAt  time.Time
}
