package documents

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/meridian-hr/meridian/internal/authz"
	"github.com/meridian-hr/meridian/internal/shared"
)

var (
	ErrInvalidInput     = errors.New("documents: invalid input")
	ErrNotOwner         = errors.New("documents: not the owner")
	ErrVisibilityDenied = errors.New("documents: company visibility requires staff role")
)

// Input carries a document upload request.
type Input struct {
	Title      string
	Kind       string
	FileURL    string
	Visibility Visibility
}

type Service struct {
	repo RepositoryPort
}

func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Upload stores a document owned by the caller. Only staff with the
// company-wide document permission may publish company documents.
func (s *Service) Upload(ctx context.Context, identity *shared.Identity, in Input) (*Document, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Kind = strings.TrimSpace(in.Kind)
	in.FileURL = strings.TrimSpace(in.FileURL)
	if in.Title == "" || in.FileURL == "" || !in.Visibility.Valid() {
		return nil, ErrInvalidInput
	}
	if in.Visibility == VisibilityCompany && !authz.HasPermission(identity, authz.ResourceDocuments, authz.ActionViewAll) {
		return nil, ErrVisibilityDenied
	}
	doc := &Document{
		ID:         uuid.New(),
		OwnerID:    identity.ID,
		OwnerName:  identity.FullName(),
		Title:      in.Title,
		Kind:       in.Kind,
		FileURL:    in.FileURL,
		Visibility: in.Visibility,
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ListFor returns every document the caller may see.
func (s *Service) ListFor(ctx context.Context, identity *shared.Identity) ([]Document, error) {
	if authz.HasPermission(identity, authz.ResourceDocuments, authz.ActionViewAll) {
		return s.repo.ListAll(ctx)
	}
	return s.repo.ListVisibleTo(ctx, identity.ID)
}

// Delete removes a document. Owners can delete their own documents,
// staff with the delete permission can remove any.
func (s *Service) Delete(ctx context.Context, identity *shared.Identity, id uuid.UUID) error {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if doc.OwnerID != identity.ID && !authz.HasPermission(identity, authz.ResourceDocuments, authz.ActionDelete) {
		return ErrNotOwner
	}
	return s.repo.Delete(ctx, id)
}
