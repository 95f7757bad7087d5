package documents

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-hr/meridian/internal/authz"
	"github.com/meridian-hr/meridian/internal/shared"
)

type memoryDocumentRepo struct {
	docs map[uuid.UUID]*Document
}

func newMemoryDocumentRepo() *memoryDocumentRepo {
	return &memoryDocumentRepo{docs: make(map[uuid.UUID]*Document)}
}

func (r *memoryDocumentRepo) Create(ctx context.Context, doc *Document) error {
	clone := *doc
	r.docs[doc.ID] = &clone
	return nil
}

func (r *memoryDocumentRepo) Get(ctx context.Context, id uuid.UUID) (*Document, error) {
	doc, ok := r.docs[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	clone := *doc
	return &clone, nil
}

func (r *memoryDocumentRepo) ListVisibleTo(ctx context.Context, userID int64) ([]Document, error) {
	var out []Document
	for _, doc := range r.docs {
		if doc.OwnerID == userID || doc.Visibility == VisibilityCompany {
			out = append(out, *doc)
		}
	}
	return out, nil
}

func (r *memoryDocumentRepo) ListAll(ctx context.Context) ([]Document, error) {
	var out []Document
	for _, doc := range r.docs {
		out = append(out, *doc)
	}
	return out, nil
}

func (r *memoryDocumentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.docs[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.docs, id)
	return nil
}

func identityWithRole(id int64, role authz.Role) *shared.Identity {
	return &shared.Identity{ID: id, Email: "user@example.com", Role: role, FirstName: "Test", LastName: "User"}
}

func TestUploadValidation(t *testing.T) {
	svc := NewService(newMemoryDocumentRepo())
	employee := identityWithRole(1, authz.RoleEmployee)
	ctx := context.Background()

	_, err := svc.Upload(ctx, employee, Input{Title: "  ", FileURL: "/files/a.pdf", Visibility: VisibilityPersonal})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Upload(ctx, employee, Input{Title: "Contract", Visibility: VisibilityPersonal})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Upload(ctx, employee, Input{Title: "Contract", FileURL: "/files/a.pdf", Visibility: "secret"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUploadCompanyVisibilityGated(t *testing.T) {
	svc := NewService(newMemoryDocumentRepo())
	ctx := context.Background()
	in := Input{Title: "Handbook", Kind: "policy", FileURL: "/files/handbook.pdf", Visibility: VisibilityCompany}

	_, err := svc.Upload(ctx, identityWithRole(1, authz.RoleEmployee), in)
	assert.ErrorIs(t, err, ErrVisibilityDenied)

	doc, err := svc.Upload(ctx, identityWithRole(2, authz.RoleHR), in)
	require.NoError(t, err)
	assert.Equal(t, VisibilityCompany, doc.Visibility)
	assert.Equal(t, int64(2), doc.OwnerID)
	assert.NotEqual(t, uuid.Nil, doc.ID)
}

func TestUploadTrimsFields(t *testing.T) {
	svc := NewService(newMemoryDocumentRepo())

	doc, err := svc.Upload(context.Background(), identityWithRole(1, authz.RoleEmployee), Input{
		Title: "  Contract  ", Kind: " contract ", FileURL: " /files/c.pdf ", Visibility: VisibilityPersonal,
	})
	require.NoError(t, err)
	assert.Equal(t, "Contract", doc.Title)
	assert.Equal(t, "contract", doc.Kind)
	assert.Equal(t, "/files/c.pdf", doc.FileURL)
}

func TestListForVisibility(t *testing.T) {
	repo := newMemoryDocumentRepo()
	svc := NewService(repo)
	ctx := context.Background()

	owner := identityWithRole(1, authz.RoleEmployee)
	other := identityWithRole(2, authz.RoleEmployee)
	hr := identityWithRole(3, authz.RoleHR)

	_, err := svc.Upload(ctx, owner, Input{Title: "Private", FileURL: "/files/p.pdf", Visibility: VisibilityPersonal})
	require.NoError(t, err)
	_, err = svc.Upload(ctx, hr, Input{Title: "Handbook", FileURL: "/files/h.pdf", Visibility: VisibilityCompany})
	require.NoError(t, err)

	ownerDocs, err := svc.ListFor(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, ownerDocs, 2)

	otherDocs, err := svc.ListFor(ctx, other)
	require.NoError(t, err)
	require.Len(t, otherDocs, 1)
	assert.Equal(t, "Handbook", otherDocs[0].Title)

	hrDocs, err := svc.ListFor(ctx, hr)
	require.NoError(t, err)
	assert.Len(t, hrDocs, 2)
}

func TestDeleteOwnershipRules(t *testing.T) {
	repo := newMemoryDocumentRepo()
	svc := NewService(repo)
	ctx := context.Background()

	owner := identityWithRole(1, authz.RoleEmployee)
	doc, err := svc.Upload(ctx, owner, Input{Title: "Private", FileURL: "/files/p.pdf", Visibility: VisibilityPersonal})
	require.NoError(t, err)

	err = svc.Delete(ctx, identityWithRole(2, authz.RoleEmployee), doc.ID)
	assert.ErrorIs(t, err, ErrNotOwner)

	// HR has view_all but not delete.
	err = svc.Delete(ctx, identityWithRole(3, authz.RoleHR), doc.ID)
	assert.ErrorIs(t, err, ErrNotOwner)

	require.NoError(t, svc.Delete(ctx, identityWithRole(4, authz.RoleAdmin), doc.ID))

	err = svc.Delete(ctx, owner, doc.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDeleteByOwner(t *testing.T) {
	repo := newMemoryDocumentRepo()
	svc := NewService(repo)
	ctx := context.Background()

	owner := identityWithRole(1, authz.RoleEmployee)
	doc, err := svc.Upload(ctx, owner, Input{Title: "Private", FileURL: "/files/p.pdf", Visibility: VisibilityPersonal})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, owner, doc.ID))
	assert.Empty(t, repo.docs)
}
