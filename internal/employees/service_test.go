package employees

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-hr/meridian/internal/shared"
)

type memoryEmployeeRepo struct {
	employees map[int64]*Employee
	nextID    int64
}

func newMemoryEmployeeRepo() *memoryEmployeeRepo {
	return &memoryEmployeeRepo{employees: make(map[int64]*Employee), nextID: 1}
}

func (r *memoryEmployeeRepo) List(ctx context.Context, page shared.Pagination) ([]Employee, int, error) {
	var out []Employee
	for _, e := range r.employees {
		if e.IsActive {
			out = append(out, *e)
		}
	}
	return out, len(out), nil
}

func (r *memoryEmployeeRepo) Get(ctx context.Context, id int64) (*Employee, error) {
	e, ok := r.employees[id]
	if !ok || !e.IsActive {
		return nil, shared.ErrNotFound
	}
	clone := *e
	return &clone, nil
}

func (r *memoryEmployeeRepo) Create(ctx context.Context, e *Employee) (*Employee, error) {
	clone := *e
	clone.ID = r.nextID
	clone.IsActive = true
	r.nextID++
	r.employees[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *memoryEmployeeRepo) Update(ctx context.Context, e *Employee) (*Employee, error) {
	stored, ok := r.employees[e.ID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	active := stored.IsActive
	clone := *e
	clone.IsActive = active
	r.employees[e.ID] = &clone
	out := clone
	return &out, nil
}

func (r *memoryEmployeeRepo) Deactivate(ctx context.Context, id int64) error {
	e, ok := r.employees[id]
	if !ok {
		return shared.ErrNotFound
	}
	e.IsActive = false
	return nil
}

func (r *memoryEmployeeRepo) CountActive(ctx context.Context) (int, error) {
	count := 0
	for _, e := range r.employees {
		if e.IsActive {
			count++
		}
	}
	return count, nil
}

func validInput() Input {
	return Input{
		UserID:      10,
		FirstName:   "Dana",
		LastName:    "Hong",
		Email:       "Dana.Hong@Example.com",
		Department:  "Engineering",
		Position:    "Developer",
		HireDate:    time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		SalaryCents: 550000000,
	}
}

func TestCreateNormalizesFields(t *testing.T) {
	svc := NewService(newMemoryEmployeeRepo())

	in := validInput()
	in.FirstName = "  Dana "
	e, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "Dana", e.FirstName)
	assert.Equal(t, "dana.hong@example.com", e.Email)
	assert.True(t, e.IsActive)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newMemoryEmployeeRepo())
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*Input)
	}{
		{"blank first name", func(in *Input) { in.FirstName = "  " }},
		{"blank email", func(in *Input) { in.Email = "" }},
		{"blank department", func(in *Input) { in.Department = "" }},
		{"negative salary", func(in *Input) { in.SalaryCents = -1 }},
		{"zero hire date", func(in *Input) { in.HireDate = time.Time{} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			_, err := svc.Create(ctx, in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestUpdateRequiresExisting(t *testing.T) {
	svc := NewService(newMemoryEmployeeRepo())

	_, err := svc.Update(context.Background(), 42, validInput())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestUpdateRewritesRecord(t *testing.T) {
	repo := newMemoryEmployeeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	in := validInput()
	in.Position = "Staff Developer"
	in.SalaryCents = 600000000
	updated, err := svc.Update(ctx, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Staff Developer", updated.Position)
	assert.Equal(t, int64(600000000), updated.SalaryCents)
}

func TestRemoveSoftDeletes(t *testing.T) {
	repo := newMemoryEmployeeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	count, err := svc.Headcount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
