package user

import (
	"context"

	"github.com/simp-lee/transitdesk/internal/docstore"
	"github.com/simp-lee/transitdesk/internal/domain"
	"github.com/simp-lee/transitdesk/internal/pkg"
)

// userRepository implements domain.UserRepository on a document store.
type userRepository struct {
	coll pkg.Collection[domain.AdminUser]
}

// NewUserRepository creates a UserRepository over the "users" collection,
// newest first.
func NewUserRepository(client docstore.Client) domain.UserRepository {
	return &userRepository{coll: pkg.Collection[domain.AdminUser]{
		Client:   client,
		Name:     "users",
		Singular: "user",
		Order:    "createdAt",
		Dir:      docstore.Desc,
		Decode:   decodeUser,
	}}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.AdminUser, error) {
	return r.coll.Get(ctx, id)
}

func (r *userRepository) GetAll(ctx context.Context, f domain.UserFilters, req domain.PageRequest) (*domain.Page[domain.AdminUser], error) {
	q := r.coll.Query()
	if f.Role != "" {
		q = q.Where("role", string(f.Role))
	}
	if f.IsActive != nil {
		q = q.Where("isActive", *f.IsActive)
	}
	return r.coll.Page(ctx, q, req)
}

// Create stores the profile under in.ID when it is set, so that profiles
// share their id with the signed-in identity.
func (r *userRepository) Create(ctx context.Context, in domain.UserInput) (*domain.AdminUser, error) {
	data := map[string]any{
		"email":       in.Email,
		"displayName": in.DisplayName,
		"role":        string(in.Role),
		"isActive":    in.IsActive,
	}
	if in.ID != "" {
		return r.coll.CreateWithID(ctx, in.ID, data)
	}
	return r.coll.Create(ctx, data)
}

func (r *userRepository) Update(ctx context.Context, id string, p domain.UserPatch) (*domain.AdminUser, error) {
	data := map[string]any{}
	if p.Email != nil {
		data["email"] = *p.Email
	}
	if p.DisplayName != nil {
		data["displayName"] = *p.DisplayName
	}
	if p.Role != nil {
		data["role"] = string(*p.Role)
	}
	if p.IsActive != nil {
		data["isActive"] = *p.IsActive
	}
	return r.coll.Update(ctx, id, data)
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	return r.coll.Delete(ctx, id)
}

func (r *userRepository) UpdateRole(ctx context.Context, id string, role domain.UserRole) error {
	return r.coll.Patch(ctx, id, map[string]any{"role": string(role)})
}

func (r *userRepository) UpdateActive(ctx context.Context, id string, active bool) error {
	return r.coll.Patch(ctx, id, map[string]any{"isActive": active})
}

func decodeUser(d docstore.Document) domain.AdminUser {
	doc := pkg.Doc(d.Data)
	role := domain.UserRole(doc.String("role"))
	if role == "" {
		role = domain.RoleCustomer
	}
	return domain.AdminUser{
		Entity: domain.Entity{
			ID:        d.ID,
			IsActive:  doc.Active(),
			CreatedAt: doc.Time("createdAt"),
			UpdatedAt: doc.Time("updatedAt"),
		},
		Email:       doc.String("email"),
		DisplayName: doc.String("displayName"),
		Role:        role,
	}
}
