package sqlite

import (
	"context"

	"github.com/aussiebroadwan/coursehub/internal/auth/domain"
	"github.com/aussiebroadwan/coursehub/internal/auth/store/drivers/sqlite/gen"
)

type rolesRepo struct {
	q *gen.Queries
}

func (r *rolesRepo) GetRoleByName(ctx context.Context, name string) (domain.Role, error) {
	row, err := r.q.GetRoleByNormalizedName(ctx, normalize(name))
	if err != nil {
		return domain.Role{}, mapNotFound(err)
	}
	return mapRole(row), nil
}

func (r *rolesRepo) CreateRole(ctx context.Context, role domain.Role) error {
	err := r.q.CreateRole(ctx, gen.CreateRoleParams{
		ID:             role.ID,
		Name:           role.Name,
		NormalizedName: normalize(role.Name),
		CreatedAt:      unix(role.CreatedAt),
	})
	return mapUniqueViolation(err)
}

func (r *rolesRepo) AddUserToRole(ctx context.Context, userID, roleID string) error {
	return r.q.AddUserRole(ctx, gen.AddUserRoleParams{
		UserID: userID,
		RoleID: roleID,
	})
}

func (r *rolesRepo) ListUserRoles(ctx context.Context, userID string) ([]string, error) {
	names, err := r.q.ListUserRoleNames(ctx, userID)
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}
