package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, t Team) (Team, error)
	GetByRoleID(ctx context.Context, roleID string) (Team, bool, error)
	List(ctx context.Context) ([]Team, error)
}
