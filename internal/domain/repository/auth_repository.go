package repository

import (
	"context"

	"github.com/dukaanlabs/dukaan-api/internal/domain/entity"
	"github.com/google/uuid"
)

// UserRepository defines the interface for user account lookups
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	// GetByEmail loads the user with roles and permissions for login
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}

// TenantRepository defines the interface for tenant resolution
type TenantRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Tenant, error)
	// GetBySlug resolves a tenant from its subdomain identifier
	GetBySlug(ctx context.Context, slug string) (*entity.Tenant, error)
	// IsMember checks if a user belongs to a tenant
	IsMember(ctx context.Context, tenantID, userID uuid.UUID) (bool, error)
}

// IdempotencyRepository stores processed request keys and cached responses
type IdempotencyRepository interface {
	GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error)
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	DeleteExpired(ctx context.Context) error
}
