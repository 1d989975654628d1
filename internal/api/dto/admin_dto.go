package dto

import "github.com/initiative-bkd/petition-service/internal/domain"

// AddAdminRequest payload for allowlist additions. Password is optional and
// creates sign-in credentials.
type AddAdminRequest struct {
	Email    string           `json:"email" validate:"required,email"`
	Role     domain.AdminRole `json:"role" validate:"required,oneof=super_admin admin"`
	Password string           `json:"password" validate:"omitempty,min=8,max=72"`
}

// StatusUpdateRequest payload for moderation status changes.
type StatusUpdateRequest struct {
	Status domain.SignatureStatus `json:"status" validate:"required,oneof=new verified duplicate deleted"`
}

// PurgeResponse reports how many soft-deleted signatures were removed.
type PurgeResponse struct {
	Purged int64 `json:"purged"`
}
