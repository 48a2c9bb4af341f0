package models

import "github.com/golang-jwt/jwt/v5"

// Application permissions
const (
	// Admin permissions
	PermissionReadAdmin  = "admin:read"
	PermissionWriteAdmin = "admin:write"

	// Buyer permissions
	PermissionWalletRead  = "wallet:read"
	PermissionWalletWrite = "wallet:write"
	PermissionGroupJoin   = "group:join"
	PermissionGroupVote   = "group:vote"

	// Vendor permissions
	PermissionProductWrite = "product:write"
	PermissionVendorManage = "vendor:manage"
	PermissionFulfilment   = "fulfilment:read"
)

type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uint     `json:"user_id"`
	Email        string   `json:"email"`
	Role         string   `json:"role"`
	Permissions  []string `json:"permissions"`
	TokenVersion int      `json:"token_version"`
}

// HasPermission checks if the claims include a specific permission
func (c *UserClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case RoleAdmin:
		return []string{
			PermissionWalletRead,
			PermissionWalletWrite,
			PermissionGroupJoin,
			PermissionGroupVote,
			PermissionProductWrite,
			PermissionVendorManage,
			PermissionFulfilment,
			PermissionReadAdmin,
			PermissionWriteAdmin,
		}
	case RoleVendor:
		return []string{
			PermissionWalletRead,
			PermissionWalletWrite,
			PermissionGroupJoin,
			PermissionGroupVote,
			PermissionProductWrite,
			PermissionVendorManage,
			PermissionFulfilment,
		}
	case RoleBuyer:
		return []string{
			PermissionWalletRead,
			PermissionWalletWrite,
			PermissionGroupJoin,
			PermissionGroupVote,
		}
	default:
		return []string{}
	}
}
