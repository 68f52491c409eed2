package http

import (
	"github.com/lumenlms/backoffice/internal/backoffice/domain"
	"github.com/lumenlms/backoffice/internal/backoffice/service"
	"github.com/lumenlms/backoffice/pkg/backofficesdk"
)

func toUserInfo(u domain.User) backofficesdk.UserInfo {
	return backofficesdk.UserInfo{
		ID:            u.ID,
		Email:         u.Email,
		DisplayName:   u.DisplayName,
		Image:         u.Image,
		EmailVerified: u.EmailVerifiedAt != nil,
		CreatedAt:     u.CreatedAt,
	}
}

func toRoleInfo(r domain.Role) backofficesdk.RoleInfo {
	return backofficesdk.RoleInfo{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		IsSystem:    r.IsSystem,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toPermissionInfo(p domain.Permission) backofficesdk.PermissionInfo {
	return backofficesdk.PermissionInfo{
		ID:          p.ID,
		Code:        p.Code,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toSessionResponse(s service.Session) backofficesdk.SessionResponse {
	resp := backofficesdk.SessionResponse{
		AccessToken:  s.Tokens.AccessToken,
		RefreshToken: s.Tokens.RefreshToken,
		ExpiresIn:    int64(s.Tokens.ExpiresIn.Seconds()),
		User:         toUserInfo(s.User),
		Permissions:  s.Permissions,
	}
	if resp.Permissions == nil {
		resp.Permissions = []string{}
	}
	if s.Role != nil {
		role := toRoleInfo(*s.Role)
		resp.Role = &role
	}
	return resp
}
