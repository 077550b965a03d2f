package services

import (
	"strings"

	"github.com/mkurosawa/task-manager-api/internal/models"
)

// Principal is the acting user for the current request, resolved by the
// transport layer from a verified credential.
type Principal struct {
	UserID string
	Role   string
}

func (p Principal) Authenticated() bool {
	return p.UserID != ""
}

func (p Principal) IsAdmin() bool {
	return strings.EqualFold(p.Role, models.RoleAdmin)
}
