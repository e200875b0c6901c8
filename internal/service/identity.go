package service

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"learnhub/internal/errors"
	"learnhub/internal/model"
	"learnhub/internal/repository"
)

// resolveCaller maps the authenticated principal (the email carried in JWT
// claims) to a full user snapshot. The token is trusted to be authenticated;
// role and active flag are always re-read from storage.
func resolveCaller(ctx context.Context, users repository.UserRepository, email string) (*model.User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, errors.AccessDenied("missing principal")
	}

	user, err := users.FindByEmail(ctx, email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NotFound(errors.CodeUserNotFound, "user with email "+email+" not found")
		}
		return nil, err
	}
	return user, nil
}

// adminOnly rejects non-admin and inactive actors for operations outside the
// permission table, such as catalog taxonomy changes.
func adminOnly(actor *model.User, what string) error {
	if actor == nil || actor.Role != model.RoleAdmin || !actor.Active {
		return errors.AccessDenied(what + " requires an active admin")
	}
	return nil
}

// normalizeText collapses internal whitespace and trims the ends.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// normalizeEmail lowercases and trims an email address.
func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
