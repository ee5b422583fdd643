package rules

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"easymove_notifier/internal/store"
)

// displayName returns the user's name, or fallback when the profile is
// missing or has no name. Only store failures are returned.
func displayName(ctx context.Context, users store.Repository, userID, fallback string) (string, error) {
	if userID == "" {
		return fallback, nil
	}
	user, err := users.GetUser(ctx, userID)
	if err != nil {
		if store.IsMissing(err) {
			return fallback, nil
		}
		return "", fmt.Errorf("resolving name of %s: %w", userID, err)
	}
	if user.Name == "" {
		return fallback, nil
	}
	return user.Name, nil
}

// skipMissing turns a missing-reference error into a logged no-op and passes
// any other error through.
func skipMissing(logger *zap.Logger, err error, msg string) error {
	if store.IsMissing(err) {
		logger.Debug(msg, zap.Error(err))
		return nil
	}
	return err
}

// statusEntered reports whether an update moved status onto sentinel. Updates
// that leave status unchanged never fire.
func statusEntered(before, after, sentinel string) bool {
	return before != after && after == sentinel
}
