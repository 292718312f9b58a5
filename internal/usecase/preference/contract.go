package preference

import (
	"context"

	dompref "github.com/robosmart/flowrec/internal/domain/preference"
)

// ProfileReader reads user rows and interaction history from the profile
// store.
type ProfileReader interface {
	// UserExists reports whether a profile row exists for the user.
	UserExists(ctx context.Context, userID int64) (bool, error)
	// ListInteractions returns the user's logged workflow interactions.
	ListInteractions(ctx context.Context, userID int64) ([]dompref.Interaction, error)
}
