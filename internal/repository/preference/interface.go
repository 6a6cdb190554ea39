package preference

import "context"

// PreferenceRepository handles persisted UI preference flags.
type PreferenceRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
