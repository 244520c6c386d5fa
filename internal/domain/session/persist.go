package session

import (
	"context"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/GymSync/internal/shared/types"
)

// Keys under which the session is persisted
const (
	KeyToken   = "session.token"
	KeyProfile = "session.profile"
)

// Persistence writes follow the memory transition they belong to and are
// not abandoned when the caller's context ends.

func (l *Lifecycle) saveSession(ctx context.Context, token string, profile *types.Profile) {
	ctx = context.WithoutCancel(ctx)
	if err := l.persist.Set(ctx, KeyToken, token); err != nil {
		l.persistFailed("save_token", err)
	}
	l.persistProfile(ctx, profile)
}

func (l *Lifecycle) persistProfile(ctx context.Context, profile *types.Profile) {
	if profile == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	data, err := sonic.Marshal(profile)
	if err != nil {
		l.persistFailed("encode_profile", err)
		return
	}
	if err := l.persist.Set(ctx, KeyProfile, string(data)); err != nil {
		l.persistFailed("save_profile", err)
	}
}

func (l *Lifecycle) clearPersisted(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	for _, key := range []string{KeyToken, KeyProfile} {
		if err := l.persist.Remove(ctx, key); err != nil {
			l.persistFailed("remove", err, zap.String("key", key))
		}
	}
}

// loadPersisted returns the stored session when both halves are present
// and readable. A lone half is removed.
func (l *Lifecycle) loadPersisted(ctx context.Context) (string, *types.Profile, bool) {
	ctx = context.WithoutCancel(ctx)

	token, hasToken, err := l.persist.Get(ctx, KeyToken)
	if err != nil {
		l.persistFailed("load_token", err)
		return "", nil, false
	}
	raw, hasProfile, err := l.persist.Get(ctx, KeyProfile)
	if err != nil {
		l.persistFailed("load_profile", err)
		return "", nil, false
	}

	var profile *types.Profile
	if hasProfile {
		profile = new(types.Profile)
		if err := sonic.UnmarshalString(raw, profile); err != nil {
			l.persistFailed("decode_profile", err)
			profile = nil
		}
	}

	if hasToken && token != "" && profile != nil {
		return token, profile, true
	}
	if hasToken || hasProfile {
		l.logger.Info("removing incomplete persisted session",
			zap.Bool("token", hasToken),
			zap.Bool("profile", profile != nil))
		l.clearPersisted(ctx)
	}
	return "", nil, false
}

func (l *Lifecycle) persistFailed(op string, err error, fields ...zap.Field) {
	l.metrics.IncPersistenceError(op)
	l.logger.Warn("persistence failed",
		append([]zap.Field{zap.String("op", op), zap.Error(err)}, fields...)...)
}
