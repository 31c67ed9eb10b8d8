// Package redisrepo stores refresh token metadata in Redis so that refresh
// tokens survive storefront restarts and can be shared across instances.
package redisrepo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ebikepoint/erp/token/refresh"
	"github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"
)

const (
	tokenKeyPrefix = "refresh:token:"
	userKeyPrefix  = "refresh:user:"
)

var _ refresh.Repo = (*RefreshTokenRepo)(nil)

type storedToken struct {
	Token  string    `json:"token"`
	UserID string    `json:"user_id"`
	Iat    time.Time `json:"iat"`
}

// RefreshTokenRepo persists refresh tokens in Redis. Entries carry a TTL
// matching the refresh token lifetime; the Manager still performs its own
// expiry check so the TTL only bounds storage growth.
type RefreshTokenRepo struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewRefreshTokenRepo(client *goredis.Client, ttl time.Duration) *RefreshTokenRepo {
	return &RefreshTokenRepo{client: client, ttl: ttl}
}

func (r *RefreshTokenRepo) Upsert(rt *refresh.StoredRefreshToken) error {
	ctx := context.Background()

	payload, err := json.Marshal(storedToken{Token: rt.Token, UserID: rt.UserID, Iat: rt.Iat})
	if err != nil {
		return errors.Wrap(err, "marshal refresh token")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, tokenKeyPrefix+rt.Token, payload, r.ttl)
	pipe.Set(ctx, userKeyPrefix+rt.UserID, rt.Token, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "store refresh token")
	}
	return nil
}

func (r *RefreshTokenRepo) Delete(token string) error {
	ctx := context.Background()

	rt, err := r.Get(token)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, tokenKeyPrefix+token)
	pipe.Del(ctx, userKeyPrefix+rt.UserID)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "delete refresh token")
	}
	return nil
}

func (r *RefreshTokenRepo) Get(token string) (*refresh.StoredRefreshToken, error) {
	ctx := context.Background()

	payload, err := r.client.Get(ctx, tokenKeyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, errors.New("not found")
		}
		return nil, errors.Wrap(err, "get refresh token")
	}

	var st storedToken
	if err := json.Unmarshal(payload, &st); err != nil {
		return nil, errors.Wrap(err, "unmarshal refresh token")
	}
	return &refresh.StoredRefreshToken{Token: st.Token, UserID: st.UserID, Iat: st.Iat}, nil
}

func (r *RefreshTokenRepo) GetByUserID(userID string) (*refresh.StoredRefreshToken, error) {
	ctx := context.Background()

	token, err := r.client.Get(ctx, userKeyPrefix+userID).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, errors.New("not found")
		}
		return nil, errors.Wrap(err, "get refresh token by user")
	}
	return r.Get(token)
}
