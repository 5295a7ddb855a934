package session

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const TTL = 7 * 24 * time.Hour

// Session is the logged-in state bound to a browser cookie. It is held
// server side so Logout can destroy it unconditionally.
type Session struct {
	ID        string    `json:"id"`
	UserID    uint      `json:"user_id"`
	Email     string    `json:"email"`
	LoginTime time.Time `json:"login_time"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Store interface {
	Create(ctx context.Context, sess Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

type RedisStore struct {
	Redis *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{Redis: rdb}
}

func (s *RedisStore) Create(ctx context.Context, sess Session) error {
	key := "session:" + sess.ID

	data := map[string]interface{}{
		"userId":    sess.UserID,
		"email":     sess.Email,
		"loginTime": sess.LoginTime.Unix(),
		"expires":   sess.ExpiresAt.Unix(),
	}

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Minute
	}

	pipe := s.Redis.TxPipeline()
	pipe.HSet(ctx, key, data)
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	key := "session:" + id
	vals, err := s.Redis.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, nil
	}

	userID, _ := strconv.ParseUint(vals["userId"], 10, 64)
	loginUnix, _ := strconv.ParseInt(vals["loginTime"], 10, 64)
	expUnix, _ := strconv.ParseInt(vals["expires"], 10, 64)

	sess := &Session{
		ID:        id,
		UserID:    uint(userID),
		Email:     vals["email"],
		LoginTime: time.Unix(loginUnix, 0),
		ExpiresAt: time.Unix(expUnix, 0),
	}

	if sess.ExpiresAt.Before(time.Now()) {
		_ = s.Delete(ctx, id)
		return nil, nil
	}

	return sess, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.Redis.Del(ctx, "session:"+id).Err()
}

func NewSessionID() string {
	return uuid.NewString()
}

// New builds a session for a freshly authenticated user.
func New(userID uint, email string) Session {
	now := time.Now()
	return Session{
		ID:        NewSessionID(),
		UserID:    userID,
		Email:     email,
		LoginTime: now,
		ExpiresAt: now.Add(TTL),
	}
}
