package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"speed-backend/internal/domain"
	"speed-backend/internal/domain/models"
	"speed-backend/internal/utils"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// DefaultNotificationTTL is how long a notification stays visible unless
// dismissed earlier.
const DefaultNotificationTTL = 5 * time.Second

// RedisNotifier keeps each user's notifications in one hash keyed by
// notification id. The key expires with its newest entry.
type RedisNotifier struct {
	Client *goredis.Client
	TTL    time.Duration
	Prefix string
	Now    func() time.Time
}

func NewRedisNotifier(client *goredis.Client, ttl time.Duration) *RedisNotifier {
	if ttl <= 0 {
		ttl = DefaultNotificationTTL
	}
	return &RedisNotifier{Client: client, TTL: ttl, Prefix: "notifications", Now: time.Now}
}

func (n *RedisNotifier) key(userID int64) string {
	return fmt.Sprintf("%s:%d", n.Prefix, userID)
}

func (n *RedisNotifier) now() time.Time {
	if n.Now != nil {
		return n.Now().UTC()
	}
	return time.Now().UTC()
}

func (n *RedisNotifier) Post(ctx context.Context, userID int64, kind, title, message string) (models.Notification, error) {
	note := newNotification(userID, kind, title, message, n.now())
	raw, err := json.Marshal(note)
	if err != nil {
		return models.Notification{}, err
	}

	key := n.key(userID)
	pipe := n.Client.TxPipeline()
	pipe.HSet(ctx, key, note.ID, raw)
	pipe.Expire(ctx, key, n.TTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return models.Notification{}, fmt.Errorf("post notification: %w", err)
	}
	return note, nil
}

// List returns live notifications oldest first and prunes expired ones.
func (n *RedisNotifier) List(ctx context.Context, userID int64) ([]models.Notification, error) {
	key := n.key(userID)
	entries, err := n.Client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	now := n.now()
	out := []models.Notification{}
	var expired []string
	for id, raw := range entries {
		var note models.Notification
		if err := json.Unmarshal([]byte(raw), &note); err != nil || !now.Before(note.Timestamp.Add(n.TTL)) {
			expired = append(expired, id)
			continue
		}
		out = append(out, note)
	}
	if len(expired) > 0 {
		if err := n.Client.HDel(ctx, key, expired...).Err(); err != nil {
			utils.LogWarn("", "notification", "prune", fmt.Sprintf("user_id=%d", userID), err)
		}
	}
	sortNotifications(out)
	return out, nil
}

func (n *RedisNotifier) Dismiss(ctx context.Context, userID int64, id string) error {
	removed, err := n.Client.HDel(ctx, n.key(userID), id).Result()
	if err != nil {
		return fmt.Errorf("dismiss notification: %w", err)
	}
	if removed == 0 {
		return domain.NotFoundError{Resource: "notification"}
	}
	return nil
}

// MemoryNotifier is used when no Redis address is configured.
type MemoryNotifier struct {
	TTL time.Duration
	Now func() time.Time

	mu    sync.Mutex
	notes map[int64][]models.Notification
}

func NewMemoryNotifier(ttl time.Duration) *MemoryNotifier {
	if ttl <= 0 {
		ttl = DefaultNotificationTTL
	}
	return &MemoryNotifier{TTL: ttl, Now: time.Now, notes: map[int64][]models.Notification{}}
}

func (n *MemoryNotifier) now() time.Time {
	if n.Now != nil {
		return n.Now().UTC()
	}
	return time.Now().UTC()
}

func (n *MemoryNotifier) Post(_ context.Context, userID int64, kind, title, message string) (models.Notification, error) {
	note := newNotification(userID, kind, title, message, n.now())
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.notes == nil {
		n.notes = map[int64][]models.Notification{}
	}
	n.notes[userID] = append(n.notes[userID], note)
	return note, nil
}

func (n *MemoryNotifier) List(_ context.Context, userID int64) ([]models.Notification, error) {
	now := n.now()
	n.mu.Lock()
	defer n.mu.Unlock()
	live := []models.Notification{}
	for _, note := range n.notes[userID] {
		if now.Before(note.Timestamp.Add(n.TTL)) {
			live = append(live, note)
		}
	}
	n.notes[userID] = live
	out := append([]models.Notification(nil), live...)
	sortNotifications(out)
	return out, nil
}

func (n *MemoryNotifier) Dismiss(_ context.Context, userID int64, id string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	notes := n.notes[userID]
	for i, note := range notes {
		if note.ID == id {
			n.notes[userID] = append(notes[:i:i], notes[i+1:]...)
			return nil
		}
	}
	return domain.NotFoundError{Resource: "notification"}
}

func newNotification(userID int64, kind, title, message string, at time.Time) models.Notification {
	return models.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      kind,
		Title:     title,
		Message:   message,
		Timestamp: at,
	}
}

func sortNotifications(notes []models.Notification) {
	sort.SliceStable(notes, func(i, j int) bool { return notes[i].Timestamp.Before(notes[j].Timestamp) })
}

// notify posts a notification on behalf of a service. Delivery failures are
// logged and never fail the calling operation.
func notify(ctx context.Context, n Notifier, requestID string, userID int64, kind, title, message string) {
	if n == nil {
		return
	}
	if _, err := n.Post(ctx, userID, kind, title, message); err != nil {
		utils.LogWarn(requestID, "notification", "post", fmt.Sprintf("user_id=%d title=%q", userID, title), err)
	}
}
