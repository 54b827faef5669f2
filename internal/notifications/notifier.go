// Package notifications persists moderation notifications and fans them out
// over Redis pub/sub for any interested consumers.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"sabuzz/internal/models"
	"sabuzz/internal/observability"
	"sabuzz/internal/repository"

	"github.com/redis/go-redis/v9"
)

// Verbs used by the moderation workflows.
const (
	VerbPostApproved       = "post_approved"
	VerbPostRejected       = "post_rejected"
	VerbCommentApproved    = "comment_approved"
	VerbJournalistApproved = "journalist_approved"
	VerbJournalistRejected = "journalist_rejected"
	VerbNewComment         = "new_comment"
)

// Notifier stores notifications and publishes them to per-user Redis
// channels. Publishing is best effort: the stored row is the source of
// truth and a Redis outage only loses the push, never the record.
type Notifier struct {
	repo repository.NotificationRepository
	rdb  *redis.Client
}

// NewNotifier creates a new Notifier instance.
func NewNotifier(repo repository.NotificationRepository, rdb *redis.Client) *Notifier {
	return &Notifier{repo: repo, rdb: rdb}
}

type payload struct {
	ID        uint   `json:"id"`
	Verb      string `json:"verb"`
	PostID    *uint  `json:"post_id,omitempty"`
	CommentID *uint  `json:"comment_id,omitempty"`
	Extra     string `json:"extra,omitempty"`
}

// Notify persists the notification and pushes it to the recipient's channel.
// Persistence errors are returned; publish errors are swallowed.
func (n *Notifier) Notify(ctx context.Context, notification *models.Notification) error {
	if err := n.repo.Create(ctx, notification); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}
	n.publish(ctx, notification)
	return nil
}

func (n *Notifier) publish(ctx context.Context, notification *models.Notification) {
	if n.rdb == nil {
		return
	}
	p := payload{
		ID:        notification.ID,
		Verb:      notification.Verb,
		PostID:    notification.TargetPostID,
		CommentID: notification.TargetCommentID,
		Extra:     notification.ExtraData,
	}
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := n.rdb.Publish(ctx, UserChannel(notification.UserID), string(data)).Err(); err != nil {
		return
	}
	observability.NotificationsPublishedTotal.Inc()
}

// StartPatternSubscriber subscribes to `notifications:user:*` and calls
// onMessage for each incoming message.
func (n *Notifier) StartPatternSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, "notifications:user:*")
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				onMessage(msg.Channel, msg.Payload)
			}
		}
	}()

	return nil
}

// UserChannel derives the Redis channel name for a user.
func UserChannel(userID uint) string {
	return "notifications:user:" + strconv.FormatUint(uint64(userID), 10)
}
