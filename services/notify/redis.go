package notify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strconv"

	"math/rand"

	"github.com/redis/go-redis/v9"

	"sudburyscout/carscout/internal/scrape"
	"sudburyscout/carscout/internal/store"
	"sudburyscout/carscout/pkg/errors"
)

// RedisNotifier implements Notifier on Redis streams. Payloads are base64
// encoded JSON; events are spread over streamCount sharded streams under a
// common prefix.
type RedisNotifier struct {
	client          *redis.Client
	ctx             context.Context
	streamPrefix    string
	streamCount     int
	streamMaxLength int
}

type alertMatchEvent struct {
	Email       string         `json:"email"`
	Keyword     string         `json:"keyword"`
	TargetPrice int            `json:"target_price"`
	Listing     scrape.Listing `json:"listing"`
}

// NewRedisNotifier creates a new Redis notifier
func NewRedisNotifier(ctx context.Context, addr string, db int, streamPrefix string, streamCount, streamMaxLength int) *RedisNotifier {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	return &RedisNotifier{
		client:          client,
		ctx:             ctx,
		streamPrefix:    streamPrefix,
		streamCount:     streamCount,
		streamMaxLength: streamMaxLength,
	}
}

// PublishListing publishes a newly stored listing.
func (n *RedisNotifier) PublishListing(listing scrape.Listing) error {
	payload, err := json.Marshal(listing)
	if err != nil {
		return errors.NewPublisher("notifier", "marshal listing failed", err)
	}
	return n.publish("listing", payload)
}

// PublishAlertMatch publishes a listing that satisfies an alert subscription.
func (n *RedisNotifier) PublishAlertMatch(alert store.Alert, listing scrape.Listing) error {
	payload, err := json.Marshal(alertMatchEvent{
		Email:       alert.Email,
		Keyword:     alert.Keyword,
		TargetPrice: alert.TargetPrice,
		Listing:     listing,
	})
	if err != nil {
		return errors.NewPublisher("notifier", "marshal alert match failed", err)
	}
	return n.publish("alert_match", payload)
}

// publish appends the payload to a random shard stream.
// If streamCount is 3, stream names are prefix:0 through prefix:2.
func (n *RedisNotifier) publish(kind string, payload []byte) error {
	encoded := base64.StdEncoding.EncodeToString(payload)
	stream := n.streamPrefix + ":" + strconv.Itoa(rand.Intn(n.streamCount))

	return n.client.XAdd(n.ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			kind: encoded,
		},
	}).Err()
}

// TrimStreams trims all shard streams to the configured maximum length
func (n *RedisNotifier) TrimStreams() error {
	pattern := n.streamPrefix + ":*"
	streams, err := n.client.Keys(n.ctx, pattern).Result()
	if err != nil {
		return err
	}

	for _, stream := range streams {
		if err := n.client.XTrimMaxLen(n.ctx, stream, int64(n.streamMaxLength)).Err(); err != nil {
			return err
		}
	}

	return nil
}

// Close closes the Redis connection
func (n *RedisNotifier) Close() error {
	return n.client.Close()
}
