package marketdata

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/genarionogueira/val-risk-platform/logger"
)

const (
	// DefaultStreamPrefix prefixes the curve name in stream keys.
	DefaultStreamPrefix = "curve_updates:"
	// PayloadField holds the curve document inside each stream entry.
	PayloadField = "payload"
	// streamMaxLen caps each stream on publish.
	streamMaxLen = 1000
)

// ErrNoUpdate is returned when a curve stream is empty or missing.
var ErrNoUpdate = errors.New("no curve update in stream")

// StreamClient is the subset of *redis.Client used by StreamSource.
type StreamClient interface {
	XRevRangeN(ctx context.Context, stream, start, stop string, count int64) *redis.XMessageSliceCmd
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// StreamSource reads curve snapshots from Redis streams keyed "<prefix><curve name>".
type StreamSource struct {
	client StreamClient
	prefix string
	log    *logger.Entry
}

// NewStreamSource wraps client. An empty prefix selects DefaultStreamPrefix.
func NewStreamSource(client StreamClient, prefix string) *StreamSource {
	if prefix == "" {
		prefix = DefaultStreamPrefix
	}
	return &StreamSource{
		client: client,
		prefix: prefix,
		log:    logger.GetLogger().WithComponent("marketdata"),
	}
}

// NewRedisClient opens a client for addr.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// Key returns the stream key for a curve.
func (s *StreamSource) Key(name string) string {
	return s.prefix + name
}

// Latest returns the newest curve in the stream for name along with its entry ID.
func (s *StreamSource) Latest(ctx context.Context, name string) (CurveInput, string, error) {
	msgs, err := s.client.XRevRangeN(ctx, s.Key(name), "+", "-", 1).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return CurveInput{}, "", fmt.Errorf("Latest: %s: %w", s.Key(name), err)
	}
	if len(msgs) == 0 {
		return CurveInput{}, "", fmt.Errorf("Latest: %s: %w", s.Key(name), ErrNoUpdate)
	}

	msg := msgs[0]
	raw, ok := msg.Values[PayloadField].(string)
	if !ok {
		return CurveInput{}, "", fmt.Errorf("Latest: %s entry %s: %w: missing %q field", s.Key(name), msg.ID, ErrInvalidPayload, PayloadField)
	}
	c, err := DecodePayload(raw)
	if err != nil {
		return CurveInput{}, "", fmt.Errorf("Latest: %s entry %s: %w", s.Key(name), msg.ID, err)
	}
	return c, msg.ID, nil
}

// Publish appends c to its stream and returns the new entry ID.
func (s *StreamSource) Publish(ctx context.Context, c CurveInput) (string, error) {
	payload, err := EncodePayload(c)
	if err != nil {
		return "", err
	}
	id, err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.Key(c.Name),
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]interface{}{PayloadField: payload},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("Publish: %s: %w", s.Key(c.Name), err)
	}
	return id, nil
}

// Refresh replaces each zero curve of in with its latest streamed version.
//
// Curves without a stream entry keep their snapshot values. The returned updates
// describe the move from the snapshot to the streamed curve, one per refreshed curve.
func (s *StreamSource) Refresh(ctx context.Context, in MarketInput) (MarketInput, []CurveUpdate, error) {
	out := in
	var updates []CurveUpdate
	for _, c := range in.Curves {
		latest, id, err := s.Latest(ctx, c.Name)
		if errors.Is(err, ErrNoUpdate) {
			s.log.WithFields(logger.Fields{"curve": c.Name}).Debug("no streamed update; keeping snapshot")
			continue
		}
		if err != nil {
			return MarketInput{}, nil, err
		}
		u := Diff(c, latest)
		u.ID = id
		updates = append(updates, u)
		out = out.WithCurve(latest)
		s.log.WithFields(logger.Fields{"curve": c.Name, "entry": id}).Info("refreshed curve from stream")
	}
	return out, updates, nil
}
