// Package status publishes transfer progress to Redis so an
// out-of-process supervisor can watch a transfer, mirroring
// librescoot-bluetooth-service's state-broadcast pattern.
package status

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/xid"

	"github.com/flowbyte/ymodem/pkg/ymodem"
)

// Snapshot is one point-in-time view of a transfer, written as a Redis
// hash and published on the configured channel.
type Snapshot struct {
	Stage  ymodem.Stage
	Status ymodem.Status
	Name   string
	Bytes  int64
	Blocks int
}

// Publisher wraps a redis.Client and writes/publishes Snapshots at a
// configurable key and channel.
type Publisher struct {
	client  *redis.Client
	ctx     context.Context
	key     string
	channel string
	id      xid.ID
}

// New connects to addr and returns a Publisher writing hash key and
// publishing on channel. Each Publisher gets its own xid, stamped onto
// every Snapshot so a supervisor watching the channel across several
// concurrent ymrecv/ymsend processes can tell their updates apart.
func New(addr, key, channel string) (*Publisher, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("status: connect to redis: %w", err)
	}

	return &Publisher{client: client, ctx: ctx, key: key, channel: channel, id: xid.New()}, nil
}

// Publish writes s into the hash and fans it out on the Pub/Sub channel
// in a single pipeline, matching WriteAndPublish* in
// librescoot-bluetooth-service's redis client.
func (p *Publisher) Publish(s Snapshot) error {
	pipe := p.client.Pipeline()
	pipe.HSet(p.ctx, p.key,
		"transfer_id", p.id.String(),
		"stage", s.Stage.String(),
		"status", s.Status.String(),
		"name", s.Name,
		"bytes", s.Bytes,
		"blocks", s.Blocks,
	)
	pipe.Publish(p.ctx, p.channel, fmt.Sprintf("%s:%s:%s", p.id.String(), s.Stage, s.Status))
	_, err := pipe.Exec(p.ctx)
	return err
}

// Close closes the underlying Redis client.
func (p *Publisher) Close() error {
	return p.client.Close()
}
