package redisx

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// FloorPubSub broadcasts floor mutations so other admin sessions can refresh
// their view of the tables.
type FloorPubSub struct {
	rdb     *redis.Client
	channel string
}

func NewFloorPubSub(rdb *redis.Client) *FloorPubSub {
	return &FloorPubSub{
		rdb:     rdb,
		channel: ChannelFloorChanged(),
	}
}

type floorChangedMsg struct {
	Type    string `json:"type"`
	TableID string `json:"table_id,omitempty"`
	TsUnix  int64  `json:"ts_unix"`
}

func (p *FloorPubSub) PublishFloorChanged(ctx context.Context, tableID string) error {
	msg := floorChangedMsg{
		Type:    "floor_changed",
		TableID: tableID,
		TsUnix:  time.Now().Unix(),
	}

	b, _ := json.Marshal(msg)

	return p.rdb.Publish(ctx, p.channel, b).Err()
}

func (p *FloorPubSub) Subscribe(ctx context.Context, handler func(ctx context.Context, tableID string)) error {
	sub := p.rdb.Subscribe(ctx, p.channel)
	defer sub.Close()

	ch := sub.Channel(redis.WithChannelSize(256))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var ev floorChangedMsg
			if err := json.Unmarshal([]byte(m.Payload), &ev); err == nil {
				handler(ctx, ev.TableID)
			}
		}
	}
}
