package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const idempotencyKeyPrefix = "idempotency:reservation:"

type idempotencyRedisState struct {
	Status string             `json:"status"`
	Result *IdempotencyResult `json:"result,omitempty"`
}

type IdempotencyGatewayRedis struct {
	client *redis.Client
}

func NewIdempotencyGatewayRedis(client *redis.Client) *IdempotencyGatewayRedis {
	return &IdempotencyGatewayRedis{client: client}
}

func (g *IdempotencyGatewayRedis) key(idempotencyKey string) string {
	return idempotencyKeyPrefix + idempotencyKey
}

func (g *IdempotencyGatewayRedis) Reserve(ctx context.Context, idempotencyKey string) (*IdempotencyResult, error) {
	k := g.key(idempotencyKey)

	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		data, err := g.client.Get(ctx, k).Bytes()
		if errors.Is(err, redis.Nil) {
			raw, _ := json.Marshal(idempotencyRedisState{Status: idempotencyStatusProcessing})
			_, err := g.client.SetArgs(ctx, k, raw, redis.SetArgs{Mode: "NX", TTL: idempotencyProcessingTTL}).Result()
			if errors.Is(err, redis.Nil) {
				// lost the race to another request; read its state
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("redis set: %w", err)
			}
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("redis get: %w", err)
		}

		var state idempotencyRedisState
		if err := json.Unmarshal(data, &state); err != nil {
			return nil, fmt.Errorf("redis unmarshal: %w", err)
		}

		switch state.Status {
		case idempotencyStatusSuccess:
			return state.Result, nil
		case idempotencyStatusProcessing:
			return nil, ErrKeyInProgress
		default:
			if err := g.client.Del(ctx, k).Err(); err != nil {
				return nil, fmt.Errorf("redis del: %w", err)
			}
		}
	}
}

func (g *IdempotencyGatewayRedis) MarkFailure(ctx context.Context, idempotencyKey string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return g.client.Del(ctx, g.key(idempotencyKey)).Err()
}

func (g *IdempotencyGatewayRedis) MarkSuccess(ctx context.Context, idempotencyKey string, result IdempotencyResult) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	raw, err := json.Marshal(idempotencyRedisState{Status: idempotencyStatusSuccess, Result: &result})
	if err != nil {
		return err
	}
	return g.client.Set(ctx, g.key(idempotencyKey), raw, idempotencyResultTTL).Err()
}
