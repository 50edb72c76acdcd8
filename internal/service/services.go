package service

import (
	"github.com/chiyaghar/pos-go/internal/floor"
	redisx "github.com/chiyaghar/pos-go/internal/redis"
	postgres "github.com/chiyaghar/pos-go/internal/repository/postgres"
	redis "github.com/chiyaghar/pos-go/internal/repository/redis"
	"github.com/chiyaghar/pos-go/internal/service/auth"
	"github.com/chiyaghar/pos-go/internal/service/reports"
	"github.com/chiyaghar/pos-go/internal/service/tables"
)

type Services struct {
	Auth    *auth.Service
	Tables  *tables.Service
	Reports *reports.Service
}

type Config struct {
	Auth    auth.Config
	Reports reports.Config
}

func NewServices(
	store *postgres.Store,
	state *floor.State,
	cache *redis.Cache,
	pubsub *redisx.FloorPubSub,
	cfg Config,
) *Services {
	tablesSvc := tables.New(state, cache, pubsub)

	return &Services{
		Auth:    auth.New(store, cfg.Auth),
		Tables:  tablesSvc,
		Reports: reports.New(tablesSvc, cache, cfg.Reports),
	}
}
