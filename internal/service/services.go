package service

import (
	redisx "github.com/kcrown/partybus/internal/redis"
	postgres "github.com/kcrown/partybus/internal/repository/postgres"
	redis "github.com/kcrown/partybus/internal/repository/redis"
	"github.com/kcrown/partybus/internal/service/agents"
	"github.com/kcrown/partybus/internal/service/booking"
	"github.com/kcrown/partybus/internal/service/pricing"
	"github.com/kcrown/partybus/internal/service/profits"
)

type Services struct {
	Booking *booking.Service
	Pricing *pricing.Service
	Agents  *agents.Service
	Profits *profits.Service
}

type Config struct {
	Booking booking.Config
	Pricing pricing.Config
	Profits profits.Config
}

func NewServices(
	store *postgres.Store,
	cache *redis.Cache,
	pubsub *redisx.DaysPubSub,
	limiter *redis.SlidingWindowLimiter,
	cfg Config,
) *Services {
	return &Services{
		Booking: booking.New(store, cache, pubsub, limiter, cfg.Booking),
		Pricing: pricing.New(store, cache, pubsub, cfg.Pricing),
		Agents:  agents.New(store, cache),
		Profits: profits.New(store, cache, cfg.Profits),
	}
}
