package controller

import (
	"context"
	"time"

	"github.com/tnqbao/charcoal-cms/config"
	"github.com/tnqbao/charcoal-cms/infra"
	"github.com/tnqbao/charcoal-cms/repository"
	"github.com/tnqbao/charcoal-cms/service"
)

// PublicCache stores rendered public responses.
type PublicCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) (int, error)
}

type Controller struct {
	Config     *config.Config
	Infra      *infra.Infra
	Repository *repository.Repository
	Services   *service.Services
	Cache      PublicCache
}

func NewController(config *config.Config, infra *infra.Infra, repo *repository.Repository, services *service.Services) *Controller {
	if repo == nil {
		panic("Failed to initialize Repository")
	}
	if services == nil {
		panic("Failed to initialize Services")
	}
	ctrl := &Controller{
		Config:     config,
		Infra:      infra,
		Repository: repo,
		Services:   services,
	}
	if infra.Redis != nil {
		ctrl.Cache = infra.Redis
	}
	return ctrl
}
