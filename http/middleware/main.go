package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/charcoal-cms/http/controller"
)

type Middlewares struct {
	CORSMiddleware    gin.HandlerFunc
	AuthMiddleware    gin.HandlerFunc
	MetricsMiddleware gin.HandlerFunc
}

func NewMiddlewares(ctrl *controller.Controller) (*Middlewares, error) {
	cors, err := CORSMiddleware(ctrl.Config.EnvConfig)
	if err != nil {
		return nil, err
	}
	auth := AuthMiddleware(ctrl.Config.EnvConfig)

	return &Middlewares{
		CORSMiddleware:    cors,
		AuthMiddleware:    auth,
		MetricsMiddleware: MetricsMiddleware(),
	}, nil
}
