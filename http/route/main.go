package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tnqbao/charcoal-cms/http/controller"
	middlewares "github.com/tnqbao/charcoal-cms/http/middleware"
	"github.com/tnqbao/charcoal-cms/infra"
)

func SetupRouter(ctrl *controller.Controller) *gin.Engine {
	r := gin.Default()
	middles, err := middlewares.NewMiddlewares(ctrl)
	if err != nil {
		panic(err)
	}
	r.Use(middles.MetricsMiddleware, middles.CORSMiddleware)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(infra.MetricsHandler()))

	authRoutes := r.Group("/api/v1/auth")
	{
		authRoutes.POST("/login", ctrl.Login)
		authRoutes.POST("/logout", ctrl.Logout)
		authRoutes.GET("/me", middles.AuthMiddleware, ctrl.Me)
	}

	publicRoutes := r.Group("/api/v1/public")
	{
		publicRoutes.GET("/home", ctrl.PublicHome)
		publicRoutes.GET("/products", ctrl.PublicProducts)
		publicRoutes.GET("/products/:slug", ctrl.PublicProduct)
		publicRoutes.GET("/news", ctrl.PublicNews)
		publicRoutes.GET("/news/:slug", ctrl.PublicNewsArticle)
		publicRoutes.GET("/gallery", ctrl.PublicGallery)
		publicRoutes.GET("/team", ctrl.PublicTeam)
		publicRoutes.GET("/pages", ctrl.PublicPage)
		publicRoutes.POST("/contact", ctrl.SubmitContact)
	}

	adminRoutes := r.Group("/api/v1/admin")
	{
		adminRoutes.Use(middles.AuthMiddleware)

		adminRoutes.GET("/dashboard", ctrl.DashboardSummary)

		mediaRoutes := adminRoutes.Group("/media/:kind")
		{
			mediaRoutes.GET("", ctrl.ListMedia)
			mediaRoutes.POST("/presign", ctrl.CreatePresignedURL)
			mediaRoutes.POST("/confirm", ctrl.ConfirmUpload)
			mediaRoutes.GET("/availability", ctrl.CheckMediaName)
			mediaRoutes.POST("/bulk-delete", ctrl.BulkDeleteMedia)
			mediaRoutes.PUT("/order", ctrl.ReorderMedia)
			mediaRoutes.GET("/:id", ctrl.GetMedia)
			mediaRoutes.PATCH("/:id", ctrl.RenameMedia)
			mediaRoutes.DELETE("/:id", ctrl.DeleteMedia)
		}

		productRoutes := adminRoutes.Group("/products")
		{
			productRoutes.GET("", ctrl.ListProducts)
			productRoutes.POST("", ctrl.CreateProduct)
			productRoutes.GET("/availability", ctrl.CheckProductSlug)
			productRoutes.PUT("/order", ctrl.ReorderProducts)
			productRoutes.GET("/:id", ctrl.GetProduct)
			productRoutes.PATCH("/:id", ctrl.UpdateProduct)
			productRoutes.DELETE("/:id", ctrl.DeleteProduct)
		}

		newsRoutes := adminRoutes.Group("/news")
		{
			newsRoutes.GET("", ctrl.ListNews)
			newsRoutes.POST("", ctrl.CreateNews)
			newsRoutes.GET("/availability", ctrl.CheckNewsSlug)
			newsRoutes.GET("/:id", ctrl.GetNews)
			newsRoutes.PATCH("/:id", ctrl.UpdateNews)
			newsRoutes.DELETE("/:id", ctrl.DeleteNews)
		}

		teamRoutes := adminRoutes.Group("/team")
		{
			teamRoutes.GET("", ctrl.ListTeamMembers)
			teamRoutes.POST("", ctrl.CreateTeamMember)
			teamRoutes.PUT("/order", ctrl.ReorderTeamMembers)
			teamRoutes.GET("/:id", ctrl.GetTeamMember)
			teamRoutes.PATCH("/:id", ctrl.UpdateTeamMember)
			teamRoutes.DELETE("/:id", ctrl.DeleteTeamMember)
		}

		pageRoutes := adminRoutes.Group("/pages")
		{
			pageRoutes.GET("", ctrl.ListPages)
			pageRoutes.POST("", ctrl.CreatePage)
			pageRoutes.GET("/availability", ctrl.CheckPagePath)
			pageRoutes.GET("/:id", ctrl.GetPage)
			pageRoutes.PATCH("/:id", ctrl.UpdatePage)
			pageRoutes.DELETE("/:id", ctrl.DeletePage)
		}

		contactRoutes := adminRoutes.Group("/contact-messages")
		{
			contactRoutes.GET("", ctrl.ListContactMessages)
			contactRoutes.PATCH("/:id", ctrl.MarkContactHandled)
			contactRoutes.DELETE("/:id", ctrl.DeleteContactMessage)
		}
	}
	return r
}
