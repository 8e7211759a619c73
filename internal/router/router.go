package router

import (
	"net/http"
	"strings"

	"github.com/AngelP17/ticketing/api"
	"github.com/AngelP17/ticketing/internal/auth"
	"github.com/AngelP17/ticketing/internal/handler"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Deps — хендлеры и auth-провайдер, которые монтирует роутер.
type Deps struct {
	Tickets   *handler.TicketHandler
	Auth      *handler.AuthHandler
	Sync      *handler.SyncHandler
	Provider  auth.Provider
	JWTSecret string
}

func New(d Deps) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/health", handler.Health)
	r.GET("/ready", handler.Ready)
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(http.StatusFound, "/swagger/") })
	r.GET("/swagger/*any", func(c *gin.Context) {
		if strings.TrimPrefix(c.Param("any"), "/") == "openapi.json" {
			c.Data(http.StatusOK, "application/json", api.OpenAPISpec)
			return
		}
		if strings.TrimPrefix(c.Param("any"), "/") == "" {
			c.Request.URL.Path = "/swagger/index.html"
			c.Request.RequestURI = "/swagger/index.html"
		}
		ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/openapi.json"))(c)
	})

	authed := auth.Required(d.Provider, d.JWTSecret)
	admin := auth.AdminRequired()

	v1 := r.Group("/api/v1")
	{
		v1.POST("/auth/login", d.Auth.Login)
		v1.GET("/auth/me", authed, d.Auth.Me)
		v1.POST("/auth/change-password", authed, d.Auth.ChangePassword)

		users := v1.Group("/users", authed, admin)
		{
			users.GET("", d.Auth.ListUsers)
			users.POST("", d.Auth.CreateUser)
			users.PUT("/:username", d.Auth.UpdateUser)
			users.DELETE("/:username", d.Auth.DeleteUser)
		}

		tickets := v1.Group("/tickets", authed)
		{
			tickets.GET("", d.Tickets.List)
			tickets.POST("", d.Tickets.Create)
			tickets.GET("/:ticket_id", d.Tickets.Get)
			tickets.PUT("/:ticket_id", d.Tickets.Update)
			tickets.DELETE("/:ticket_id", d.Tickets.Delete)

			tickets.PUT("/:ticket_id/labels/:id", d.Tickets.AttachLabel)
			tickets.DELETE("/:ticket_id/labels/:id", d.Tickets.DetachLabel)

			tickets.POST("/:ticket_id/attachments", d.Tickets.UploadAttachment)
			tickets.GET("/:ticket_id/attachments", d.Tickets.ListAttachments)
		}

		v1.GET("/attachments/:id", authed, d.Tickets.DownloadAttachment)
		v1.DELETE("/attachments/:id", authed, d.Tickets.DeleteAttachment)

		v1.GET("/labels", authed, d.Tickets.ListLabels)
		v1.POST("/labels", authed, d.Tickets.CreateLabel)
		v1.DELETE("/labels/:id", authed, d.Tickets.DeleteLabel)

		v1.GET("/categories", authed, d.Tickets.ListCategories)
		v1.POST("/categories", authed, d.Tickets.CreateCategory)
		v1.PUT("/categories/:id", authed, d.Tickets.UpdateCategory)
		v1.DELETE("/categories/:id", authed, d.Tickets.DeleteCategory)

		v1.GET("/stats", authed, d.Tickets.Stats)
		v1.GET("/options", authed, d.Tickets.Options)

		v1.POST("/sync", authed, admin, d.Sync.Run)
	}

	return r
}
