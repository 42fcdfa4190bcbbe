package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/blindys/blindys-backend/internal/handlers"
	"github.com/blindys/blindys-backend/internal/jwtmiddleware"
)

type Deps struct {
	DB           *gorm.DB
	JWTSecret    []byte
	AuthHandler  *handlers.AuthHandler
	UserHandler  *handlers.UserHandler
	TrackHandler *handlers.TrackHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	auth := e.Group("/auth")

	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/logout", d.AuthHandler.Logout)
	auth.POST("/refresh-access-token", d.AuthHandler.RefreshAccessToken)

	users := e.Group("/users", jwtmiddleware.JWTMiddleware(d.JWTSecret))

	users.POST("", d.UserHandler.CreateUser)
	users.GET("", d.UserHandler.GetUsers)
	users.GET("/:id", d.UserHandler.GetUser)
	users.PUT("/:id", d.UserHandler.UpdateUser)
	users.DELETE("/:id", d.UserHandler.DeleteUser)

	tracks := e.Group("/tracks")

	tracks.GET("", d.TrackHandler.GetTracks)
	tracks.GET("/search", d.TrackHandler.Search)
}
