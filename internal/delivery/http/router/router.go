// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"bookmarket/internal/delivery/http/middleware"
	"bookmarket/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AccountHandler  *handler.AccountHandler
	BookHandler     *handler.BookHandler
	PostHandler     *handler.PostHandler
	CommentHandler  *handler.CommentHandler
	FavoriteHandler *handler.FavoriteHandler
	DeviceHandler   *handler.DeviceHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	accountHandler  *handler.AccountHandler
	bookHandler     *handler.BookHandler
	postHandler     *handler.PostHandler
	commentHandler  *handler.CommentHandler
	favoriteHandler *handler.FavoriteHandler
	deviceHandler   *handler.DeviceHandler
	authMiddleware  *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		accountHandler:  params.AccountHandler,
		bookHandler:     params.BookHandler,
		postHandler:     params.PostHandler,
		commentHandler:  params.CommentHandler,
		favoriteHandler: params.FavoriteHandler,
		deviceHandler:   params.DeviceHandler,
		authMiddleware:  params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes. The :provider route comes last so the static routes win.
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.accountHandler.Register)
		authGroup.POST("/login", r.accountHandler.Login)
		authGroup.POST("/refresh", r.accountHandler.RefreshToken)
		authGroup.POST("/logout", r.accountHandler.Logout)
		authGroup.POST("/:provider", r.accountHandler.ProviderLogin)
	}

	// Public catalog routes: the mobile client browses without logging in.
	e.GET("/books", r.bookHandler.ListBooks)
	e.GET("/books/:id", r.bookHandler.GetBook)
	e.GET("/books/:id/comments", r.commentHandler.ListByBook)
	e.GET("/books/:id/tags", r.bookHandler.GetBookTags)
	e.GET("/books/:id/qrcode", r.bookHandler.ShareQR)
	e.GET("/comments/:id", r.commentHandler.Get)
	e.GET("/isbn/:isbn", r.bookHandler.GetBookByISBN)
	e.GET("/search", r.bookHandler.SearchBooks)
	e.GET("/tags", r.bookHandler.ListTags)
	e.GET("/tags/:id", r.bookHandler.GetTagBooks)
	e.GET("/tag-name", r.bookHandler.GetTagBooksByName)
	e.GET("/users/:id", r.accountHandler.GetUser)
	e.GET("/users/:id/posts", r.postHandler.ListBySeller)

	// Routes that require an authenticated user.
	authed := e.Group("", r.authMiddleware.Authenticate)
	{
		authed.GET("/profile", r.accountHandler.GetProfile)
		authed.GET("/profile/posts", r.postHandler.ListOwn)

		// Listings render an is_owner flag, so reading them needs a subject.
		authed.GET("/books/:id/posts", r.postHandler.ListByBook)
		authed.POST("/posts", r.postHandler.Create)
		authed.DELETE("/posts/:id", r.postHandler.Delete)

		authed.POST("/books/:id/comments", r.commentHandler.Create)

		authed.GET("/favorites", r.favoriteHandler.ListBooks)
		authed.POST("/favorites/:bookID", r.favoriteHandler.Add)
		authed.DELETE("/favorites/:bookID", r.favoriteHandler.Remove)

		authed.POST("/devices", r.deviceHandler.RegisterDevice)
		authed.GET("/devices", r.deviceHandler.GetUserDevices)
		authed.PUT("/devices/:id/token", r.deviceHandler.UpdateFCMToken)
		authed.DELETE("/devices/:id", r.deviceHandler.DeactivateDevice)
	}
}
