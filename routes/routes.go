package routes

import (
	"net/http"

	"forkful/auth"
	"forkful/boards"
	"forkful/hub"
	"forkful/middleware"
	"forkful/ratelim"
	"forkful/recipes"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/uploads/*filepath", http.Dir("static/uploads"))
}

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rl.Limit(auth.Register))
	router.POST("/api/auth/login", rl.Limit(auth.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.Logout))
}

func AddRecipeRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, h *recipes.Handler) {
	router.GET("/api/recipes", middleware.OptionalAuth(h.GetRecipes))
	router.GET("/api/recipes/:id", h.GetRecipe)
	router.POST("/api/recipes", rl.Limit(middleware.Authenticate(h.CreateRecipe)))
	router.DELETE("/api/recipes/:id", middleware.Authenticate(h.DeleteRecipe))
	router.PUT("/api/recipes/:id/boards", middleware.Authenticate(h.SetBoards))
	router.GET("/api/recipes/:id/print", rl.Limit(h.PrintRecipe))
	router.GET("/api/recipes/:id/qr", rl.Limit(h.ShareQR))
}

func AddBoardRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, h *boards.Handler) {
	router.GET("/api/boards", middleware.OptionalAuth(h.GetBoards))
	router.PUT("/api/boards/:id", middleware.Authenticate(h.RenameBoard))
	router.DELETE("/api/boards/:id", middleware.Authenticate(h.DeleteBoard))
}

func AddLiveRoutes(router *httprouter.Router, h *hub.Hub) {
	router.GET("/api/live", hub.ServeWS(h))
}
