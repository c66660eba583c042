package routes

import (
	"fitroom/controllers"
	"fitroom/middlewares"
	"fitroom/services"

	"github.com/gin-gonic/gin"
)

// Deps carries the constructed controllers and the auth service the router
// wires together. Summary may be nil when the summarizer is not configured.
type Deps struct {
	Auth    *services.AuthService
	Users   *controllers.AuthController
	Profile *controllers.ProfileController
	Trials  *controllers.TrialController
	Gemini  *controllers.GeminiController
	Summary *controllers.SummaryController
}

func SetupRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.Logger())
	r.Use(middlewares.CORS())

	r.POST("/register", deps.Users.Register)
	r.POST("/login", deps.Users.Login)

	authed := r.Group("/", middlewares.Session(deps.Auth))

	authed.GET("/trials", deps.Trials.List)
	authed.POST("/trials", deps.Trials.Create)
	authed.GET("/trials/:id", deps.Trials.Get)
	authed.PUT("/trials/:id", deps.Trials.Update)
	authed.DELETE("/trials/:id", deps.Trials.Delete)

	authed.GET("/profile", deps.Profile.Get)
	authed.POST("/profile", deps.Profile.Update)

	authed.POST("/gemini/generate", deps.Gemini.Generate)
	authed.POST("/gemini/describe", deps.Gemini.Describe)

	if deps.Summary != nil {
		authed.POST("/trials/:id/summary", deps.Summary.Create)
		authed.GET("/trials/:id/summary", deps.Summary.Latest)
	}

	return r
}
