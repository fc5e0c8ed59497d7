package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"houseshow-backend/controllers"
	"houseshow-backend/middleware"
	"houseshow-backend/models"
	"houseshow-backend/utils"
)

type Deps struct {
	Bookings    *controllers.BookingController
	Auth        *controllers.AuthController
	PushTokens  *controllers.PushTokenController
	Health      controllers.Pinger
	JWT         *utils.JWTAuthenticator
	RateLimiter *middleware.FixedWindowRateLimiter // nil disables rate limiting
	CORSOrigins []string
	Log         *zap.SugaredLogger
}

func corsConfig(origins []string) cors.Config {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if d.Log != nil {
		r.Use(middleware.Logger(d.Log))
	}
	r.Use(cors.New(corsConfig(d.CORSOrigins)))
	if d.RateLimiter != nil {
		r.Use(middleware.RateLimit(d.RateLimiter))
	}

	r.GET("/health", controllers.Health(d.Health))

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", d.Auth.Register)
			auth.POST("/login", d.Auth.Login)
		}

		authed := api.Group("", middleware.RequireActor(d.JWT))

		bookings := authed.Group("/bookings")
		{
			bookings.GET("", d.Bookings.GetBookings)
			bookings.POST("", middleware.RequireRole(models.RoleArtist), d.Bookings.CreateBooking)
			bookings.GET("/:id", d.Bookings.GetBooking)
			bookings.GET("/:id/events", d.Bookings.GetBookingEvents)
			bookings.POST("/:id/respond", middleware.RequireRole(models.RoleHost), d.Bookings.RespondBooking)
			bookings.POST("/:id/door-fee/resolve", d.Bookings.ResolveDoorFee)
			bookings.POST("/:id/door-fee/counter", d.Bookings.CounterDoorFee)
			bookings.POST("/:id/confirm", middleware.RequireRole(models.RoleArtist), d.Bookings.ConfirmBooking)
			bookings.POST("/:id/cancel", d.Bookings.CancelBooking)
		}

		admin := authed.Group("/admin", middleware.RequireRole(models.RoleAdmin))
		{
			admin.POST("/bookings/:id/complete", d.Bookings.CompleteBooking)
		}

		pushTokens := authed.Group("/push-tokens")
		{
			pushTokens.POST("", d.PushTokens.RegisterToken)
			pushTokens.DELETE("", d.PushTokens.RemoveToken)
		}
	}

	return r
}
