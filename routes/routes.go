package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"hotel-reservation/controllers"
	"hotel-reservation/middleware"
	"hotel-reservation/services"
)

// Dependencies are the services the router wires into controllers.
type Dependencies struct {
	Reservations *services.ReservationService
	RoomTypes    *services.RoomTypeService
	Rooms        *services.RoomService
	Users        *services.UserService
	Tokens       *services.TokenService
	CORSOrigins  []string
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
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}
}

func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())
	r.Use(cors.New(corsConfig(deps.CORSOrigins)))

	rc := controllers.NewReservationController(deps.Reservations)
	rtc := controllers.NewRoomTypeController(deps.RoomTypes)
	roc := controllers.NewRoomController(deps.Rooms)
	uc := controllers.NewUserController(deps.Users)
	ac := controllers.NewAuthController(deps.Users, deps.Tokens)
	roleC := controllers.NewRoleController(deps.Users)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// public
	api.POST("/register", ac.Register)
	api.POST("/token", ac.Login)
	api.POST("/token/refresh", ac.Refresh)

	authed := api.Group("", middleware.Authenticate(deps.Tokens, deps.Users))
	can := middleware.RequirePermission

	users := authed.Group("/users")
	{
		users.GET("", can(services.UsersList), uc.GetUsers)
		users.POST("", can(services.UsersCreate), uc.CreateUser)
		users.GET("/:id", can(services.UsersRetrieve), uc.GetUser)
		users.PUT("/:id", can(services.UsersUpdate), uc.UpdateUser)
		users.PATCH("/:id", can(services.UsersUpdate), uc.UpdateUser)
		users.DELETE("/:id", can(services.UsersDelete), uc.DeleteUser)
	}

	authed.GET("/roles", can(services.RolesList), roleC.GetRoles)

	roomTypes := authed.Group("/roomtypes")
	{
		roomTypes.GET("", can(services.RoomTypesList), rtc.GetRoomTypes)
		roomTypes.POST("", can(services.RoomTypesCreate), rtc.CreateRoomType)
		roomTypes.GET("/:id", can(services.RoomTypesRetrieve), rtc.GetRoomType)
		roomTypes.PUT("/:id", can(services.RoomTypesUpdate), rtc.UpdateRoomType)
		roomTypes.PATCH("/:id", can(services.RoomTypesUpdate), rtc.UpdateRoomType)
		roomTypes.DELETE("/:id", can(services.RoomTypesDelete), rtc.DeleteRoomType)
	}

	rooms := authed.Group("/rooms")
	{
		rooms.GET("", can(services.RoomsList), roc.GetRooms)
		rooms.POST("", can(services.RoomsCreate), roc.CreateRoom)
		rooms.GET("/:id", can(services.RoomsRetrieve), roc.GetRoom)
		rooms.PUT("/:id", can(services.RoomsUpdate), roc.UpdateRoom)
		rooms.PATCH("/:id", can(services.RoomsUpdate), roc.UpdateRoom)
		rooms.DELETE("/:id", can(services.RoomsDelete), roc.DeleteRoom)
	}

	authed.POST("/reservation", can(services.ReservationsCreate), rc.CreateReservation)

	reservations := authed.Group("/reservations")
	{
		reservations.GET("", can(services.ReservationsList), rc.GetReservations)
		// must be registered before /:id
		reservations.GET("/export", can(services.ReservationsExport), rc.ExportReservations)
		reservations.GET("/:id", can(services.ReservationsRetrieve), rc.GetReservation)
		reservations.DELETE("/:id", can(services.ReservationsDelete), rc.DeleteReservation)
	}

	authed.PUT("/updatereservationdates/:id", can(services.ReservationsUpdateDates), rc.UpdateReservationDates)
	authed.PATCH("/updatereservationdates/:id", can(services.ReservationsUpdateDates), rc.UpdateReservationDates)
	authed.PUT("/updatereservationroom/:id", can(services.ReservationsUpdateRoom), rc.UpdateReservationRoom)
	authed.PATCH("/updatereservationroom/:id", can(services.ReservationsUpdateRoom), rc.UpdateReservationRoom)

	return r
}
