package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"hotel-reservation/config"
	"hotel-reservation/routes"
	"hotel-reservation/services"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		log.Fatalf("❌ ERROR: %v", err)
	}
	gin.SetMode(settings.GinMode)

	db, err := config.ConnectDatabase(settings)
	if err != nil {
		log.Fatalf("❌ Database connect failed: %v", err)
	}
	log.Printf("✅ Database connection established (%s) and migrations applied.", settings.Database.Driver)

	var mailer services.Mailer = services.NoopMailer{}
	if settings.SMTP.Host != "" {
		mailer = services.NewSMTPMailer(services.SMTPConfig{
			Host:     settings.SMTP.Host,
			Port:     settings.SMTP.Port,
			User:     settings.SMTP.User,
			Password: settings.SMTP.Password,
			From:     settings.SMTP.From,
		})
		log.Printf("✅ Reservation emails via %s:%d", settings.SMTP.Host, settings.SMTP.Port)
	} else {
		log.Println("⚠️  SMTP_HOST not set; reservation emails are disabled")
	}

	router := routes.SetupRouter(routes.Dependencies{
		Reservations: services.NewReservationService(db, mailer),
		RoomTypes:    services.NewRoomTypeService(db),
		Rooms:        services.NewRoomService(db),
		Users:        services.NewUserService(db),
		Tokens:       services.NewTokenService(settings.JWT.Secret, settings.JWT.AccessTTL, settings.JWT.RefreshTTL),
		CORSOrigins:  settings.CORSOrigins,
	})

	addr := ":" + settings.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("⚠️  Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
