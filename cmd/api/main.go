package main

import (
	"context"
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"swingbay/internal/config"
	"swingbay/internal/database"
	"swingbay/internal/domain/booking"
	"swingbay/internal/domain/catalog"
	"swingbay/internal/domain/holding"
	"swingbay/internal/domain/member"
	"swingbay/internal/domain/monitor"
	"swingbay/internal/domain/ticket"
	"swingbay/internal/middleware"
	"swingbay/internal/pkg/events"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewStdLogger(false, false),
	)
	publisher := events.NewPublisher(pubSub)

	bookingService := booking.NewService(db, publisher)
	ticketService := ticket.NewService(db, bookingService, publisher)
	holdingService := holding.NewService(db)
	memberService := member.NewService(db)
	catalogRepo := catalog.NewRepository(db)

	hub := monitor.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		err := monitor.Consume(ctx, pubSub, hub,
			events.TopicBookingCreated,
			events.TopicBookingCancelled,
			events.TopicTicketIssued,
		)
		if err != nil && ctx.Err() == nil {
			log.Printf("monitor consumer stopped: %v", err)
		}
	}()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middleware.CORS(), middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		member.RegisterRoutes(v1, member.NewHandler(memberService))
		catalog.RegisterRoutes(v1, catalog.NewHandler(catalogRepo))
		ticket.RegisterRoutes(v1, ticket.NewHandler(ticketService))
		holding.RegisterRoutes(v1, holding.NewHandler(holdingService))
		booking.RegisterRoutes(v1, booking.NewHandler(bookingService))
	}
	r.GET("/ws/monitor", monitor.NewHandler(hub).HandleWebSocket)

	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
