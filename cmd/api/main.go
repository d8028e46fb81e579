package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/GitAbdalla/booking-system/internal/app"
	"github.com/GitAbdalla/booking-system/internal/auth"
	"github.com/GitAbdalla/booking-system/internal/clock"
	"github.com/GitAbdalla/booking-system/internal/config"
	"github.com/GitAbdalla/booking-system/internal/domain"
	"github.com/GitAbdalla/booking-system/internal/storage/postgres"
	transporthttp "github.com/GitAbdalla/booking-system/internal/transport/http"
	"github.com/GitAbdalla/booking-system/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := log.Default()

	if err := godotenv.Load(); err != nil {
		logger.Printf("WARN: no .env file loaded: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect to db: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		log.Fatalf("db ping: %v", err)
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	clk := clock.NewSystem()
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL())

	bookingRepo := postgres.NewBookingRepository(pool)
	bookingSvc := app.NewBookingService(bookingRepo, clk)
	classRepo := postgres.NewClassRepository(pool)
	classSvc := app.NewClassService(classRepo, clk)
	userRepo := postgres.NewUserRepository(pool)
	userSvc := app.NewUserService(userRepo, bookingRepo)
	authSvc := app.NewAuthService(userRepo, tokens, clk)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", transporthttp.HealthHandler)
	mux.Handle("/auth/register", transporthttp.HandleRegister(authSvc))
	mux.Handle("/auth/login", transporthttp.HandleLogin(authSvc))
	mux.Handle("/users", transporthttp.RequireAuth(tokens, transporthttp.RequireRole(domain.RoleAdmin, transporthttp.HandleUsers(userSvc))))
	mux.Handle("/users/", transporthttp.RequireAuth(tokens, transporthttp.HandleUserSubroutes(userSvc)))
	mux.Handle("/classes", transporthttp.HandleClasses(classSvc, tokens))
	mux.Handle("/classes/", transporthttp.HandleClassSubroutes(classSvc))
	mux.Handle("/bookings", transporthttp.RequireAuth(tokens, transporthttp.HandleBookings(bookingSvc)))
	mux.Handle("/bookings/", transporthttp.RequireAuth(tokens, transporthttp.HandleBookingSubroutes(bookingSvc)))
	mux.Handle("/", transporthttp.NotFoundHandler())

	corsOrigins := parseCSV(cfg.CORSOrigins)
	handler := transporthttp.RequestLogger(transporthttp.CORS(corsOrigins, mux), logger)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	log.Printf("api listening on :%s", cfg.Port)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server error: %v", err)
		}
	case <-stopCtx.Done():
		log.Printf("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("server shutdown error: %v", err)
	}
	log.Printf("server stopped")
}

func parseCSV(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
