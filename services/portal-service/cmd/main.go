package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"google.golang.org/grpc"

	"github.com/vasapolrittideah/appointment-portal/services/portal-service/internal/config"
	"github.com/vasapolrittideah/appointment-portal/services/portal-service/internal/handler"
	"github.com/vasapolrittideah/appointment-portal/services/portal-service/internal/repository"
	"github.com/vasapolrittideah/appointment-portal/services/portal-service/internal/repository/memory"
	"github.com/vasapolrittideah/appointment-portal/services/portal-service/internal/session"
	"github.com/vasapolrittideah/appointment-portal/services/portal-service/internal/usecase"
	"github.com/vasapolrittideah/appointment-portal/shared/auth"
	"github.com/vasapolrittideah/appointment-portal/shared/discovery"
	"github.com/vasapolrittideah/appointment-portal/shared/logger"
	"github.com/vasapolrittideah/appointment-portal/shared/mailer"
	"github.com/vasapolrittideah/appointment-portal/shared/security"
	"github.com/vasapolrittideah/appointment-portal/shared/utilities"
	"github.com/vasapolrittideah/appointment-portal/shared/validation"
)

type repositories struct {
	users        repository.UserRepository
	appointments repository.AppointmentRepository
	sessions     repository.SessionRepository
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootstrap := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootstrap.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(cfg.Log, cfg.ServiceName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, closeStore := openRepositories(ctx, cfg, log)
	defer closeStore()

	var notifier usecase.Notifier
	if cfg.Notification.Driver == "log" {
		notifier = mailer.NewLogMailer(log)
	} else {
		notifier = mailer.NewMailer(log)
	}

	validator, err := validation.New()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create validator")
	}

	sessions := session.NewManager(
		repos.sessions,
		auth.NewSessionTokenSigner(cfg.Session.Secret, cfg.Session.Issuer, cfg.Session.Audience),
		cfg.Session.TTL,
		log,
	)

	h := handler.NewHandler(
		usecase.NewIdentityUsecase(repos.users, security.DefaultHasher(), notifier, nil),
		usecase.NewAppointmentUsecase(repos.appointments, notifier),
		sessions,
		validator,
		handler.CookieConfig{Name: cfg.Session.CookieName, Secure: cfg.Session.CookieSecure},
		log,
	)

	router := handler.NewRouter(
		h,
		handler.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		handler.RouterConfig{RequestTimeout: cfg.HTTP.RequestTimeout, TrustProxy: cfg.HTTP.TrustProxy},
	)

	httpServer := &http.Server{
		Addr:              net.JoinHostPort(cfg.HTTP.Host, strconv.Itoa(cfg.HTTP.Port)),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer := grpc.NewServer()
	healthServer := utilities.RegisterHealthServer(grpcServer, cfg.ServiceName)

	healthListener, err := net.Listen("tcp", net.JoinHostPort(cfg.HTTP.Host, strconv.Itoa(cfg.HTTP.HealthPort)))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to listen on health port")
	}

	errCh := make(chan error, 2)
	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("http server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		log.Info().Str("addr", healthListener.Addr().String()).Msg("grpc health server listening")
		if err := grpcServer.Serve(healthListener); err != nil {
			errCh <- err
		}
	}()

	deregister := registerWithConsul(cfg, log)
	defer deregister()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown requested")
	case err := <-errCh:
		log.Error().Err(err).Msg("server error")
	}

	healthServer.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to shut down http server")
	}
	grpcServer.GracefulStop()

	log.Info().Msg("server stopped")
}

func openRepositories(ctx context.Context, cfg *config.PortalServiceConfig, log *zerolog.Logger) (repositories, func()) {
	if cfg.UseMemoryStore() {
		log.Warn().Msg("MONGO_URI not set, using in-memory store")
		store := memory.NewStore()
		return repositories{users: store, appointments: store, sessions: store}, func() {}
	}

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		log.Fatal().Err(err).Msg("failed to ping MongoDB")
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")

	db := client.Database(cfg.Mongo.Database)
	repos := repositories{
		users:        repository.NewUserMongoRepository(ctx, log, db),
		appointments: repository.NewAppointmentMongoRepository(ctx, log, db),
		sessions:     repository.NewSessionMongoRepository(ctx, log, db),
	}

	return repos, func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}
}

func registerWithConsul(cfg *config.PortalServiceConfig, log *zerolog.Logger) func() {
	if cfg.Consul.Address == "" {
		return func() {}
	}

	registry, err := discovery.NewConsulRegistry(cfg.Consul.Address)
	if err != nil {
		log.Error().Err(err).Msg("failed to create consul registry")
		return func() {}
	}

	serviceID := cfg.Consul.ServiceID
	if serviceID == "" {
		serviceID = cfg.ServiceName + "-" + uuid.NewString()
	}

	err = registry.Register(discovery.Registration{
		ID:              serviceID,
		Name:            cfg.ServiceName,
		Address:         cfg.Consul.ServiceAddress,
		Port:            cfg.HTTP.Port,
		HealthCheckPort: cfg.HTTP.HealthPort,
		Tags:            []string{"http"},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to register with consul")
		return func() {}
	}
	log.Info().Str("service_id", serviceID).Msg("registered with consul")

	return func() {
		if err := registry.Deregister(serviceID); err != nil {
			log.Error().Err(err).Msg("failed to deregister from consul")
		}
	}
}
