package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "speed-backend/internal/config"
	intdb "speed-backend/internal/db"
	router "speed-backend/internal/http"
	"speed-backend/internal/http/handlers"
	"speed-backend/internal/repositories"
	"speed-backend/internal/services"
	"speed-backend/internal/storage"
	"speed-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}
	if err := utils.InitLogger(env.LogMode); err != nil {
		panic(err)
	}
	defer utils.SyncLogger()
	log := utils.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := buildDependencies(ctx, env)
	if err != nil {
		log.Fatalw("gagal menyiapkan dependensi", "error", err)
	}
	defer intconfig.CloseDB()
	defer intconfig.CloseRedis()

	tracker := services.NewLocationTracker(deps.Roster, env.LocationInterval)
	deps.Tracker = tracker
	defer tracker.StopAll()

	r := router.NewRouter(env, deps)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infow("server berjalan", "addr", env.AppAddr, "store", env.Store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("mematikan server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Errorw("server berhenti dengan error", "error", err)
		return
	}
	log.Info("server berhenti dengan aman.")
}

func buildDependencies(ctx context.Context, env intconfig.Env) (handlers.Dependencies, error) {
	deps := handlers.Dependencies{
		Documents: storage.NewFileStore(env.UploadDir, env.MaxUploadBytes),
	}

	switch env.Store {
	case intconfig.StoreMemory:
		store := repositories.NewMemoryVerificationStore()
		users := repositories.NewMemoryUserRepository()
		deps.Store = store
		deps.Users = users
		deps.Roster = repositories.NewMemoryDriverRepository(users, store)
	default:
		db, err := intconfig.ConnectDB(env.DBDSN)
		if err != nil {
			return deps, err
		}
		if err := intdb.EnsureSchema(ctx, db); err != nil {
			return deps, err
		}
		deps.DB = db
		deps.Store = repositories.VerificationRepository{DB: db}
		deps.Users = repositories.UserRepository{DB: db}
		deps.Roster = repositories.DriverRepository{DB: db}
	}

	if env.RedisAddr != "" {
		rdb, err := intconfig.ConnectRedis(env.RedisAddr)
		if err != nil {
			return deps, err
		}
		deps.Notifier = services.NewRedisNotifier(rdb, env.NotificationTTL)
	} else {
		deps.Notifier = services.NewMemoryNotifier(env.NotificationTTL)
	}
	return deps, nil
}
