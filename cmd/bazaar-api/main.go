// README: Service entrypoint; wires config, infra, modules and the HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"bazaar/internal/ai"
	"bazaar/internal/config"
	bazaarhttp "bazaar/internal/http"
	"bazaar/internal/http/handlers"
	"bazaar/internal/infra"
	"bazaar/internal/logger"
	"bazaar/internal/maps"
	"bazaar/internal/media"
	"bazaar/internal/modules/booking"
	"bazaar/internal/modules/catalog"
	"bazaar/internal/modules/pricing"
	"bazaar/internal/modules/user"
	"bazaar/internal/modules/worker"
	"bazaar/internal/notify"
	"bazaar/internal/types"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		panic(err)
	}
	defer zap.L().Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := infra.Migrate(cfg.DBDSN); err != nil {
		zap.L().Fatal("migrating database", zap.Error(err))
	}
	pool, err := infra.NewDB(ctx, cfg.DBDSN)
	if err != nil {
		zap.L().Fatal("connecting to postgres", zap.Error(err))
	}
	defer pool.Close()

	rdb := infra.NewRedis(cfg.RedisAddr)
	defer rdb.Close()

	fb, err := infra.NewFirebase(ctx, cfg.Firebase)
	if err != nil {
		zap.L().Fatal("initializing firebase", zap.Error(err))
	}

	var mapsClient *maps.Client
	if cfg.MapsAPIKey != "" {
		mapsClient, err = maps.NewClient(cfg.MapsAPIKey)
		if err != nil {
			zap.L().Fatal("initializing maps client", zap.Error(err))
		}
	}

	var assistant ai.Assistant
	if cfg.GeminiAPIKey != "" {
		assistant, err = ai.NewGemini(ctx, cfg.GeminiAPIKey)
		if err != nil {
			zap.L().Fatal("initializing gemini client", zap.Error(err))
		}
		defer assistant.Close()
	}

	userSvc := user.NewService(user.NewStore(pool))
	catalogSvc := catalog.NewService(catalog.NewStore(pool))
	workerSvc := worker.NewService(worker.NewStore(rdb), userSvc)
	notifier := notify.NewService(fb, userSvc)

	var distance pricing.DistanceProvider
	if mapsClient != nil {
		distance = mapsClient
	}
	pricingSvc := pricing.NewService(pricing.NewStore(pool), distance)

	bookingOpts := []booking.Option{
		booking.WithNotifier(notifier),
		booking.WithCurrency(cfg.Currency),
		booking.WithDispatch(booking.DispatchSettings{
			Warehouse: types.Place{
				Address: cfg.Dispatch.WarehouseAddress,
				Position: types.Point{
					Lat: cfg.Dispatch.WarehouseLat,
					Lng: cfg.Dispatch.WarehouseLng,
				},
			},
			Fee: types.Money{Amount: cfg.Dispatch.FeeCents, Currency: cfg.Currency},
		}),
	}
	if mapsClient != nil {
		bookingOpts = append(bookingOpts, booking.WithGeocoder(mapsClient))
	}
	bookingSvc := booking.NewService(
		booking.NewStore(pool),
		pricingSvc,
		catalogReader{catalogSvc},
		bookingOpts...,
	)

	go bookingSvc.RunPendingExpirer(ctx, time.Duration(cfg.PendingTTLMins)*time.Minute)

	router := bazaarhttp.NewRouter(fb, bazaarhttp.Handlers{
		Booking: handlers.NewBookingHandler(bookingSvc),
		Admin:   handlers.NewAdminHandler(bookingSvc, workerSvc, userSvc, cfg.SuggestRadiusKm),
		Worker:  handlers.NewWorkerHandler(bookingSvc, workerSvc, userSvc),
		Catalog: handlers.NewCatalogHandler(catalogSvc, cfg.Currency),
		User:    handlers.NewUserHandler(userSvc),
		Media:   handlers.NewMediaHandler(media.NewService(fb)),
		Assist:  handlers.NewAssistHandler(bookingSvc, assistant),
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}
	go func() {
		zap.L().Info("listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zap.L().Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("graceful shutdown", zap.Error(err))
	}
}

// catalogReader adapts the catalog service to the booking module's reader
// contract without coupling the two packages.
type catalogReader struct {
	svc *catalog.Service
}

func (r catalogReader) Item(ctx context.Context, id types.ID) (booking.CatalogItem, error) {
	it, err := r.svc.Get(ctx, id)
	if err != nil {
		return booking.CatalogItem{}, err
	}
	return booking.CatalogItem{
		ID:      it.ID,
		Name:    it.Name,
		Price:   it.Price,
		InStock: it.InStock,
	}, nil
}
