package main

import (
	"context"
	"log/slog"
	"os"

	"bookmarket/config"
	"bookmarket/internal/delivery"
	"bookmarket/internal/delivery/http"
	"bookmarket/internal/delivery/http/middleware"
	"bookmarket/internal/delivery/http/router/handler"
	"bookmarket/internal/domain/service"
	"bookmarket/internal/infra/auth"
	"bookmarket/internal/infra/auth/facebook"
	logs "bookmarket/internal/infra/log"
	"bookmarket/internal/infra/persistence/postgres"
	"bookmarket/internal/infra/pubsub"
	"bookmarket/internal/infra/qrcode"
	"bookmarket/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewUserRepository,
			postgres.NewRefreshTokenRepository,
			postgres.NewTransactionManager,
			postgres.NewBookRepository,
			postgres.NewTagRepository,
			postgres.NewPostRepository,
			postgres.NewCommentRepository,
			postgres.NewFavoriteRepository,
			postgres.NewDeviceRepository,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			newQRCodeService,
			// Each federated provider registers its fetcher into the group;
			// the account service picks one by the :provider path parameter.
			fx.Annotate(
				facebook.NewProfileService,
				fx.ResultTags(`group:"profile_fetchers"`),
			),
		),
		pubsub.Module,
	)
}

// newQRCodeService creates a QR code service with dependency injection
func newQRCodeService(cfg *config.Config) service.QRCodeService {
	if cfg.QRCode == nil {
		// Use default values if not configured
		return qrcode.NewQRCodeService(256, "M")
	}

	return qrcode.NewQRCodeService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAccountService,
			impl.NewCatalogService,
			impl.NewListingService,
			impl.NewCommentService,
			impl.NewFavoriteService,
			impl.NewDeviceService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAccountHandler,
			handler.NewBookHandler,
			handler.NewPostHandler,
			handler.NewCommentHandler,
			handler.NewFavoriteHandler,
			handler.NewDeviceHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
