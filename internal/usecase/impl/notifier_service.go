package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	deliverycontext "bookmarket/internal/delivery/context"
	domainerrors "bookmarket/internal/domain/errors"
	"bookmarket/internal/domain/repository"
	"bookmarket/internal/domain/service"
	"bookmarket/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// FCM rejects multicast requests above 500 tokens.
const fcmBatchSize = 500

// notifierService implements the NotifierUsecase interface. It runs in the
// worker binary, consuming listing events pushed by Pub/Sub.
type notifierService struct {
	favoriteRepo repository.FavoriteRepository
	deviceRepo   repository.DeviceRepository
	notification service.NotificationService
	logger       *slog.Logger
}

// NotifierServiceParams holds dependencies for NotifierService, injected by Fx.
type NotifierServiceParams struct {
	fx.In

	FavoriteRepo repository.FavoriteRepository
	DeviceRepo   repository.DeviceRepository
	Notification service.NotificationService
	Logger       *slog.Logger
}

// NewNotifierService is the constructor for notifierService.
func NewNotifierService(params NotifierServiceParams) usecase.NotifierUsecase {
	return &notifierService{
		favoriteRepo: params.FavoriteRepo,
		deviceRepo:   params.DeviceRepo,
		notification: params.Notification,
		logger:       params.Logger,
	}
}

func (srv *notifierService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// NotifyNewListing pushes a new-listing notification to every active device
// of every user following the listed book. The seller never gets notified
// about their own listing. Tokens FCM reports as invalid are deactivated so
// the next fanout skips them.
func (srv *notifierService) NotifyNewListing(ctx context.Context, event *service.ListingEvent) (*usecase.NotifyResult, error) {
	if event == nil || event.PostID == 0 || event.BookID == 0 {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("listing event missing post or book id")
	}

	userIDs, err := srv.favoriteRepo.FindUserIDsByBook(ctx, event.BookID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find followers of book")
	}

	recipients := make([]int64, 0, len(userIDs))
	for _, id := range userIDs {
		if id != event.SellerID {
			recipients = append(recipients, id)
		}
	}

	result := &usecase.NotifyResult{Recipients: len(recipients)}
	if len(recipients) == 0 {
		srv.log(ctx).Info("No followers to notify", slog.Int64("bookID", event.BookID))

		return result, nil
	}

	devices, err := srv.deviceRepo.FindActiveDevicesByUsers(ctx, recipients)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find active devices")
	}

	tokens := make([]string, 0, len(devices))
	seen := make(map[string]struct{}, len(devices))
	for _, device := range devices {
		if _, dup := seen[device.FCMToken]; dup {
			continue
		}
		seen[device.FCMToken] = struct{}{}
		tokens = append(tokens, device.FCMToken)
	}

	if len(tokens) == 0 {
		srv.log(ctx).Info("Followers have no active devices", slog.Int64("bookID", event.BookID))

		return result, nil
	}

	title := fmt.Sprintf("New listing: %s", event.BookName)
	body := fmt.Sprintf("A copy you follow is up for sale at $%d", event.Price)
	if event.SellerName != "" {
		body = fmt.Sprintf("%s is selling a copy you follow at $%d", event.SellerName, event.Price)
	}
	data := map[string]string{
		"type":    "listing.created",
		"post_id": strconv.FormatInt(event.PostID, 10),
		"book_id": strconv.FormatInt(event.BookID, 10),
	}

	var invalidTokens []string
	for start := 0; start < len(tokens); start += fcmBatchSize {
		end := min(start+fcmBatchSize, len(tokens))
		batch := tokens[start:end]

		success, failure, invalid, sendErr := srv.notification.SendBatchNotification(ctx, batch, title, body, data)
		if sendErr != nil {
			return nil, errors.Wrap(sendErr, "failed to send batch notification")
		}

		result.TokensSent += len(batch)
		result.Delivered += success
		result.Failed += failure
		invalidTokens = append(invalidTokens, invalid...)
	}

	if len(invalidTokens) > 0 {
		if pruneErr := srv.deviceRepo.DeactivateByFCMTokens(ctx, invalidTokens); pruneErr != nil {
			// Pruning is best effort; the pushes themselves went out.
			srv.log(ctx).Error("Failed to prune invalid FCM tokens", slog.Int("count", len(invalidTokens)), slog.Any("error", pruneErr))
		} else {
			result.TokensPruned = len(invalidTokens)
		}
	}

	srv.log(ctx).Info("Listing fanout complete",
		slog.Int64("postID", event.PostID),
		slog.Int("recipients", result.Recipients),
		slog.Int("delivered", result.Delivered),
		slog.Int("failed", result.Failed),
		slog.Int("pruned", result.TokensPruned),
	)

	return result, nil
}
