package impl

import (
	"context"
	"log/slog"

	"bookmarket/config"
	deliverycontext "bookmarket/internal/delivery/context"
	"bookmarket/internal/domain/entity"
	domainerrors "bookmarket/internal/domain/errors"
	"bookmarket/internal/domain/repository"
	"bookmarket/internal/domain/service"
	"bookmarket/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// catalogService implements the CatalogUsecase interface.
type catalogService struct {
	bookRepo     repository.BookRepository
	tagRepo      repository.TagRepository
	qrService    service.QRCodeService
	itemsPerPage int
	logger       *slog.Logger
}

// CatalogServiceParams holds dependencies for CatalogService, injected by Fx.
type CatalogServiceParams struct {
	fx.In

	BookRepo  repository.BookRepository
	TagRepo   repository.TagRepository
	QRService service.QRCodeService
	Config    *config.Config
	Logger    *slog.Logger
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(params CatalogServiceParams) usecase.CatalogUsecase {
	itemsPerPage := 10
	if params.Config != nil && params.Config.Catalog != nil && params.Config.Catalog.ItemsPerPage > 0 {
		itemsPerPage = params.Config.Catalog.ItemsPerPage
	}

	return &catalogService{
		bookRepo:     params.BookRepo,
		tagRepo:      params.TagRepo,
		qrService:    params.QRService,
		itemsPerPage: itemsPerPage,
		logger:       params.Logger,
	}
}

func (srv *catalogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListBooks retrieves one page of the catalog. An unknown sort value falls
// back to sale ordering rather than erroring, matching the mobile client's
// loose query building.
func (srv *catalogService) ListBooks(ctx context.Context, page int, sort string) ([]*entity.Book, error) {
	if page < 1 {
		page = 1
	}

	bookSort := repository.BookSortBySale
	if sort == string(repository.BookSortByComment) {
		bookSort = repository.BookSortByComment
	}

	books, err := srv.bookRepo.List(ctx, page, srv.itemsPerPage, bookSort)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list books")
	}

	return books, nil
}

// GetBook retrieves a single book with its tags and counts.
func (srv *catalogService) GetBook(ctx context.Context, id int64) (*entity.Book, error) {
	book, err := srv.bookRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return nil, domainerrors.ErrBookNotFound.WrapMessage("book not found")
		}

		return nil, errors.Wrap(err, "failed to find book")
	}

	return book, nil
}

// GetBookByISBN retrieves a single book by ISBN.
func (srv *catalogService) GetBookByISBN(ctx context.Context, isbn string) (*entity.Book, error) {
	book, err := srv.bookRepo.FindByISBN(ctx, isbn)
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return nil, domainerrors.ErrBookNotFound.WrapMessage("no book with this isbn")
		}

		return nil, errors.Wrap(err, "failed to find book by isbn")
	}

	return book, nil
}

// SearchBooks retrieves books whose title or author matches the query.
func (srv *catalogService) SearchBooks(ctx context.Context, query string, page int) ([]*entity.Book, error) {
	if page < 1 {
		page = 1
	}

	books, err := srv.bookRepo.Search(ctx, query, page, srv.itemsPerPage)
	if err != nil {
		return nil, errors.Wrap(err, "failed to search books")
	}

	return books, nil
}

// ListTags retrieves every catalog tag.
func (srv *catalogService) ListTags(ctx context.Context) ([]*entity.Tag, error) {
	tags, err := srv.tagRepo.ListAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tags")
	}

	return tags, nil
}

// GetTagBooks retrieves a tag and all books carrying it.
func (srv *catalogService) GetTagBooks(ctx context.Context, tagID int64) (*usecase.TagBooksOutput, error) {
	tag, err := srv.tagRepo.FindByID(ctx, tagID)
	if err != nil {
		if errors.Is(err, repository.ErrTagNotFound) {
			return nil, domainerrors.ErrTagNotFound.WrapMessage("tag not found")
		}

		return nil, errors.Wrap(err, "failed to find tag")
	}

	books, err := srv.bookRepo.FindByTagID(ctx, tagID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find books by tag")
	}

	return &usecase.TagBooksOutput{
		Tag:   tag,
		Books: books,
	}, nil
}

// GetTagBooksByName retrieves all books carrying the named tag.
func (srv *catalogService) GetTagBooksByName(ctx context.Context, name string) ([]*entity.Book, error) {
	books, err := srv.bookRepo.FindByTagName(ctx, name)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find books by tag name")
	}

	return books, nil
}

// GetBookTags retrieves the tag names attached to a book.
func (srv *catalogService) GetBookTags(ctx context.Context, bookID int64) ([]string, error) {
	if _, err := srv.bookRepo.FindByID(ctx, bookID); err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return nil, domainerrors.ErrBookNotFound.WrapMessage("book not found")
		}

		return nil, errors.Wrap(err, "failed to find book")
	}

	names, err := srv.tagRepo.FindNamesByBook(ctx, bookID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find tag names by book")
	}

	return names, nil
}

// BookShareQR renders a PNG QR code encoding the book's share link.
func (srv *catalogService) BookShareQR(ctx context.Context, bookID int64) ([]byte, error) {
	if _, err := srv.bookRepo.FindByID(ctx, bookID); err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return nil, domainerrors.ErrBookNotFound.WrapMessage("book not found")
		}

		return nil, errors.Wrap(err, "failed to find book")
	}

	png, err := srv.qrService.GenerateBookShareQR(bookID)
	if err != nil {
		srv.log(ctx).Error("Failed to generate share QR", slog.Int64("bookID", bookID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to generate share QR")
	}

	return png, nil
}
