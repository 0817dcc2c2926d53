package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/bookstore/pkg/logging"
	middleware "github.com/Skotchmaster/bookstore/pkg/middleware/auth"
	"github.com/Skotchmaster/bookstore/services/store/internal/models"
	"github.com/Skotchmaster/bookstore/services/store/internal/repo"
	"github.com/Skotchmaster/bookstore/services/store/internal/service"
	"github.com/Skotchmaster/bookstore/services/store/internal/transport"
	"github.com/Skotchmaster/bookstore/services/store/internal/util"
	"github.com/labstack/echo/v4"
)

type BookHTTP struct {
	Svc     *service.CatalogService
	Reviews *service.ReviewService
}

func (h *BookHTTP) GetBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book.get_book")

	id, ok := util.ParseID(c.Param("id"))
	if !ok {
		return badID(l, "get_book", c.Param("id"))
	}

	book, err := h.Svc.GetBook(ctx, id)
	if err != nil {
		return fail(l, "get_book", err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *BookHTTP) ListBooks(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book.list_books")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, books, err := h.Svc.ListBooks(ctx, repo.BookFilter{
		Category: c.QueryParam("category"),
		Query:    c.QueryParam("q"),
		Sort:     c.QueryParam("sort"),
	}, offset, limit)
	if err != nil {
		return fail(l, "list_books", err)
	}

	l.Info("list_books_success", "total", total)
	return c.JSON(http.StatusOK, util.NewPage(books, page, offset, limit, total))
}

func (h *BookHTTP) SearchBooks(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book.search_books")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, books, err := h.Svc.SearchBooks(ctx, c.QueryParam("q"), offset, limit)
	if err != nil {
		return fail(l, "search_books", err)
	}

	l.Info("search_books_success", "total", total)
	return c.JSON(http.StatusOK, util.NewPage(books, page, offset, limit, total))
}

func (h *BookHTTP) CreateBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book.create_book")

	var req transport.BookRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "create_book", err)
	}

	p, _ := middleware.PrincipalFrom(c)
	book, err := h.Svc.CreateBook(ctx, p, req)
	if err != nil {
		return fail(l, "create_book", err)
	}

	l.Info("create_book_success", "book_id", book.ID)
	return c.JSON(http.StatusCreated, book)
}

func (h *BookHTTP) UpdateBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book.update_book")

	id, ok := util.ParseID(c.Param("id"))
	if !ok {
		return badID(l, "update_book", c.Param("id"))
	}

	var req transport.BookRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "update_book", err)
	}

	p, _ := middleware.PrincipalFrom(c)
	book, err := h.Svc.UpdateBook(ctx, p, id, req)
	if err != nil {
		return fail(l, "update_book", err)
	}

	l.Info("update_book_success", "book_id", id)
	return c.JSON(http.StatusOK, book)
}

func (h *BookHTTP) DeleteBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book.delete_book")

	id, ok := util.ParseID(c.Param("id"))
	if !ok {
		return badID(l, "delete_book", c.Param("id"))
	}

	p, _ := middleware.PrincipalFrom(c)
	if err := h.Svc.DeleteBook(ctx, p, id); err != nil {
		return fail(l, "delete_book", err)
	}

	l.Info("delete_book_success", "book_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *BookHTTP) ListReviews(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book.list_reviews")

	id, ok := util.ParseID(c.Param("id"))
	if !ok {
		return badID(l, "list_reviews", c.Param("id"))
	}

	reviews, err := h.Reviews.ListReviews(ctx, id)
	if err != nil {
		return fail(l, "list_reviews", err)
	}
	return c.JSON(http.StatusOK, reviews)
}

type reviewResponse struct {
	Review *models.Review `json:"review"`
	Rating float64        `json:"rating"`
}

func (h *BookHTTP) AddReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.add_review")

	var req transport.ReviewRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "add_review", err)
	}

	p, _ := middleware.PrincipalFrom(c)
	review, book, err := h.Reviews.AddReview(ctx, p, req)
	if err != nil {
		return fail(l, "add_review", err)
	}

	l.Info("add_review_success", "book_id", book.ID, "rating", book.Rating)
	return c.JSON(http.StatusCreated, reviewResponse{Review: review, Rating: book.Rating})
}
