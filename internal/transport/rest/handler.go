// Package rest provides HTTP handlers for product-related operations.
package rest

import (
	"errors"
	"log/slog"
	"net/http"

	perrors "github.com/abgdnv/productos/internal/errors"
	"github.com/abgdnv/productos/internal/service"
	"github.com/abgdnv/productos/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service  service.ProductService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new instance of Handler with the provided service.
func NewHandler(service service.ProductService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the product service.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.FindAll)
		r.Post("/", h.Create)
		r.Get("/prices", h.SortByPrice)
		r.Get("/id/{id}", h.FindByID)
		r.Get("/name/{name}", h.FindByName)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.DeleteByID)
	})

	r.Get("/healthz", h.HealthCheck)
}

// Create handles the creation of a new product.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var product *service.ProductDto
	if !web.DecodeJSON(w, r, h.logger, &product) {
		return
	}
	if product != nil && !web.Validate(w, r, h.logger, h.validate, product) {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to create product", "product", product)

	msg, err := h.service.Create(r.Context(), product)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to create product")
		return
	}
	h.logger.InfoContext(r.Context(), "Product created successfully", "Name", product.Name)
	web.RespondMessage(w, h.logger, http.StatusOK, msg)
}

// FindAll retrieves a list of all products.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.FindAll(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to fetch products")
		return
	}
	h.logger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

// FindByID retrieves a product by its ID.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to retrieve product")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, found)
}

// FindByName retrieves a product by its case-insensitive name.
func (h *Handler) FindByName(w http.ResponseWriter, r *http.Request) {
	name := web.PathParam(r, "name")
	found, err := h.service.FindByName(r.Context(), name)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to retrieve product")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, found)
}

// Update replaces the product identified by the path ID.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	var product *service.ProductDto
	if !web.DecodeJSON(w, r, h.logger, &product) {
		return
	}
	if product != nil && !web.Validate(w, r, h.logger, h.validate, product) {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to update product", "ID", id)

	msg, err := h.service.Update(r.Context(), id, product)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to update product")
		return
	}
	h.logger.InfoContext(r.Context(), "Product updated successfully", "ID", id)
	web.RespondMessage(w, h.logger, http.StatusOK, msg)
}

// DeleteByID deletes a product by its ID.
func (h *Handler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	msg, err := h.service.DeleteByID(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to delete product")
		return
	}
	h.logger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	web.RespondMessage(w, h.logger, http.StatusOK, msg)
}

// SortByPrice lists all products ordered by ascending price.
func (h *Handler) SortByPrice(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.SortByPrice(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to fetch products")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// respondServiceError maps service error kinds to status codes. Unknown errors are
// logged and answered with internalMsg.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error, internalMsg string) {
	switch {
	case errors.Is(err, perrors.ErrBadRequest):
		h.logger.WarnContext(r.Context(), "Bad request", "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, err.Error())
	case errors.Is(err, perrors.ErrNotFound):
		h.logger.WarnContext(r.Context(), "Product not found", "error", err)
		web.RespondError(w, h.logger, http.StatusNotFound, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), internalMsg, "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, internalMsg)
	}
}
