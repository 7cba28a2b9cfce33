// Package rest provides HTTP handlers for product-related operations.
package rest

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	perrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/service"
	"github.com/abgdnv/catalog/pkg/web"
	"github.com/go-chi/chi/v5"
)

// Response messages.
const (
	MsgProductNotFound = "Produto não encontrado"
	MsgInvalidBody     = "Corpo da requisição inválido"
	MsgInternalError   = "Erro interno do servidor"
)

const maxBodyBytes = 1 << 20

// Handler serves the product catalog REST API on top of a ProductService.
type Handler struct {
	service service.ProductService
	logger  *slog.Logger
}

// NewHandler creates a new Handler with the provided service.
func NewHandler(service service.ProductService, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the catalog.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.FindAll)
		r.Post("/", h.Create)
		r.Get("/{id}", h.FindByID)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.DeleteByID)
	})

	r.Get("/healthz", h.HealthCheck)
}

// FindAll returns the whole collection.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	mLogger := h.logger
	mLogger.DebugContext(r.Context(), "Received request to find all products")
	list, err := h.service.FindAll(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving product list", "error", err)
		web.RespondMessage(w, mLogger, http.StatusInternalServerError, MsgInternalError)
		return
	}
	if list == nil {
		list = []service.ProductDto{}
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// FindByID retrieves a product by its ID.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.logger
	id, ok := h.parseID(w, r, mLogger)
	if !ok {
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to find product by ID", "ID", id)
	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		h.respondFailure(w, r, mLogger, err, "Error retrieving product", id)
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product", "ID", found.ID, "Name", found.Name)
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

// Create handles the creation of a new product.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	mLogger := h.logger
	var productCreateDto service.ProductCreateDto
	if !h.decode(w, r, mLogger, &productCreateDto, false) {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to create product", "product", productCreateDto)

	newProduct, err := h.service.Create(r.Context(), productCreateDto)
	if err != nil {
		h.respondFailure(w, r, mLogger, err, "Error creating product", 0)
		return
	}
	mLogger.InfoContext(r.Context(), "Product created successfully", "ID", newProduct.ID, "Name", newProduct.Name)
	web.RespondJSON(w, mLogger, http.StatusCreated, newProduct)
}

// Update merges the supplied fields over an existing product.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	mLogger := h.logger
	id, ok := h.parseID(w, r, mLogger)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to update product", "ID", id)
	var productUpdateDto service.ProductUpdateDto
	if !h.decode(w, r, mLogger, &productUpdateDto, true) {
		return
	}

	updated, err := h.service.Update(r.Context(), id, productUpdateDto)
	if err != nil {
		h.respondFailure(w, r, mLogger, err, "Error updating product", id)
		return
	}
	mLogger.InfoContext(r.Context(), "Product updated successfully", "ID", updated.ID, "Name", updated.Name)
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}

// DeleteByID deletes a product by its ID.
func (h *Handler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.logger
	id, ok := h.parseID(w, r, mLogger)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to delete product", "ID", id)
	if err := h.service.DeleteByID(r.Context(), id); err != nil {
		h.respondFailure(w, r, mLogger, err, "Error deleting product", id)
		return
	}
	mLogger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// parseID reads the product id from the path. An id that cannot name any product is reported as not found.
func (h *Handler) parseID(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (int64, bool) {
	id, err := web.ParsePathID(r)
	if err != nil {
		logger.WarnContext(r.Context(), "Invalid product ID", "error", err)
		web.RespondMessage(w, logger, http.StatusNotFound, MsgProductNotFound)
		return 0, false
	}
	return id, true
}

// decode reads the JSON body into dst. With allowEmpty an empty body leaves dst untouched.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, logger *slog.Logger, dst any, allowEmpty bool) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)
	if allowEmpty && errors.Is(err, io.EOF) {
		return true
	}
	if err != nil {
		logger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondErrors(w, logger, http.StatusBadRequest, []string{MsgInvalidBody})
		return false
	}
	return true
}

// respondFailure maps service errors to responses: not found 404, validation 400, anything else 500.
func (h *Handler) respondFailure(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, msg string, id int64) {
	var validationErr *perrors.ValidationError
	switch {
	case errors.Is(err, perrors.ErrProductNotFound):
		logger.WarnContext(r.Context(), "Product not found", "ID", id)
		web.RespondMessage(w, logger, http.StatusNotFound, MsgProductNotFound)
	case errors.As(err, &validationErr):
		logger.WarnContext(r.Context(), "Validation errors occurred", "ID", id, "errors", validationErr.Messages)
		web.RespondErrors(w, logger, http.StatusBadRequest, validationErr.Messages)
	default:
		logger.ErrorContext(r.Context(), msg, "ID", id, "error", err)
		web.RespondMessage(w, logger, http.StatusInternalServerError, MsgInternalError)
	}
}
