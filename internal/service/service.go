// Package service provides the implementation of product-related business logic.
package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	perrors "github.com/abgdnv/productos/internal/errors"
	"github.com/abgdnv/productos/internal/events"
	"github.com/abgdnv/productos/internal/store"
	"github.com/abgdnv/productos/internal/store/db"
	"github.com/abgdnv/productos/pkg/messaging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	MsgCreated       = "Producto creado exitosamente"
	MsgUpdated       = "Producto actualizado correctamente"
	MsgInvalid       = "El producto no cumple los requisitos para ser guardado"
	MsgNotFound      = "No se pudo encontrar el producto"
	MsgInvalidID     = "ID inválido"
	msgDuplicateName = "Ya existe un producto con el nombre: %s"
	msgDeleted       = "Producto con ID: %d eliminado correctamente"
	msgDeleteMissing = "No se pudo encontrar el producto con ID: %d"
)

// maxNameLength matches the products.name column.
const maxNameLength = 100

// ProductService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// Create adds a new product. Any ID in the payload is ignored.
	// Returns a BadRequest error for a nil or invalid product or a duplicate name.
	Create(ctx context.Context, product *ProductDto) (string, error)

	// FindAll returns all products in store order.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]ProductDto, error)

	// FindByID retrieves a single product by its unique identifier.
	// Returns a NotFound error if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*ProductDto, error)

	// FindByName retrieves a single product by its name, ignoring case.
	// Returns a NotFound error if no product has the given name.
	FindByName(ctx context.Context, name string) (*ProductDto, error)

	// Update replaces every field of the product with the given ID.
	// Returns a NotFound error if the ID does not exist and a BadRequest error for an invalid payload.
	Update(ctx context.Context, id int64, product *ProductDto) (string, error)

	// DeleteByID removes a product by its ID.
	// Returns a NotFound error if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int64) (string, error)

	// SortByPrice returns all products ordered by ascending price.
	SortByPrice(ctx context.Context) ([]ProductDto, error)
}

var _ ProductService = (*Service)(nil)

// Service implements ProductService and provides methods to manage products.
type Service struct {
	store        store.ProductStore
	publisher    messaging.Publisher
	logger       *slog.Logger
	writeCounter metric.Int64Counter
}

// NewService creates a new instance of ProductService with the provided store and event publisher.
func NewService(productStore store.ProductStore, publisher messaging.Publisher, logger *slog.Logger) *Service {
	meter := otel.Meter("product-service")
	writeCounter, err := meter.Int64Counter("product_writes", metric.WithDescription("Total number of product writes by operation"))
	if err != nil {
		panic(fmt.Sprintf("failed to create product_writes counter: %v", err))
	}
	if publisher == nil {
		publisher = messaging.NoopPublisher{}
	}
	return &Service{
		store:        productStore,
		publisher:    publisher,
		logger:       logger.With("component", "service"),
		writeCounter: writeCounter,
	}
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"        validate:"required,max=100"`
	Description string  `json:"description"`
	Price       float64 `json:"price"       validate:"min=0"`
	Stock       int32   `json:"stock"       validate:"min=0"`
}

// Create validates and stores a new product.
func (s *Service) Create(ctx context.Context, product *ProductDto) (string, error) {
	if !isValid(product) {
		return "", perrors.BadRequest(MsgInvalid)
	}

	_, err := s.store.FindByName(ctx, product.Name)
	switch {
	case err == nil:
		return "", duplicateName(product.Name)
	case !errors.Is(err, perrors.ErrProductNotFound):
		return "", fmt.Errorf("failed to check product name %q: %w", product.Name, err)
	}

	toSave := toModel(product)
	toSave.ID = 0
	created, err := s.store.Save(ctx, toSave)
	if err != nil {
		if errors.Is(err, perrors.ErrNameTaken) {
			return "", duplicateName(product.Name)
		}
		return "", fmt.Errorf("failed to create product: %w", err)
	}

	s.publish(ctx, events.ProductCreatedEvent{
		ID:         created.ID,
		Name:       created.Name,
		Price:      created.Price,
		Stock:      created.Stock,
		OccurredAt: time.Now().UTC(),
	})
	s.writeCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "create")))

	return MsgCreated, nil
}

// FindAll retrieves all products and returns them as ProductDTOs.
func (s *Service) FindAll(ctx context.Context) ([]ProductDto, error) {
	products, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return toDtos(products), nil
}

// FindByID retrieves a product by its ID and returns it as a ProductDto.
func (s *Service) FindByID(ctx context.Context, id int64) (*ProductDto, error) {
	product, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, perrors.ErrProductNotFound) {
			return nil, perrors.NotFound(MsgNotFound)
		}
		return nil, fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}
	return toDto(product), nil
}

// FindByName retrieves a product by its case-insensitive name.
func (s *Service) FindByName(ctx context.Context, name string) (*ProductDto, error) {
	product, err := s.store.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, perrors.ErrProductNotFound) {
			return nil, perrors.NotFound(MsgNotFound)
		}
		return nil, fmt.Errorf("failed to fetch product by name %q: %w", name, err)
	}
	return toDto(product), nil
}

// Update replaces the stored product with the payload, forcing the payload ID to id.
func (s *Service) Update(ctx context.Context, id int64, product *ProductDto) (string, error) {
	if _, err := s.store.FindByID(ctx, id); err != nil {
		if errors.Is(err, perrors.ErrProductNotFound) {
			return "", perrors.NotFound(MsgInvalidID)
		}
		return "", fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}
	if !isValid(product) {
		return "", perrors.BadRequest(MsgInvalid)
	}

	owner, err := s.store.FindByName(ctx, product.Name)
	switch {
	case err == nil && owner.ID != id:
		return "", duplicateName(product.Name)
	case err != nil && !errors.Is(err, perrors.ErrProductNotFound):
		return "", fmt.Errorf("failed to check product name %q: %w", product.Name, err)
	}

	toSave := toModel(product)
	toSave.ID = id
	updated, err := s.store.Save(ctx, toSave)
	if err != nil {
		switch {
		case errors.Is(err, perrors.ErrNameTaken):
			return "", duplicateName(product.Name)
		case errors.Is(err, perrors.ErrProductNotFound):
			return "", perrors.NotFound(MsgInvalidID)
		}
		return "", fmt.Errorf("failed to update product with ID %d: %w", id, err)
	}

	s.publish(ctx, events.ProductUpdatedEvent{
		ID:         updated.ID,
		Name:       updated.Name,
		Price:      updated.Price,
		Stock:      updated.Stock,
		OccurredAt: time.Now().UTC(),
	})
	s.writeCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "update")))

	return MsgUpdated, nil
}

// DeleteByID deletes a product by its ID.
func (s *Service) DeleteByID(ctx context.Context, id int64) (string, error) {
	if err := s.store.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, perrors.ErrProductNotFound) {
			return "", perrors.NotFound(fmt.Sprintf(msgDeleteMissing, id))
		}
		return "", fmt.Errorf("failed to delete product with ID %d: %w", id, err)
	}

	s.publish(ctx, events.ProductDeletedEvent{ID: id, OccurredAt: time.Now().UTC()})
	s.writeCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "delete")))

	return fmt.Sprintf(msgDeleted, id), nil
}

// SortByPrice returns all products sorted by ascending price. Equal prices keep store order.
func (s *Service) SortByPrice(ctx context.Context) ([]ProductDto, error) {
	products, err := s.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(products, func(a, b ProductDto) int {
		return cmp.Compare(a.Price, b.Price)
	})
	return products, nil
}

// publish logs and drops publishing failures: the write has already been committed.
func (s *Service) publish(ctx context.Context, event messaging.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish event", "subject", event.Subject(), "error", err)
	}
}

func isValid(product *ProductDto) bool {
	if product == nil {
		return false
	}
	name := strings.TrimSpace(product.Name)
	return name != "" &&
		utf8.RuneCountInString(product.Name) <= maxNameLength &&
		product.Price >= 0 &&
		product.Stock >= 0
}

func duplicateName(name string) error {
	return perrors.BadRequest(fmt.Sprintf(msgDuplicateName, name))
}

func toModel(product *ProductDto) db.Product {
	return db.Product{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
	}
}

// toDto converts a db.Product to a ProductDto.
func toDto(product *db.Product) *ProductDto {
	return &ProductDto{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
	}
}

func toDtos(products []db.Product) []ProductDto {
	dtos := make([]ProductDto, len(products))
	for i := range products {
		dtos[i] = *toDto(&products[i])
	}
	return dtos
}
