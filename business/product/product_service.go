package product

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"storefront/domain"
	"storefront/pkg/apperror"
	"storefront/pkg/logger"
	"storefront/pkg/money"

	"github.com/go-playground/validator/v10"
)

const (
	MaxImages     = 5
	MaxImageBytes = 5 << 20

	defaultPageSize = 10
	maxPageSize     = 100
)

// ProductRepository contract interface
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uint) (domain.Product, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
	FindFiltered(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int64, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uint) error
}

// ImageStore uploads product images and returns their public URL.
type ImageStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, url string) error
}

type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ProductInput is the admin form. Sizes and colors arrive comma separated.
type ProductInput struct {
	Name        string  `validate:"required,max=200"`
	Brand       string  `validate:"required,max=100"`
	Description string  `validate:"max=5000"`
	Category    string  `validate:"required,max=100"`
	Gender      string  `validate:"required,max=50"`
	Sizes       string  `validate:"required"`
	Colors      string  `validate:"required"`
	Price       string  `validate:"required"`
	Stock       int     `validate:"gte=0"`
	Rating      float64 `validate:"gte=0,lte=5"`
}

type productService struct {
	productRepo ProductRepository
	images      ImageStore
	validate    *validator.Validate
	newKey      func(filename string) string
}

func NewProductService(productRepo ProductRepository, images ImageStore, validate *validator.Validate, newKey func(filename string) string) *productService {
	return &productService{
		productRepo: productRepo,
		images:      images,
		validate:    validate,
		newKey:      newKey,
	}
}

func (s *productService) GetAllProducts(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	return s.productRepo.FindAll(ctx)
}

func (s *productService) GetProductByID(ctx context.Context, id uint) (domain.Product, error) {
	if id == 0 {
		return domain.Product{}, apperror.Validation("invalid product id", nil)
	}

	return s.productRepo.FindByID(ctx, id)
}

// FetchClientProducts returns one page of products matching filter.
func (s *productService) FetchClientProducts(ctx context.Context, filter domain.ProductFilter) (domain.ProductPage, error) {
	filter = normalizeFilter(filter)

	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return domain.ProductPage{}, apperror.Validation("minPrice must not exceed maxPrice", nil)
	}

	products, total, err := s.productRepo.FindFiltered(ctx, filter)
	if err != nil {
		logger.Error("Failed to fetch filtered products", "error", err)
		return domain.ProductPage{}, err
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return domain.ProductPage{
		Products:      products,
		CurrentPage:   filter.Page,
		TotalPages:    totalPages,
		TotalProducts: total,
	}, nil
}

func (s *productService) CreateProduct(ctx context.Context, in ProductInput, uploads []ImageUpload) (domain.Product, error) {
	product, err := s.fromInput(in)
	if err != nil {
		return domain.Product{}, err
	}

	if err := checkUploads(uploads); err != nil {
		return domain.Product{}, err
	}

	urls := make([]string, 0, len(uploads))
	for _, up := range uploads {
		url, err := s.images.Upload(ctx, s.newKey(up.Filename), up.ContentType, up.Body, up.Size)
		if err != nil {
			s.discard(ctx, urls)
			logger.Error("Failed to upload product image", "file", up.Filename, "error", err)
			return domain.Product{}, apperror.Upstream(0, "Failed to upload product images", err)
		}
		urls = append(urls, url)
	}
	product.Images = urls

	if err := s.productRepo.Create(ctx, &product); err != nil {
		s.discard(ctx, urls)
		logger.Error("Failed to create new product", "error", err)
		return domain.Product{}, fmt.Errorf("failed to create product: %w", err)
	}

	logger.Info("Product created", "product_id", product.ID, "images", len(urls))
	return product, nil
}

// UpdateProduct replaces the editable fields. Images and sold count are kept.
func (s *productService) UpdateProduct(ctx context.Context, id uint, in ProductInput) (domain.Product, error) {
	existing, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	updated, err := s.fromInput(in)
	if err != nil {
		return domain.Product{}, err
	}

	updated.ID = existing.ID
	updated.Images = existing.Images
	updated.SoldCount = existing.SoldCount
	updated.CreatedAt = existing.CreatedAt

	if err := s.productRepo.Update(ctx, &updated); err != nil {
		logger.Error("Failed to update product", "product_id", id, "error", err)
		return domain.Product{}, err
	}

	return updated, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uint) error {
	existing, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.discard(ctx, existing.Images)
	return nil
}

func (s *productService) fromInput(in ProductInput) (domain.Product, error) {
	if err := s.validate.Struct(in); err != nil {
		return domain.Product{}, apperror.Validation("Invalid product details", err)
	}

	price, err := money.Parse(strings.TrimSpace(in.Price))
	if err != nil {
		return domain.Product{}, apperror.Validation("Invalid price", err)
	}
	if price <= 0 {
		return domain.Product{}, apperror.Validation("Price must be greater than 0", nil)
	}

	sizes := SplitList(in.Sizes)
	colors := SplitList(in.Colors)
	if len(sizes) == 0 || len(colors) == 0 {
		return domain.Product{}, apperror.Validation("At least one size and one color are required", nil)
	}

	return domain.Product{
		Name:        strings.TrimSpace(in.Name),
		Brand:       strings.TrimSpace(in.Brand),
		Description: in.Description,
		Category:    strings.TrimSpace(in.Category),
		Gender:      strings.TrimSpace(in.Gender),
		Sizes:       sizes,
		Colors:      colors,
		Price:       price,
		Stock:       in.Stock,
		Rating:      in.Rating,
	}, nil
}

func (s *productService) discard(ctx context.Context, urls []string) {
	for _, u := range urls {
		if err := s.images.Delete(ctx, u); err != nil {
			logger.Warn("Failed to delete product image", "url", u, "error", err)
		}
	}
}

func checkUploads(uploads []ImageUpload) error {
	if len(uploads) == 0 {
		return apperror.Validation("At least one product image is required", nil)
	}
	if len(uploads) > MaxImages {
		return apperror.Validation(fmt.Sprintf("At most %d images are allowed", MaxImages), nil)
	}
	for _, up := range uploads {
		if !strings.HasPrefix(up.ContentType, "image/") {
			return apperror.Validation("Only image files are allowed!", nil)
		}
		if up.Size > MaxImageBytes {
			return apperror.Validation(fmt.Sprintf("%s exceeds the 5MB limit", path.Base(up.Filename)), nil)
		}
	}
	return nil
}

// SplitList splits a comma separated form value, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var sortColumns = map[string]string{
	"createdAt": "created_at",
	"price":     "price",
	"name":      "name",
	"rating":    "rating",
	"soldCount": "sold_count",
}

// SortColumn maps a client sort key to a column, defaulting to created_at.
func SortColumn(sortBy string) string {
	if col, ok := sortColumns[sortBy]; ok {
		return col
	}
	return "created_at"
}

func normalizeFilter(f domain.ProductFilter) domain.ProductFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultPageSize
	}
	if f.Limit > maxPageSize {
		f.Limit = maxPageSize
	}
	if _, ok := sortColumns[f.SortBy]; !ok {
		f.SortBy = "createdAt"
	}
	if f.SortOrder != "asc" {
		f.SortOrder = "desc"
	}
	return f
}
