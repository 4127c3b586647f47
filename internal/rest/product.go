package rest

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"storefront/business/product"
	"storefront/domain"
	"storefront/pkg/apperror"
	"storefront/pkg/logger"
	"storefront/pkg/money"

	"github.com/labstack/echo/v4"
)

type ProductService interface {
	GetAllProducts(ctx context.Context) ([]domain.Product, error)
	GetProductByID(ctx context.Context, id uint) (domain.Product, error)
	FetchClientProducts(ctx context.Context, filter domain.ProductFilter) (domain.ProductPage, error)
	CreateProduct(ctx context.Context, in product.ProductInput, uploads []product.ImageUpload) (domain.Product, error)
	UpdateProduct(ctx context.Context, id uint, in product.ProductInput) (domain.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
}

type ProductHandler struct {
	productService ProductService
	guard          AbuseGuard
	timeout        time.Duration
}

func NewProductHandler(productService ProductService, guard AbuseGuard) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		guard:          guard,
		timeout:        30 * time.Second,
	}
}

// ProductRequest binds from multipart forms and JSON alike. Sizes and colors
// are comma separated.
type ProductRequest struct {
	Name        string      `json:"name" form:"name"`
	Brand       string      `json:"brand" form:"brand"`
	Description string      `json:"description" form:"description"`
	Category    string      `json:"category" form:"category"`
	Gender      string      `json:"gender" form:"gender"`
	Sizes       string      `json:"sizes" form:"sizes"`
	Colors      string      `json:"colors" form:"colors"`
	Price       json.Number `json:"price" form:"price"`
	Stock       int         `json:"stock" form:"stock"`
	Rating      float64     `json:"rating" form:"rating"`
}

func (r ProductRequest) input() product.ProductInput {
	return product.ProductInput{
		Name:        r.Name,
		Brand:       r.Brand,
		Description: r.Description,
		Category:    r.Category,
		Gender:      r.Gender,
		Sizes:       r.Sizes,
		Colors:      r.Colors,
		Price:       r.Price.String(),
		Stock:       r.Stock,
		Rating:      r.Rating,
	}
}

func (h *ProductHandler) GetAllProducts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	products, err := h.productService.GetAllProducts(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"products": products,
	})
}

func (h *ProductHandler) FetchClientProducts(c echo.Context) error {
	filter, err := parseProductFilter(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	page, err := h.productService.FetchClientProducts(ctx, filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":       true,
		"products":      page.Products,
		"currentPage":   page.CurrentPage,
		"totalPages":    page.TotalPages,
		"totalProducts": page.TotalProducts,
	})
}

func (h *ProductHandler) GetProductByID(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	p, err := h.productService.GetProductByID(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"product": p,
	})
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req ProductRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.guard.Protect(ctx, guardRequest(c, domain.GuardAdminWrite, "")); err != nil {
		return err
	}

	uploads, closeAll, err := formImages(c)
	if err != nil {
		return err
	}
	defer closeAll()

	p, err := h.productService.CreateProduct(ctx, req.input(), uploads)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Product created successfully",
		"product": p,
	})
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	var req ProductRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.guard.Protect(ctx, guardRequest(c, domain.GuardAdminWrite, "")); err != nil {
		return err
	}

	p, err := h.productService.UpdateProduct(ctx, id, req.input())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Product updated successfully",
		"product": p,
	})
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.guard.Protect(ctx, guardRequest(c, domain.GuardAdminWrite, "")); err != nil {
		return err
	}

	if err := h.productService.DeleteProduct(ctx, id); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Product deleted successfully",
	})
}

// formImages opens the "images" parts of a multipart request. The returned
// func closes every opened file.
func formImages(c echo.Context) ([]product.ImageUpload, func(), error) {
	noop := func() {}

	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, apperror.Validation("Product images must be sent as multipart/form-data", err)
		}
		return nil, noop, apperror.Validation("Invalid multipart form", err)
	}

	headers := form.File["images"]
	if len(headers) > product.MaxImages {
		return nil, noop, apperror.Validation("At most 5 images are allowed", nil)
	}

	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			if err := f.Close(); err != nil {
				logger.Warn("Failed to close uploaded file", "error", err)
			}
		}
	}

	uploads := make([]product.ImageUpload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, noop, apperror.Validation("Failed to read uploaded file", err)
		}
		opened = append(opened, f)
		uploads = append(uploads, product.ImageUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get(echo.HeaderContentType),
			Size:        fh.Size,
			Body:        f,
		})
	}

	return uploads, closeAll, nil
}

func parseProductFilter(c echo.Context) (domain.ProductFilter, error) {
	filter := domain.ProductFilter{
		Page:       atoiOrZero(c.QueryParam("page")),
		Limit:      atoiOrZero(c.QueryParam("limit")),
		Categories: product.SplitList(c.QueryParam("categories")),
		Brands:     product.SplitList(c.QueryParam("brands")),
		Sizes:      product.SplitList(c.QueryParam("sizes")),
		Colors:     product.SplitList(c.QueryParam("colors")),
		SortBy:     c.QueryParam("sortBy"),
		SortOrder:  c.QueryParam("sortOrder"),
	}

	var err error
	if filter.MinPrice, err = optionalMoney(c.QueryParam("minPrice")); err != nil {
		return domain.ProductFilter{}, apperror.Validation("Invalid minPrice", err)
	}
	if filter.MaxPrice, err = optionalMoney(c.QueryParam("maxPrice")); err != nil {
		return domain.ProductFilter{}, apperror.Validation("Invalid maxPrice", err)
	}

	return filter, nil
}

func optionalMoney(raw string) (*money.Money, error) {
	if raw == "" {
		return nil, nil
	}
	m, err := money.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
