package handler

import (
	"github.com/dukaanlabs/dukaan-api/internal/application/service"
	"github.com/dukaanlabs/dukaan-api/internal/domain/repository"
	"github.com/dukaanlabs/dukaan-api/internal/presentation/http/dto/request"
	"github.com/dukaanlabs/dukaan-api/internal/presentation/http/dto/response"
	"github.com/dukaanlabs/dukaan-api/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProductHandler handles catalog HTTP requests
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// Create handles product creation
func (h *ProductHandler) Create(c *gin.Context) {
	var req request.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.CreateProductInput{
		Name:        req.Name,
		Code:        req.Code,
		Type:        req.Type,
		Price:       req.Price,
		Cost:        req.Cost,
		Stock:       req.Stock,
		IsUnlimited: req.IsUnlimited,
	}
	for _, v := range req.Variants {
		input.Variants = append(input.Variants, service.VariantInput{
			Name:  v.Name,
			SKU:   v.SKU,
			Price: v.Price,
			Cost:  v.Cost,
			Stock: v.Stock,
		})
	}
	for _, m := range req.Materials {
		input.Materials = append(input.Materials, service.MaterialInput{
			RawMaterialID: m.RawMaterialID,
			Quantity:      m.Quantity,
		})
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Product created successfully", product)
}

// Get handles retrieving a single product
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Product retrieved successfully", product)
}

// Update handles partial product updates
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	var req request.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), id, &service.UpdateProductInput{
		Name:        req.Name,
		Code:        req.Code,
		Price:       req.Price,
		Cost:        req.Cost,
		IsUnlimited: req.IsUnlimited,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Product updated successfully", product)
}

// Delete handles product deletion
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// List handles listing products
func (h *ProductHandler) List(c *gin.Context) {
	var filter request.ProductFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.ProductFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:    filter.Search,
		SortBy:    filter.SortBy,
		SortOrder: filter.SortOrder,
	}

	products, total, err := h.productService.ListProducts(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(products,
		pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total))
	response.SuccessWithPagination(c, 200, "Products retrieved successfully", result)
}

// Availability reports how many units of a product can currently be sold.
// For Variant products the variant_id query parameter selects the variant.
func (h *ProductHandler) Availability(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	var variantID *uuid.UUID
	if v := c.Query("variant_id"); v != "" {
		parsed, err := uuid.Parse(v)
		if err != nil {
			response.BadRequest(c, "Invalid variant ID")
			return
		}
		variantID = &parsed
	}

	availability, err := h.productService.Availability(c.Request.Context(), id, variantID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Availability retrieved successfully", availability)
}

// CreateRawMaterial handles raw material creation
func (h *ProductHandler) CreateRawMaterial(c *gin.Context) {
	var req request.CreateRawMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	material, err := h.productService.CreateRawMaterial(c.Request.Context(), &service.CreateRawMaterialInput{
		Name:        req.Name,
		Unit:        req.Unit,
		Stock:       req.Stock,
		IsUnlimited: req.IsUnlimited,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Raw material created successfully", material)
}

// ListRawMaterials handles listing raw materials
func (h *ProductHandler) ListRawMaterials(c *gin.Context) {
	params := &pagination.PaginationParams{}
	if err := c.ShouldBindQuery(params); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	materials, total, err := h.productService.ListRawMaterials(c.Request.Context(), params, c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(materials,
		pagination.NewPagination(params.Page, params.PerPage, total))
	response.SuccessWithPagination(c, 200, "Raw materials retrieved successfully", result)
}
