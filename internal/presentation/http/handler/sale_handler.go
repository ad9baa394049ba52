package handler

import (
	"time"

	"github.com/dukaanlabs/dukaan-api/internal/application/service"
	"github.com/dukaanlabs/dukaan-api/internal/domain/enum"
	"github.com/dukaanlabs/dukaan-api/internal/domain/repository"
	"github.com/dukaanlabs/dukaan-api/internal/presentation/http/dto/request"
	"github.com/dukaanlabs/dukaan-api/internal/presentation/http/dto/response"
	"github.com/dukaanlabs/dukaan-api/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SaleHandler handles checkout, exchange and refund HTTP requests
type SaleHandler struct {
	saleService     *service.SaleService
	exchangeService *service.ExchangeService
	refundService   *service.RefundService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *service.SaleService, exchangeService *service.ExchangeService, refundService *service.RefundService) *SaleHandler {
	return &SaleHandler{
		saleService:     saleService,
		exchangeService: exchangeService,
		refundService:   refundService,
	}
}

// Create handles a checkout
func (h *SaleHandler) Create(c *gin.Context) {
	var req request.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	input := &service.CreateSaleInput{
		UserID:         *userID,
		PaymentMethod:  req.PaymentMethod,
		CouponCode:     req.CouponCode,
		CartDiscount:   toDiscountInput(req.CartDiscount),
		DiscountRuleID: req.DiscountRuleID,
		Items:          toSaleItemInputs(req.Items),
	}

	sale, err := h.saleService.CreateSale(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Sale completed successfully", sale)
}

// Get handles retrieving a single sale with its items
func (h *SaleHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	sale, err := h.saleService.GetSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Sale retrieved successfully", sale)
}

// List handles listing sales
func (h *SaleHandler) List(c *gin.Context) {
	var filter request.SaleFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.SaleFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search: filter.Search,
	}
	switch filter.Type {
	case "Sale":
		t := enum.SaleTypeSale
		params.Type = &t
	case "Exchange":
		t := enum.SaleTypeExchange
		params.Type = &t
	case "":
	default:
		response.BadRequest(c, "Invalid sale type filter")
		return
	}
	if filter.StartDate != "" {
		start, err := time.Parse("2006-01-02", filter.StartDate)
		if err != nil {
			response.BadRequest(c, "Invalid start date, expected YYYY-MM-DD")
			return
		}
		params.StartDate = &start
	}
	if filter.EndDate != "" {
		end, err := time.Parse("2006-01-02", filter.EndDate)
		if err != nil {
			response.BadRequest(c, "Invalid end date, expected YYYY-MM-DD")
			return
		}
		end = end.Add(24*time.Hour - time.Nanosecond)
		params.EndDate = &end
	}

	sales, total, err := h.saleService.ListSales(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(sales,
		pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total))
	response.SuccessWithPagination(c, 200, "Sales retrieved successfully", result)
}

// Exchange handles an exchange against a sale
func (h *SaleHandler) Exchange(c *gin.Context) {
	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	var req request.ExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	policy, err := enum.ParseResultPolicy(req.Policy)
	if err != nil {
		response.BadRequest(c, "Invalid exchange policy")
		return
	}

	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	input := &service.ExchangeInput{
		UserID:        *userID,
		Policy:        policy,
		Returns:       toReturnItemInputs(req.Returns),
		Replacements:  toSaleItemInputs(req.Replacements),
		PaymentMethod: req.PaymentMethod,
	}

	result, err := h.exchangeService.Exchange(c.Request.Context(), saleID, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Exchange completed successfully", result)
}

// Refund handles a pure return against a sale
func (h *SaleHandler) Refund(c *gin.Context) {
	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	var req request.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	input := &service.RefundInput{
		UserID: *userID,
		Reason: req.Reason,
		Items:  toReturnItemInputs(req.Items),
	}

	refund, err := h.refundService.Refund(c.Request.Context(), saleID, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Refund processed successfully", refund)
}

// ListRefunds handles listing the refunds recorded against a sale
func (h *SaleHandler) ListRefunds(c *gin.Context) {
	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	refunds, err := h.refundService.ListRefunds(c.Request.Context(), saleID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Refunds retrieved successfully", refunds)
}

func toDiscountInput(r *request.DiscountRequest) *service.DiscountInput {
	if r == nil {
		return nil
	}
	return &service.DiscountInput{Type: r.Type, Value: r.Value}
}

func toSaleItemInputs(items []request.SaleItemRequest) []service.SaleItemInput {
	inputs := make([]service.SaleItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, service.SaleItemInput{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Discount:  toDiscountInput(item.Discount),
		})
	}
	return inputs
}

func toReturnItemInputs(items []request.ReturnItemRequest) []service.ReturnItemInput {
	inputs := make([]service.ReturnItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, service.ReturnItemInput{
			SaleItemID: item.SaleItemID,
			Quantity:   item.Quantity,
		})
	}
	return inputs
}
