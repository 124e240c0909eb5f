package handlers

import (
	"time"

	"payments-api/internal/adapters/http/middleware"
	"payments-api/internal/core/domain"
	"payments-api/internal/core/services"
	"payments-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// PaymentHandler handles payment endpoints. Every route acts on behalf
// of the authenticated user.
type PaymentHandler struct {
	paymentService *services.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// CreatePaymentRequest represents create payment request body
type CreatePaymentRequest struct {
	Amount   decimal.Decimal `json:"amount" swaggertype:"number" example:"100.50"`
	Currency string          `json:"currency" example:"USD"`
	Method   string          `json:"method" example:"CREDIT_CARD"`
}

// PaymentResponse is the wire form of a payment
type PaymentResponse struct {
	ID          uint       `json:"id"`
	Amount      float64    `json:"amount"`
	Currency    string     `json:"currency"`
	Method      string     `json:"method"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	ProcessedAt *time.Time `json:"processedAt"`
}

func toPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          p.ID,
		Amount:      p.Amount.InexactFloat64(),
		Currency:    p.Currency,
		Method:      p.Method,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		ProcessedAt: p.ProcessedAt,
	}
}

// List returns the caller's payments
// @Summary List my payments
// @Description Returns all payments of the authenticated user, newest first
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} PaymentResponse
// @Failure 401 {object} response.Response
// @Router /payments [get]
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	payments, err := h.paymentService.ListForOwner(c.Context(), user.ID)
	if err != nil {
		return writeError(c, err)
	}

	result := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		result = append(result, toPaymentResponse(p))
	}
	return response.OK(c, result)
}

// Get returns one of the caller's payments
// @Summary Get payment
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Success 200 {object} PaymentResponse
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /payments/{id} [get]
func (h *PaymentHandler) Get(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}

	payment, err := h.paymentService.GetByIDForOwner(c.Context(), id, user.ID)
	if err != nil {
		return writeError(c, err)
	}
	return response.OK(c, toPaymentResponse(payment))
}

// Create creates a PENDING payment owned by the caller
// @Summary Create payment
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreatePaymentRequest true "Payment data"
// @Success 201 {object} PaymentResponse
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /payments [post]
func (h *PaymentHandler) Create(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req CreatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	payment, err := h.paymentService.Create(c.Context(), &services.CreatePaymentInput{
		Amount:   req.Amount,
		Currency: req.Currency,
		Method:   req.Method,
	}, &user.ID)
	if err != nil {
		return writeError(c, err)
	}
	return response.Created(c, toPaymentResponse(payment))
}

// Process runs one of the caller's payments through the gateway
// @Summary Process payment
// @Description Moves a PENDING payment to APPROVED or REJECTED. Processing an already processed payment returns it unchanged.
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Success 200 {object} PaymentResponse
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /payments/{id}/process [post]
func (h *PaymentHandler) Process(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}

	payment, err := h.paymentService.ProcessForOwner(c.Context(), id, user.ID)
	if err != nil {
		return writeError(c, err)
	}
	return response.OK(c, toPaymentResponse(payment))
}

// Delete removes a payment. Unknown ids still succeed.
// @Summary Delete payment
// @Tags Payments
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Success 204
// @Failure 401 {object} response.Response
// @Router /payments/{id} [delete]
func (h *PaymentHandler) Delete(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}

	if err := h.paymentService.Delete(c.Context(), id, user.ID); err != nil {
		return writeError(c, err)
	}
	return response.NoContent(c)
}
