package controller

import (
	"elearn_backend/internal/service"
	"elearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PaymentController struct {
	PaymentService *service.PaymentService
}

func NewPaymentController(paymentService *service.PaymentService) *PaymentController {
	return &PaymentController{PaymentService: paymentService}
}

// swagger:model CreateOrderRequest
type CreateOrderRequest struct {
	CourseID uint `json:"course_id" form:"course_id" binding:"required"`
}

// CreateOrder godoc
// @Summary Open a Razorpay order for a paid course
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateOrderRequest true "Course"
// @Success 201 {object} util.Response{data=service.Checkout}
// @Failure 400 {object} util.Response "Course is free"
// @Failure 409 {object} util.Response "Already enrolled"
// @Failure 502 {object} util.Response "Gateway error"
// @Router /api/payments/orders [post]
func (c *PaymentController) CreateOrder(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if err := ctx.ShouldBind(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	checkout, err := c.PaymentService.CreateOrder(ctx.Request.Context(), claims.UserID, req.CourseID)
	if err != nil {
		respond(ctx, err)
		return
	}
	util.Created(ctx, checkout)
}

// swagger:model VerifyPaymentRequest
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" form:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" form:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" form:"razorpay_signature" binding:"required"`
}

// VerifyPayment godoc
// @Summary Confirm a checkout
// @Description Called by the client with the fields Razorpay checkout returns. Safe to repeat.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body VerifyPaymentRequest true "Checkout result"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Failure 400 {object} util.Response "Signature mismatch"
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "Order already failed"
// @Router /api/payments/verify [post]
func (c *PaymentController) VerifyPayment(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	var req VerifyPaymentRequest
	if err := ctx.ShouldBind(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	enrollment, err := c.PaymentService.ConfirmPayment(ctx.Request.Context(), claims.UserID,
		req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature)
	if err != nil {
		respond(ctx, err)
		return
	}
	util.Success(ctx, enrollment)
}

// swagger:model FailPaymentRequest
type FailPaymentRequest struct {
	RazorpayOrderID string `json:"razorpay_order_id" form:"razorpay_order_id" binding:"required"`
}

// FailPayment godoc
// @Summary Record an abandoned or declined checkout
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body FailPaymentRequest true "Order"
// @Success 200 {object} util.Response{data=model.PaymentTransaction}
// @Failure 409 {object} util.Response "Order already paid"
// @Router /api/payments/fail [post]
func (c *PaymentController) FailPayment(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	var req FailPaymentRequest
	if err := ctx.ShouldBind(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	txn, err := c.PaymentService.FailPayment(claims.UserID, req.RazorpayOrderID)
	if err != nil {
		respond(ctx, err)
		return
	}
	util.Success(ctx, txn)
}

// MyPayments godoc
// @Summary The caller's payment history
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.PaymentTransaction}
// @Router /api/payments [get]
func (c *PaymentController) MyPayments(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	payments, err := c.PaymentService.ListForUser(claims.UserID)
	if err != nil {
		respond(ctx, err)
		return
	}
	util.Success(ctx, payments)
}
