// Package http exposes the coordinator's REST API. Handlers translate
// request bodies into commands and queries, delegate to the application
// layer, and map domain errors onto HTTP status codes.
package http

import (
	"errors"
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server implements the HTTP handlers for the coordinator API.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	advanceOrderStatusHandler   commands.AdvanceOrderStatusCommandHandler
	assignOrderHandler          commands.AssignOrderCommandHandler
	proposeOrderEditHandler     commands.ProposeOrderEditCommandHandler
	decideVerificationHandler   commands.DecideVerificationCommandHandler
	updateRiderLocationHandler  commands.UpdateRiderLocationCommandHandler
	markNotificationReadHandler commands.MarkNotificationReadCommandHandler
	requestOTPHandler           commands.RequestOTPCommandHandler
	verifyOTPHandler            commands.VerifyOTPCommandHandler

	// Query handlers
	getNearestRidersHandler        queries.GetNearestRidersQueryHandler
	getPendingVerificationsHandler queries.GetPendingVerificationsQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	advanceOrderStatusHandler commands.AdvanceOrderStatusCommandHandler,
	assignOrderHandler commands.AssignOrderCommandHandler,
	proposeOrderEditHandler commands.ProposeOrderEditCommandHandler,
	decideVerificationHandler commands.DecideVerificationCommandHandler,
	updateRiderLocationHandler commands.UpdateRiderLocationCommandHandler,
	markNotificationReadHandler commands.MarkNotificationReadCommandHandler,
	requestOTPHandler commands.RequestOTPCommandHandler,
	verifyOTPHandler commands.VerifyOTPCommandHandler,
	getNearestRidersHandler queries.GetNearestRidersQueryHandler,
	getPendingVerificationsHandler queries.GetPendingVerificationsQueryHandler,
) *Server {
	return &Server{
		advanceOrderStatusHandler:      advanceOrderStatusHandler,
		assignOrderHandler:             assignOrderHandler,
		proposeOrderEditHandler:        proposeOrderEditHandler,
		decideVerificationHandler:      decideVerificationHandler,
		updateRiderLocationHandler:     updateRiderLocationHandler,
		markNotificationReadHandler:    markNotificationReadHandler,
		requestOTPHandler:              requestOTPHandler,
		verifyOTPHandler:               verifyOTPHandler,
		getNearestRidersHandler:        getNearestRidersHandler,
		getPendingVerificationsHandler: getPendingVerificationsHandler,
	}
}

// RegisterRoutes attaches all API routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders/:orderID/status", s.AdvanceOrderStatus)
	api.POST("/orders/:orderID/assignment", s.AssignOrder)
	api.POST("/orders/:orderID/edits", s.ProposeOrderEdit)

	api.POST("/verifications/:requestID/decision", s.DecideVerification)
	api.GET("/verifications/pending", s.GetPendingVerifications)

	api.GET("/riders/nearest", s.GetNearestRiders)
	api.POST("/riders/:riderID/location", s.UpdateRiderLocation)

	api.POST("/notifications/:notificationID/read", s.MarkNotificationRead)

	api.POST("/otp/requests", s.RequestOTP)
	api.POST("/otp/verifications", s.VerifyOTP)
}

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// AdvanceOrderStatusRequest is the body for POST /orders/:orderID/status.
type AdvanceOrderStatusRequest struct {
	Status string `json:"status"`
}

// AdvanceOrderStatus moves an order to the requested lifecycle status.
// Legacy status aliases are accepted and normalized.
func (s *Server) AdvanceOrderStatus(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderID"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	var body AdvanceOrderStatusRequest
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewAdvanceOrderStatusCommand(orderID, body.Status)
	if err != nil {
		return badRequest(ctx, "Invalid status: "+err.Error())
	}

	if err = s.advanceOrderStatusHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// AssignOrderRequest is the body for POST /orders/:orderID/assignment.
type AssignOrderRequest struct {
	RiderID  string  `json:"rider_id"`
	VendorID *string `json:"vendor_id,omitempty"`
}

// AssignOrder attaches a rider, and optionally a vendor, to an order.
func (s *Server) AssignOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderID"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	var body AssignOrderRequest
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	riderID, err := kernel.UUIDFromString(body.RiderID)
	if err != nil {
		return badRequest(ctx, "Invalid rider id: "+err.Error())
	}

	var vendorID *kernel.UUID
	if body.VendorID != nil {
		id, vendorErr := kernel.UUIDFromString(*body.VendorID)
		if vendorErr != nil {
			return badRequest(ctx, "Invalid vendor id: "+vendorErr.Error())
		}
		vendorID = &id
	}

	cmd, err := commands.NewAssignOrderCommand(orderID, riderID, vendorID)
	if err != nil {
		return badRequest(ctx, "Invalid assignment: "+err.Error())
	}

	if err = s.assignOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// OrderItemRequest is one proposed item line.
type OrderItemRequest struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// ProposeOrderEditRequest is the body for POST /orders/:orderID/edits.
type ProposeOrderEditRequest struct {
	Items []OrderItemRequest `json:"items"`
	Note  string             `json:"note,omitempty"`
}

// ProposeOrderEditResponse returns the id of the created verification
// request.
type ProposeOrderEditResponse struct {
	RequestID string `json:"request_id"`
}

// ProposeOrderEdit opens a verification request proposing a new item list
// for an in-flight order.
func (s *Server) ProposeOrderEdit(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderID"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	var body ProposeOrderEditRequest
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	items := make([]order.Item, 0, len(body.Items))
	for _, line := range body.Items {
		item, itemErr := order.NewItem(line.Name, line.Quantity, line.UnitPrice)
		if itemErr != nil {
			return badRequest(ctx, "Invalid item: "+itemErr.Error())
		}
		items = append(items, item)
	}

	requestID := kernel.NewUUID()
	cmd, err := commands.NewProposeOrderEditCommand(requestID, orderID, items, body.Note)
	if err != nil {
		return badRequest(ctx, "Invalid edit proposal: "+err.Error())
	}

	if err = s.proposeOrderEditHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, ProposeOrderEditResponse{RequestID: requestID.String()})
}

// DecideVerificationRequest is the body for
// POST /verifications/:requestID/decision.
type DecideVerificationRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason,omitempty"`
}

// DecideVerification records the customer's approve or reject decision on a
// pending verification request.
func (s *Server) DecideVerification(ctx echo.Context) error {
	requestID, err := kernel.UUIDFromString(ctx.Param("requestID"))
	if err != nil {
		return badRequest(ctx, "Invalid request id: "+err.Error())
	}

	var body DecideVerificationRequest
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewDecideVerificationCommand(requestID, body.Approve, body.Reason)
	if err != nil {
		return badRequest(ctx, "Invalid decision: "+err.Error())
	}

	if err = s.decideVerificationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// PendingVerificationResponse is one open verification request.
type PendingVerificationResponse struct {
	ID         string  `json:"id"`
	OrderID    string  `json:"order_id"`
	Note       string  `json:"note,omitempty"`
	PriceDelta float64 `json:"price_delta"`
	CreatedAt  string  `json:"created_at"`
	ExpiresAt  string  `json:"expires_at"`
}

// GetPendingVerifications lists verification requests awaiting a decision,
// oldest first.
func (s *Server) GetPendingVerifications(ctx echo.Context) error {
	query := queries.NewGetPendingVerificationsQuery()

	pending, err := s.getPendingVerificationsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return domainError(ctx, err)
	}

	response := make([]PendingVerificationResponse, len(pending))
	for i, request := range pending {
		response[i] = PendingVerificationResponse{
			ID:         request.ID.String(),
			OrderID:    request.OrderID.String(),
			Note:       request.Note,
			PriceDelta: request.PriceDelta,
			CreatedAt:  request.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
			ExpiresAt:  request.ExpiresAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// NearestRidersQuery binds the query string for GET /riders/nearest.
type NearestRidersQuery struct {
	Latitude  float64 `query:"lat"`
	Longitude float64 `query:"lng"`
	Limit     int     `query:"limit"`
}

// NearestRiderResponse is one ranked rider.
type NearestRiderResponse struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Contact    string   `json:"contact"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
	Freshness  string   `json:"freshness"`
}

// GetNearestRiders returns assignable riders ranked by distance to the
// pickup, nearest first, riders without a location last.
func (s *Server) GetNearestRiders(ctx echo.Context) error {
	var params NearestRidersQuery
	if err := ctx.Bind(&params); err != nil {
		return badRequest(ctx, "Invalid query parameters")
	}

	query, err := queries.NewGetNearestRidersQuery(params.Latitude, params.Longitude, params.Limit)
	if err != nil {
		return badRequest(ctx, "Invalid pickup location: "+err.Error())
	}

	ranked, err := s.getNearestRidersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return domainError(ctx, err)
	}

	response := make([]NearestRiderResponse, len(ranked))
	for i, entry := range ranked {
		response[i] = NearestRiderResponse{
			ID:         entry.ID.String(),
			Name:       entry.Name,
			Contact:    entry.Contact,
			DistanceKm: entry.DistanceKm,
			Freshness:  string(entry.Freshness),
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// UpdateRiderLocationRequest is the body for POST /riders/:riderID/location.
type UpdateRiderLocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// UpdateRiderLocation records a rider's reported position.
func (s *Server) UpdateRiderLocation(ctx echo.Context) error {
	riderID, err := kernel.UUIDFromString(ctx.Param("riderID"))
	if err != nil {
		return badRequest(ctx, "Invalid rider id: "+err.Error())
	}

	var body UpdateRiderLocationRequest
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewUpdateRiderLocationCommand(riderID, body.Latitude, body.Longitude)
	if err != nil {
		return badRequest(ctx, "Invalid location: "+err.Error())
	}

	if err = s.updateRiderLocationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// MarkNotificationRead marks a notification as read.
func (s *Server) MarkNotificationRead(ctx echo.Context) error {
	notificationID, err := kernel.UUIDFromString(ctx.Param("notificationID"))
	if err != nil {
		return badRequest(ctx, "Invalid notification id: "+err.Error())
	}

	cmd, err := commands.NewMarkNotificationReadCommand(notificationID)
	if err != nil {
		return badRequest(ctx, "Invalid notification id: "+err.Error())
	}

	if err = s.markNotificationReadHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RequestOTPRequest is the body for POST /otp/requests.
type RequestOTPRequest struct {
	Contact string `json:"contact"`
	Purpose string `json:"purpose"`
}

// RequestOTP issues a one-time passcode and sends it by SMS.
func (s *Server) RequestOTP(ctx echo.Context) error {
	var body RequestOTPRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewRequestOTPCommand(body.Contact, body.Purpose)
	if err != nil {
		return badRequest(ctx, "Invalid OTP request: "+err.Error())
	}

	if err = s.requestOTPHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.NoContent(http.StatusAccepted)
}

// VerifyOTPRequest is the body for POST /otp/verifications.
type VerifyOTPRequest struct {
	Contact string `json:"contact"`
	Purpose string `json:"purpose"`
	Code    string `json:"code"`
}

// VerifyOTPResponse reports the verification outcome.
type VerifyOTPResponse struct {
	Verified          bool `json:"verified"`
	AttemptsRemaining int  `json:"attempts_remaining"`
}

// VerifyOTP checks a submitted passcode. A matching code verifies and is
// consumed; a mismatch burns one attempt.
func (s *Server) VerifyOTP(ctx echo.Context) error {
	var body VerifyOTPRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewVerifyOTPCommand(body.Contact, body.Purpose, body.Code)
	if err != nil {
		return badRequest(ctx, "Invalid OTP verification: "+err.Error())
	}

	result, err := s.verifyOTPHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil && !result.Verified {
		var invalidErr *errs.ValueIsInvalidError
		if errors.As(err, &invalidErr) {
			// Wrong code: report the remaining attempts instead of failing.
			return ctx.JSON(http.StatusOK, VerifyOTPResponse{
				Verified:          false,
				AttemptsRemaining: result.AttemptsRemaining,
			})
		}
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, VerifyOTPResponse{
		Verified:          result.Verified,
		AttemptsRemaining: result.AttemptsRemaining,
	})
}

// badRequest writes a 400 response with the given message.
func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// domainError maps application errors onto HTTP status codes.
func domainError(ctx echo.Context, err error) error {
	var (
		notFoundErr *errs.ObjectNotFoundError
		conflictErr *errs.ConflictError
		expiredErr  *errs.ExpiredError
		rateErr     *errs.RateLimitError
		requiredErr *errs.ValueIsRequiredError
		invalidErr  *errs.ValueIsInvalidError
		rangeErr    *errs.ValueIsOutOfRangeError
	)

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &notFoundErr):
		status = http.StatusNotFound
	case errors.As(err, &conflictErr):
		status = http.StatusConflict
	case errors.As(err, &expiredErr):
		status = http.StatusGone
	case errors.As(err, &rateErr):
		status = http.StatusTooManyRequests
	case errors.As(err, &requiredErr), errors.As(err, &invalidErr), errors.As(err, &rangeErr):
		status = http.StatusBadRequest
	}

	return ctx.JSON(status, ErrorResponse{
		Code:    status,
		Message: err.Error(),
	})
}
