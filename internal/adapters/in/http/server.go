// Package http exposes the order lifecycle over a REST API.
// It coordinates between HTTP handlers and application use cases.
package http

import (
	"errors"
	"net/http"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// Actor identity headers. The service trusts the gateway in front of it
// to authenticate callers and forward their identity here.
const (
	HeaderActorID   = "X-Actor-Id"
	HeaderActorRole = "X-Actor-Role"
)

// Server implements the REST API for order lifecycle management.
type Server struct {
	createOrderHandler     commands.CreateOrderCommandHandler
	transitionOrderHandler commands.TransitionOrderCommandHandler

	getOrderHandler        queries.GetOrderQueryHandler
	getClientOrdersHandler queries.GetClientOrdersQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	transitionOrderHandler commands.TransitionOrderCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getClientOrdersHandler queries.GetClientOrdersQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:     createOrderHandler,
		transitionOrderHandler: transitionOrderHandler,
		getOrderHandler:        getOrderHandler,
		getClientOrdersHandler: getClientOrdersHandler,
	}
}

// RegisterRoutes attaches all API routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders", s.GetClientOrders)
	api.GET("/orders/:id", s.GetOrder)
	api.PUT("/orders/:id/status", s.TransitionOrder)
}

// Error is the JSON error body returned by all endpoints.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewOrderItem is one order line in a create request.
type NewOrderItem struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
}

// NewOrder is the create order request body.
type NewOrder struct {
	Items []NewOrderItem `json:"items"`
}

// StatusChange is the transition request body.
type StatusChange struct {
	Status string `json:"status"`
}

// OrderItem is one order line in API responses.
type OrderItem struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
}

// Order is the API representation of an order.
type Order struct {
	ID         string      `json:"id"`
	ClientID   string      `json:"clientId"`
	Status     string      `json:"status"`
	Items      []OrderItem `json:"items"`
	TotalPrice string      `json:"totalPrice"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
	Version    int64       `json:"version"`
}

// CreateOrder handles POST /api/v1/orders - places a new order for the calling client.
func (s *Server) CreateOrder(ctx echo.Context) error {
	actor, err := actorFromHeaders(ctx)
	if err != nil {
		return errorResponse(ctx, http.StatusForbidden, err.Error())
	}
	if actor.Role() != order.RoleClient {
		return errorResponse(ctx, http.StatusForbidden, "Only clients can place orders")
	}

	var body NewOrder
	if err = ctx.Bind(&body); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid request body")
	}

	clientID, err := kernel.UUIDFromString(actor.ID())
	if err != nil {
		return errorResponse(ctx, http.StatusForbidden, "Invalid actor id")
	}

	items := make([]order.Item, 0, len(body.Items))
	for _, line := range body.Items {
		item, itemErr := itemFromRequest(line)
		if itemErr != nil {
			return errorResponse(ctx, http.StatusUnprocessableEntity, "Invalid order item: "+itemErr.Error())
		}
		items = append(items, item)
	}

	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), clientID, items)
	if err != nil {
		return errorResponse(ctx, http.StatusUnprocessableEntity, "Invalid order data: "+err.Error())
	}

	created, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return commandErrorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, orderFromDomain(created))
}

// TransitionOrder handles PUT /api/v1/orders/:id/status - moves an order to a new status.
func (s *Server) TransitionOrder(ctx echo.Context) error {
	actor, err := actorFromHeaders(ctx)
	if err != nil {
		return errorResponse(ctx, http.StatusForbidden, err.Error())
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid order id")
	}

	var body StatusChange
	if err = ctx.Bind(&body); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid request body")
	}

	target, err := order.StatusFromString(body.Status)
	if err != nil {
		return errorResponse(ctx, http.StatusUnprocessableEntity, "Unknown status: "+body.Status)
	}

	cmd, err := commands.NewTransitionOrderCommand(orderID, target, actor)
	if err != nil {
		return errorResponse(ctx, http.StatusUnprocessableEntity, "Invalid transition request: "+err.Error())
	}

	updated, err := s.transitionOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return commandErrorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderFromDomain(updated))
}

// GetOrder handles GET /api/v1/orders/:id - retrieves a single order.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid order id")
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid order id")
	}

	resp, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return errorResponse(ctx, http.StatusNotFound, "Order not found")
		}
		return errorResponse(ctx, http.StatusInternalServerError, "Failed to retrieve order")
	}

	return ctx.JSON(http.StatusOK, orderFromResponse(resp))
}

// GetClientOrders handles GET /api/v1/orders?clientId=... - retrieves a client's order history.
func (s *Server) GetClientOrders(ctx echo.Context) error {
	clientID, err := kernel.UUIDFromString(ctx.QueryParam("clientId"))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid or missing clientId")
	}

	query, err := queries.NewGetClientOrdersQuery(clientID)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid clientId")
	}

	orders, err := s.getClientOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, http.StatusInternalServerError, "Failed to retrieve orders")
	}

	response := make([]Order, len(orders))
	for i, resp := range orders {
		response[i] = orderFromResponse(resp)
	}

	return ctx.JSON(http.StatusOK, response)
}

// commandErrorResponse maps command handler errors to HTTP statuses.
func commandErrorResponse(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return errorResponse(ctx, http.StatusNotFound, "Order not found")
	case errors.Is(err, commands.ErrForbidden):
		return errorResponse(ctx, http.StatusForbidden, "Actor may not perform this transition")
	case errors.Is(err, order.ErrInvalidTransition):
		return errorResponse(ctx, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, errs.ErrConcurrencyConflict):
		return errorResponse(ctx, http.StatusConflict, "Order was modified concurrently, retry")
	case errors.Is(err, ports.ErrInsufficientStock):
		return errorResponse(ctx, http.StatusConflict, "Insufficient stock")
	case errors.Is(err, commands.ErrUpstreamUnavailable):
		return errorResponse(ctx, http.StatusServiceUnavailable, "Upstream service unavailable, retry later")
	case errors.Is(err, errs.ErrValueIsInvalid), errors.Is(err, errs.ErrValueIsRequired), errors.Is(err, errs.ErrValueIsOutOfRange):
		return errorResponse(ctx, http.StatusUnprocessableEntity, err.Error())
	default:
		return errorResponse(ctx, http.StatusInternalServerError, "Internal error")
	}
}

func errorResponse(ctx echo.Context, code int, message string) error {
	return ctx.JSON(code, Error{Code: code, Message: message})
}

// actorFromHeaders builds the acting identity from trusted gateway headers.
func actorFromHeaders(ctx echo.Context) (order.Actor, error) {
	role, err := order.RoleFromString(ctx.Request().Header.Get(HeaderActorRole))
	if err != nil {
		return order.Actor{}, errors.New("missing or unknown actor role")
	}

	actorID, err := kernel.UUIDFromString(ctx.Request().Header.Get(HeaderActorID))
	if err != nil {
		return order.Actor{}, errors.New("missing or invalid actor id")
	}

	if role == order.RoleAdmin {
		return order.NewAdminActor(actorID)
	}
	return order.NewClientActor(actorID)
}

func itemFromRequest(line NewOrderItem) (order.Item, error) {
	productID, err := kernel.UUIDFromString(line.ProductID)
	if err != nil {
		return order.Item{}, err
	}

	unitPrice, err := decimal.NewFromString(line.UnitPrice)
	if err != nil {
		return order.Item{}, err
	}

	return order.NewItem(productID, line.ProductName, line.Quantity, unitPrice)
}

func orderFromDomain(aggregate *order.Order) Order {
	domainItems := aggregate.Items()
	items := make([]OrderItem, 0, len(domainItems))
	for _, item := range domainItems {
		items = append(items, OrderItem{
			ProductID:   item.ProductID().String(),
			ProductName: item.ProductName(),
			Quantity:    item.Quantity(),
			UnitPrice:   item.UnitPrice().String(),
		})
	}

	return Order{
		ID:         aggregate.ID().String(),
		ClientID:   aggregate.ClientID().String(),
		Status:     aggregate.Status().String(),
		Items:      items,
		TotalPrice: aggregate.TotalPrice().String(),
		CreatedAt:  aggregate.CreatedAt(),
		UpdatedAt:  aggregate.UpdatedAt(),
		Version:    aggregate.Version(),
	}
}

func orderFromResponse(resp queries.OrderResponse) Order {
	items := make([]OrderItem, 0, len(resp.Items))
	for _, item := range resp.Items {
		items = append(items, OrderItem{
			ProductID:   item.ProductID.String(),
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.String(),
		})
	}

	return Order{
		ID:         resp.ID.String(),
		ClientID:   resp.ClientID.String(),
		Status:     resp.Status,
		Items:      items,
		TotalPrice: resp.TotalPrice.String(),
		CreatedAt:  resp.CreatedAt,
		UpdatedAt:  resp.UpdatedAt,
		Version:    resp.Version,
	}
}
