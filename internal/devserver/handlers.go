package devserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vin2grow/storefront-go/internal/domain"
	apperrors "github.com/vin2grow/storefront-go/pkg/errors"
	"github.com/vin2grow/storefront-go/pkg/middleware"
	"github.com/vin2grow/storefront-go/pkg/validator"
)

// Handler serves the storefront API surface.
type Handler struct {
	repo    *Repository
	catalog *Catalog
	tokens  *TokenIssuer
	logger  *slog.Logger
}

// NewHandler creates the API handler.
func NewHandler(repo *Repository, catalog *Catalog, tokens *TokenIssuer, logger *slog.Logger) *Handler {
	return &Handler{
		repo:    repo,
		catalog: catalog,
		tokens:  tokens,
		logger:  logger,
	}
}

// --- Request DTOs ---

// RegisterRequest is the JSON body for POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest is the JSON body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AddItemRequest is the JSON body for POST /cart/items.
type AddItemRequest struct {
	ProductID string                 `json:"product_id" validate:"required"`
	Quantity  int                    `json:"quantity" validate:"required,gte=1"`
	Product   domain.ProductSnapshot `json:"product"`
}

// UpdateQuantityRequest is the JSON body for PATCH /cart/items/{lineId}.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

// PlaceOrderRequest is the JSON body for POST /orders.
type PlaceOrderRequest struct {
	FullName    string             `json:"full_name" validate:"required"`
	AddressLine string             `json:"address_line" validate:"required"`
	City        string             `json:"city" validate:"required"`
	State       string             `json:"state"`
	PostalCode  string             `json:"postal_code" validate:"required"`
	Phone       string             `json:"phone"`
	Items       []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// OrderItemRequest is one product entry in an order request.
type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// --- Response shapes ---

type userBody struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type authResponse struct {
	Token string   `json:"token"`
	User  userBody `json:"user"`
}

type itemsResponse struct {
	Items []domain.LineItem `json:"items"`
}

type productsResponse struct {
	Products []domain.Product `json:"products"`
}

type orderBody struct {
	ID        string      `json:"id"`
	Items     []OrderLine `json:"items"`
	Total     int64       `json:"total"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

type orderResponse struct {
	Order orderBody `json:"order"`
}

type ordersResponse struct {
	Orders []orderBody `json:"orders"`
}

// --- Auth handlers ---

// Register handles POST /auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()))
		return
	}
	if err := validator.Validate(req); err != nil {
		h.writeValidationError(w, err)
		return
	}

	if _, err := h.repo.GetUserByEmail(r.Context(), req.Email); err == nil {
		h.writeError(w, r, apperrors.Conflict("an account with this email already exists"))
		return
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		h.writeError(w, r, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	user := &UserRecord{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := h.repo.SaveUser(r.Context(), user); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "account registered", slog.String("email", req.Email))
	writeJSON(w, http.StatusCreated, userBody{ID: user.ID, Name: user.Name, Email: user.Email})
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()))
		return
	}
	if err := validator.Validate(req); err != nil {
		h.writeValidationError(w, err)
		return
	}

	user, err := h.repo.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			h.writeError(w, r, apperrors.Unauthorized("invalid email or password"))
			return
		}
		h.writeError(w, r, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(req.Password)); err != nil {
		h.writeError(w, r, apperrors.Unauthorized("invalid email or password"))
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Email)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Token: token,
		User:  userBody{ID: user.ID, Name: user.Name, Email: user.Email},
	})
}

// --- Catalog handlers ---

// ListProducts handles GET /products.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, productsResponse{Products: h.catalog.List(r.Context())})
}

// GetProduct handles GET /products/{productId}.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.Get(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// --- Cart handlers ---

// GetCart handles GET /cart. A user who never had a cart gets 404; the
// client treats that as an empty cart.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	record, err := h.repo.GetCart(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, itemsResponse{Items: record.Items})
}

// AddItem handles POST /cart/items. Adding a product that already has a line
// merges into that line by incrementing its quantity.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()))
		return
	}
	if err := validator.Validate(req); err != nil {
		h.writeValidationError(w, err)
		return
	}

	// The catalog record is authoritative for display fields when the
	// product exists; the client-sent snapshot covers everything else.
	snapshot := req.Product
	if product, err := h.catalog.Get(r.Context(), req.ProductID); err == nil {
		snapshot = domain.NewProductSnapshot(product)
	}
	snapshot.ProductID = req.ProductID

	record, err := h.repo.GetCart(r.Context(), userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			h.writeError(w, r, err)
			return
		}
		record = &CartRecord{UserID: userID}
	}

	merged := false
	for i := range record.Items {
		if record.Items[i].ProductID() == req.ProductID {
			record.Items[i].Quantity += req.Quantity
			record.Items[i].Product = &snapshot
			merged = true
			break
		}
	}
	if !merged {
		record.Items = append(record.Items, domain.LineItem{
			ID:       uuid.New().String(),
			Quantity: req.Quantity,
			Product:  &snapshot,
		})
	}
	record.UpdatedAt = time.Now()

	if err := h.repo.SaveCart(r.Context(), record); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, itemsResponse{Items: record.Items})
}

// UpdateItemQuantity handles PATCH /cart/items/{lineId}.
func (h *Handler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	lineID := chi.URLParam(r, "lineId")

	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()))
		return
	}
	if err := validator.Validate(req); err != nil {
		h.writeValidationError(w, err)
		return
	}

	record, err := h.repo.GetCart(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	found := false
	for i := range record.Items {
		if record.Items[i].ID == lineID {
			record.Items[i].Quantity = req.Quantity
			found = true
			break
		}
	}
	if !found {
		h.writeError(w, r, apperrors.NotFound("cart item", lineID))
		return
	}
	record.UpdatedAt = time.Now()

	if err := h.repo.SaveCart(r.Context(), record); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, itemsResponse{Items: record.Items})
}

// RemoveItem handles DELETE /cart/items/{lineId}.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	lineID := chi.URLParam(r, "lineId")

	record, err := h.repo.GetCart(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	remaining := record.Items[:0]
	found := false
	for _, item := range record.Items {
		if item.ID == lineID {
			found = true
			continue
		}
		remaining = append(remaining, item)
	}
	if !found {
		h.writeError(w, r, apperrors.NotFound("cart item", lineID))
		return
	}
	record.Items = remaining
	record.UpdatedAt = time.Now()

	if err := h.repo.SaveCart(r.Context(), record); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, itemsResponse{Items: record.Items})
}

// ClearCart handles DELETE /cart.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	if err := h.repo.DeleteCart(r.Context(), userID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Order handlers ---

// PlaceOrder handles POST /orders. A successful order empties the cart.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()))
		return
	}
	if err := validator.Validate(req); err != nil {
		h.writeValidationError(w, err)
		return
	}

	lines := make([]OrderLine, 0, len(req.Items))
	var total int64
	for _, item := range req.Items {
		product, err := h.catalog.Get(r.Context(), item.ProductID)
		if err != nil {
			h.writeError(w, r, apperrors.InvalidInput("unknown product: "+item.ProductID))
			return
		}
		unit := product.Price - product.Discount
		lines = append(lines, OrderLine{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     unit,
			Quantity:  item.Quantity,
		})
		total += unit * int64(item.Quantity)
	}

	order := &OrderRecord{
		ID:        uuid.New().String(),
		UserID:    userID,
		Items:     lines,
		Total:     total,
		Status:    "placed",
		FullName:  req.FullName,
		Address:   req.AddressLine + ", " + req.City + " " + req.PostalCode,
		CreatedAt: time.Now(),
	}
	if err := h.repo.AppendOrder(r.Context(), order); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.repo.DeleteCart(r.Context(), userID); err != nil {
		h.logger.WarnContext(r.Context(), "cart not cleared after order",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	h.logger.InfoContext(r.Context(), "order placed",
		slog.String("order_id", order.ID),
		slog.Int64("total", order.Total),
	)
	writeJSON(w, http.StatusCreated, orderResponse{Order: toOrderBody(order)})
}

// ListOrders handles GET /orders.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	records, err := h.repo.ListOrders(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	orders := make([]orderBody, 0, len(records))
	for i := range records {
		orders = append(orders, toOrderBody(&records[i]))
	}
	writeJSON(w, http.StatusOK, ordersResponse{Orders: orders})
}

func toOrderBody(o *OrderRecord) orderBody {
	return orderBody{
		ID:        o.ID,
		Items:     o.Items,
		Total:     o.Total,
		Status:    o.Status,
		CreatedAt: o.CreatedAt,
	}
}

// --- Helpers ---

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		writeJSON(w, appErr.Status, errorEnvelope{
			Error: errorBody{Code: appErr.Code, Message: appErr.Message},
		})
		return
	}

	h.logger.ErrorContext(r.Context(), "internal error",
		slog.String("error", err.Error()),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)
	writeJSON(w, http.StatusInternalServerError, errorEnvelope{
		Error: errorBody{Code: "INTERNAL_ERROR", Message: "an internal error occurred"},
	})
}

func (h *Handler) writeValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		writeJSON(w, http.StatusBadRequest, errorEnvelope{
			Error: errorBody{
				Code:    "VALIDATION_ERROR",
				Message: "request validation failed",
				Fields:  valErr.Fields(),
			},
		})
		return
	}

	writeJSON(w, http.StatusBadRequest, errorEnvelope{
		Error: errorBody{Code: "INVALID_INPUT", Message: err.Error()},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}
