package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/trace"

	"github.com/vin2grow/storefront-go/internal/api"
	"github.com/vin2grow/storefront-go/internal/domain"
	apperrors "github.com/vin2grow/storefront-go/pkg/errors"
	"github.com/vin2grow/storefront-go/pkg/tracing"
	"github.com/vin2grow/storefront-go/pkg/validator"
)

// State is the cart lifecycle state (per cart, not per request).
type State int

const (
	// StateUninitialized means Initialize has not run yet.
	StateUninitialized State = iota
	// StateEmpty means there is no authenticated session; no network calls
	// are made in this state.
	StateEmpty
	// StateLoading means the initial fetch is in flight.
	StateLoading
	// StateReady means the store reflects the last applied server response.
	StateReady
	// StateError means the initial fetch failed; retryable via Initialize.
	StateError
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// CartAPI is the remote cart resource consumed by the Synchronizer.
// api.Client satisfies this.
type CartAPI interface {
	FetchCart(ctx context.Context) ([]domain.LineItem, error)
	AddItem(ctx context.Context, req api.AddItemRequest) ([]domain.LineItem, error)
	UpdateItemQuantity(ctx context.Context, lineID string, quantity int) ([]domain.LineItem, error)
	RemoveItem(ctx context.Context, lineID string) ([]domain.LineItem, error)
	ClearCart(ctx context.Context) error
}

// Session exposes the identity signals the Synchronizer gates on.
// session.Manager satisfies this.
type Session interface {
	Authenticated() bool
	UserID() string
}

// Synchronizer mediates every state-changing cart operation between
// consumers and the remote cart resource, and keeps the Store consistent
// with the server even when individual calls fail.
//
// Consistency strategy: after every successful round-trip the Store is
// replaced wholesale with the server's returned item list; there is no
// client-side merging and no optimistic state. When a mutation's network
// call fails, a corrective re-fetch re-syncs the Store (falling back to
// empty if that also fails) and the original failure is still returned so
// the caller reports it — the user's intended action did not take effect
// even though consistency was restored.
//
// Each mutation carries a monotonic sequence number; a response is applied
// only if no newer response has been applied already, so two overlapping
// mutations cannot leave the Store holding the older server state.
type Synchronizer struct {
	api     CartAPI
	session Session
	store   *Store
	logger  *slog.Logger
	tracer  trace.Tracer

	mu       sync.Mutex
	state    State
	lastErr  error
	seq      uint64
	applied  uint64
	inflight int
}

// NewSynchronizer creates a synchronizer bound to the given store. The store
// must not be written by anyone else.
func NewSynchronizer(cartAPI CartAPI, sess Session, store *Store, logger *slog.Logger) *Synchronizer {
	return &Synchronizer{
		api:     cartAPI,
		session: sess,
		store:   store,
		logger:  logger,
		tracer:  tracing.Tracer("cart"),
		state:   StateUninitialized,
	}
}

// State returns the current lifecycle state.
func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the error recorded by a failed initial fetch, if any.
func (s *Synchronizer) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Loading reports whether any operation is currently in flight.
func (s *Synchronizer) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight > 0
}

// Initialize populates the store from the server. Without a session the cart
// becomes empty with no network call. A "not found" cart is a benign empty
// cart, not an error; any other fetch failure leaves the store empty in the
// error state, retryable by calling Initialize again.
func (s *Synchronizer) Initialize(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "cart.initialize")
	defer span.End()

	if !s.session.Authenticated() {
		s.Reset()
		return nil
	}

	s.setState(StateLoading)
	seq := s.nextSeq()

	s.beginOp()
	items, err := s.api.FetchCart(ctx)
	s.endOp()

	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.apply(seq, nil)
			return nil
		}
		s.mu.Lock()
		s.state = StateError
		s.lastErr = err
		s.mu.Unlock()
		return fmt.Errorf("fetch cart: %w", err)
	}

	valid := domain.ValidItems(items)
	if dropped := len(items) - len(valid); dropped > 0 {
		s.logger.WarnContext(ctx, "dropped cart lines with missing product reference",
			slog.Int("dropped", dropped),
			slog.String("user_id", s.session.UserID()),
		)
	}

	s.apply(seq, valid)
	return nil
}

// Refresh re-fetches server truth. Used after flows that change the cart
// server-side (e.g. order placement clears it).
func (s *Synchronizer) Refresh(ctx context.Context) error {
	return s.Initialize(ctx)
}

// HandleSessionChange re-enters the lifecycle after a sign-in, sign-out or
// user switch: with a session it reloads from the server, without one it
// resets to empty.
func (s *Synchronizer) HandleSessionChange(ctx context.Context) error {
	if !s.session.Authenticated() {
		s.Reset()
		return nil
	}
	return s.Initialize(ctx)
}

// Reset empties the store without a network call (sign-out path). The
// sequence counter is advanced so responses still in flight are discarded.
func (s *Synchronizer) Reset() {
	s.mu.Lock()
	s.seq++
	s.applied = s.seq
	s.state = StateEmpty
	s.lastErr = nil
	s.mu.Unlock()
	s.store.Replace(nil)
}

// AddItem adds a product to the cart. The quantity defaults to 1 when not
// positive. The server merges with an existing line for the same product;
// the store then reflects whatever item list the server returns.
func (s *Synchronizer) AddItem(ctx context.Context, product domain.Product, quantity int) error {
	ctx, span := s.tracer.Start(ctx, "cart.add_item")
	defer span.End()

	if product.ID == "" {
		return apperrors.InvalidInput("product id is required")
	}
	if quantity < 1 {
		quantity = 1
	}
	if !s.session.Authenticated() {
		return apperrors.Unauthorized("sign in to add items to the cart")
	}

	req := api.AddItemRequest{
		ProductID: product.ID,
		Quantity:  quantity,
		Product:   domain.NewProductSnapshot(product),
	}
	if err := validator.Validate(req); err != nil {
		return apperrors.InvalidInput(err.Error())
	}

	seq := s.nextSeq()

	s.beginOp()
	items, err := s.api.AddItem(ctx, req)
	s.endOp()

	if err != nil {
		return s.recover(ctx, seq, "add item", err)
	}

	s.apply(seq, domain.ValidItems(items))
	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("product_id", product.ID),
		slog.Int("quantity", quantity),
	)
	return nil
}

// UpdateQuantity sets the quantity of an existing cart line. The value is
// forwarded untouched: clamping against min/max order and stock is the
// calling surface's responsibility.
func (s *Synchronizer) UpdateQuantity(ctx context.Context, lineID string, quantity int) error {
	ctx, span := s.tracer.Start(ctx, "cart.update_quantity")
	defer span.End()

	line, err := s.resolveLine(lineID)
	if err != nil {
		return err
	}

	seq := s.nextSeq()

	s.beginOp()
	items, err := s.api.UpdateItemQuantity(ctx, line.ID, quantity)
	s.endOp()

	if err != nil {
		return s.recover(ctx, seq, "update quantity", err)
	}

	s.apply(seq, domain.ValidItems(items))
	s.logger.InfoContext(ctx, "cart line quantity updated",
		slog.String("line_id", line.ID),
		slog.Int("quantity", quantity),
	)
	return nil
}

// RemoveItem deletes a cart line.
func (s *Synchronizer) RemoveItem(ctx context.Context, lineID string) error {
	ctx, span := s.tracer.Start(ctx, "cart.remove_item")
	defer span.End()

	line, err := s.resolveLine(lineID)
	if err != nil {
		return err
	}

	seq := s.nextSeq()

	s.beginOp()
	items, err := s.api.RemoveItem(ctx, line.ID)
	s.endOp()

	if err != nil {
		return s.recover(ctx, seq, "remove item", err)
	}

	s.apply(seq, domain.ValidItems(items))
	s.logger.InfoContext(ctx, "item removed from cart",
		slog.String("line_id", line.ID),
	)
	return nil
}

// Clear deletes the whole cart. Failure recovery is symmetric with the
// other mutations: a failed clear triggers the same corrective re-fetch.
func (s *Synchronizer) Clear(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "cart.clear")
	defer span.End()

	if !s.session.Authenticated() {
		return apperrors.Unauthorized("sign in to manage the cart")
	}

	seq := s.nextSeq()

	s.beginOp()
	err := s.api.ClearCart(ctx)
	s.endOp()

	if err != nil {
		return s.recover(ctx, seq, "clear cart", err)
	}

	s.apply(seq, nil)
	s.logger.InfoContext(ctx, "cart cleared")
	return nil
}

// resolveLine runs the shared mutation preconditions: a session must exist,
// the line must be present in the store, and it must carry a product
// reference. No network call is made when any of these fail.
func (s *Synchronizer) resolveLine(lineID string) (domain.LineItem, error) {
	if lineID == "" {
		return domain.LineItem{}, apperrors.InvalidInput("cart line id is required")
	}
	if !s.session.Authenticated() {
		return domain.LineItem{}, apperrors.Unauthorized("sign in to manage the cart")
	}

	line, ok := s.store.Find(lineID)
	if !ok {
		return domain.LineItem{}, apperrors.NotFound("cart item", lineID)
	}
	if !line.Valid() {
		return domain.LineItem{}, apperrors.InvalidInput("cart line is missing its product reference")
	}
	return line, nil
}

// recover handles a failed mutation. Auth failures are returned directly as
// a login-redirect signal. For anything else a corrective re-fetch replaces
// the store with server truth (empty on a second failure), and the original
// failure is returned so the caller reports exactly one error for the
// operation.
func (s *Synchronizer) recover(ctx context.Context, seq uint64, op string, cause error) error {
	if apperrors.IsAuthError(cause) {
		return fmt.Errorf("%s: %w", op, cause)
	}

	s.logger.WarnContext(ctx, "cart mutation failed, re-syncing from server",
		slog.String("operation", op),
		slog.String("error", cause.Error()),
	)

	s.beginOp()
	items, err := s.api.FetchCart(ctx)
	s.endOp()

	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.ErrorContext(ctx, "corrective re-fetch failed, falling back to empty cart",
				slog.String("operation", op),
				slog.String("error", err.Error()),
			)
		}
		s.apply(seq, nil)
		return fmt.Errorf("%s: %w", op, cause)
	}

	s.apply(seq, domain.ValidItems(items))
	return fmt.Errorf("%s: %w", op, cause)
}

// apply installs a server response unless a newer one has been applied
// already (late responses from overlapping mutations are discarded).
func (s *Synchronizer) apply(seq uint64, items []domain.LineItem) {
	s.mu.Lock()
	if seq < s.applied {
		s.mu.Unlock()
		s.logger.Debug("discarding stale cart response",
			slog.Uint64("seq", seq),
			slog.Uint64("applied", s.applied),
		)
		return
	}
	s.applied = seq
	s.state = StateReady
	s.lastErr = nil
	s.mu.Unlock()

	s.store.Replace(items)
}

func (s *Synchronizer) nextSeq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

func (s *Synchronizer) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

func (s *Synchronizer) beginOp() {
	s.mu.Lock()
	s.inflight++
	s.mu.Unlock()
}

func (s *Synchronizer) endOp() {
	s.mu.Lock()
	s.inflight--
	s.mu.Unlock()
}
