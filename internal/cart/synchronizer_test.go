package cart

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vin2grow/storefront-go/internal/api"
	"github.com/vin2grow/storefront-go/internal/domain"
	apperrors "github.com/vin2grow/storefront-go/pkg/errors"
)

// --- Mock API ---

type mockCartAPI struct {
	mock.Mock
}

func (m *mockCartAPI) FetchCart(ctx context.Context) ([]domain.LineItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LineItem), args.Error(1)
}

func (m *mockCartAPI) AddItem(ctx context.Context, req api.AddItemRequest) ([]domain.LineItem, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LineItem), args.Error(1)
}

func (m *mockCartAPI) UpdateItemQuantity(ctx context.Context, lineID string, quantity int) ([]domain.LineItem, error) {
	args := m.Called(ctx, lineID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LineItem), args.Error(1)
}

func (m *mockCartAPI) RemoveItem(ctx context.Context, lineID string) ([]domain.LineItem, error) {
	args := m.Called(ctx, lineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LineItem), args.Error(1)
}

func (m *mockCartAPI) ClearCart(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// --- Fake session ---

type fakeSession struct {
	authenticated bool
	userID        string
}

func (f *fakeSession) Authenticated() bool { return f.authenticated }
func (f *fakeSession) UserID() string      { return f.userID }

// --- Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSync(apiMock *mockCartAPI, sess *fakeSession) (*Synchronizer, *Store) {
	store := NewStore()
	return NewSynchronizer(apiMock, sess, store, newTestLogger()), store
}

func product(id string, price int64) domain.Product {
	return domain.Product{ID: id, Name: id, Price: price, Stock: 50}
}

// --- Initialize ---

func TestInitialize_NoSession(t *testing.T) {
	apiMock := new(mockCartAPI)
	sync, store := newTestSync(apiMock, &fakeSession{authenticated: false})

	err := sync.Initialize(context.Background())

	require.NoError(t, err)
	assert.Equal(t, StateEmpty, sync.State())
	assert.Empty(t, store.Items())
	apiMock.AssertNotCalled(t, "FetchCart", mock.Anything)
}

func TestInitialize_LoadsCart(t *testing.T) {
	apiMock := new(mockCartAPI)
	sync, store := newTestSync(apiMock, &fakeSession{authenticated: true, userID: "u1"})

	apiMock.On("FetchCart", mock.Anything).Return([]domain.LineItem{
		testLine("l1", "p1", 10000, 2),
	}, nil)

	err := sync.Initialize(context.Background())

	require.NoError(t, err)
	assert.Equal(t, StateReady, sync.State())
	assert.Len(t, store.Items(), 1)
	assert.Equal(t, int64(20000), store.Subtotal())
	apiMock.AssertExpectations(t)
}

func TestInitialize_FiltersCorruptLines(t *testing.T) {
	apiMock := new(mockCartAPI)
	sync, store := newTestSync(apiMock, &fakeSession{authenticated: true, userID: "u1"})

	apiMock.On("FetchCart", mock.Anything).Return([]domain.LineItem{
		testLine("l1", "p1", 100, 1),
		{ID: "l2", Quantity: 3},
	}, nil)

	require.NoError(t, sync.Initialize(context.Background()))

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "l1", items[0].ID)
}

func TestInitialize_MissingCartIsEmpty(t *testing.T) {
	apiMock := new(mockCartAPI)
	sync, store := newTestSync(apiMock, &fakeSession{authenticated: true, userID: "u1"})

	apiMock.On("FetchCart", mock.Anything).Return(nil, apperrors.NotFound("cart", "u1"))

	err := sync.Initialize(context.Background())

	require.NoError(t, err)
	assert.Equal(t, StateReady, sync.State())
	assert.Empty(t, store.Items())
}

func TestInitialize_FetchFailure(t *testing.T) {
	apiMock := new(mockCartAPI)
	sync, store := newTestSync(apiMock, &fakeSession{authenticated: true, userID: "u1"})

	boom := errors.New("connection refused")
	apiMock.On("FetchCart", mock.Anything).Return(nil, boom).Once()

	err := sync.Initialize(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StateError, sync.State())
	assert.ErrorIs(t, sync.Err(), boom)
	assert.Empty(t, store.Items())

	// Retry succeeds and clears the error.
	apiMock.On("FetchCart", mock.Anything).Return([]domain.LineItem{
		testLine("l1", "p1", 100, 1),
	}, nil).Once()

	require.NoError(t, sync.Initialize(context.Background()))
	assert.Equal(t, StateReady, sync.State())
	assert.NoError(t, sync.Err())
	assert.Len(t, store.Items(), 1)
}

// --- Session changes ---

func TestHandleSessionChange_SignOut(t *testing.T) {
	apiMock := new(mockCartAPI)
	sess := &fakeSession{authenticated: true, userID: "u1"}
	sync, store := newTestSync(apiMock, sess)

	apiMock.On("FetchCart", mock.Anything).Return([]domain.LineItem{
		testLine("l1", "p1", 100, 1),
	}, nil).Once()
	require.NoError(t, sync.Initialize(context.Background()))
	require.Len(t, store.Items(), 1)

	sess.authenticated = false
	require.NoError(t, sync.HandleSessionChange(context.Background()))

	assert.Equal(t, StateEmpty, sync.State())
	assert.Empty(t, store.Items())
	apiMock.AssertExpectations(t)
}

func TestHandleSessionChange_SignIn(t *testing.T) {
	apiMock := new(mockCartAPI)
	sess := &fakeSession{authenticated: false}
	sync, store := newTestSync(apiMock, sess)

	require.NoError(t, sync.Initialize(context.Background()))
	assert.Equal(t, StateEmpty, sync.State())

	sess.authenticated = true
	sess.userID = "u1"
	apiMock.On("FetchCart", mock.Anything).Return([]domain.LineItem{
		testLine("l1", "p1", 100, 2),
	}, nil).Once()

	require.NoError(t, sync.HandleSessionChange(context.Background()))
	assert.Equal(t, StateReady, sync.State())
	assert.Equal(t, 2, store.Count())
}

// --- AddItem ---

func TestAddItem_RequiresSession(t *testing.T) {
	apiMock := new(mockCartAPI)
	sync, _ := newTestSync(apiMock, &fakeSession{authenticated: false})

	err := sync.AddItem(context.Background(), product("p1", 100), 1)

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	apiMock.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything)
}

func TestAddItem_RequiresProductID(t *testing.T) {
	apiMock := new(mockCartAPI)
	sync, _ := newTestSync(apiMock, &fakeSession{authenticated: true, userID: "u1"})

	err := sync.AddItem(context.Background(), domain.Product{}, 1)

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	apiMock.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything)
}

func TestAddItem_ReplacesStoreWithServerList(t *testing.T) {
	apiMock := new(mockCartAPI)
	sync, store := newTestSync(apiMock, &fakeSession{authenticated: true, userID: "u1"})

	// The server merged the add into an existing line.
	merged := testLine("l1", "p1", 10000, 3)
	apiMock.On("AddItem", mock.Anything, mock.MatchedBy(func(req api.AddItemRequest) bool {
		return req.ProductID == "p1" && req.Quantity == 1 && req.Product.ProductID == "p1"
	})).Return([]domain.LineItem{merged}, nil)

	err := sync.AddItem(context.Background(), product("p1", 10000), 1)

	require.NoError(t, err)
	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	apiMock.AssertExpectations(t)
}

func TestAddItem_DefaultsQuantityToOne(t *testing.T) {
	apiMock := new(mockCartAPI)
	sync, _ := newTestSync(apiMock, &fakeSession{authenticated: true, userID: "u1"})

	apiMock.On("AddItem", mock.Anything, mock.MatchedBy(func(req api.AddItemRequest) bool {
		return req.Quantity == 1
	})).Return([]domain.LineItem{testLine("l1", "p1", 100, 1)}, nil)

	require.NoError(t, sync.AddItem(context.Background(), product("p1", 100), 0))
	apiMock.AssertExpectations(t)
}

func TestAddItem_FailureTriggersCorrectiveRefetch(t *testing.T) {
	apiMock := new(mockCartAPI)
	sync, store := newTestSync(apiMock, &fakeSession{authenticated: true, userID: "u1"})

	boom := apperrors.ServiceUnavailable("upstream down")
	apiMock.On("AddItem", mock.Anything, mock.Anything).Return(nil, boom)
	apiMock.On("FetchCart", mock.Anything).Return([]domain.LineItem{
		testLine("l1", "p1", 100, 2),
	}, nil)

	err := sync.AddItem(context.Background(), product("p2", 200), 1)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavail)
	// Consistency restored from server truth even though the add failed.
	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "l1", items[0].ID)
	apiMock.AssertExpectations(t)
}

func TestAddItem_FailureThenRefetchFailure(t *testing.T) {
	apiMock := new(mockCartAPI)
	sync, store := newTestSync(apiMock, &fakeSession{authenticated: true, userID: "u1"})

	store.Replace([]domain.LineItem{testLine("l1", "p1", 100, 1)})

	boom := errors.New("write failed")
	apiMock.On("AddItem", mock.Anything, mock.Anything).Return(nil, boom)
	apiMock.On("FetchCart", mock.Anything).Return(nil, errors.New("read failed"))

	err := sync.AddItem(context.Background(), product("p2", 200), 1)

	require.Error(t, err)
	assert.ErrorIs(t, err, boom, "the original failure is reported, not the re-fetch one")
	assert.Empty(t, store.Items(), "falls back to empty when server truth is unavailable")
}

func TestAddItem_AuthFailureSkipsRefetch(t *testing.T) {
	apiMock := new(mockCartAPI)
	sync, _ := newTestSync(apiMock, &fakeSession{authenticated: true, userID: "u1"})

	apiMock.On("AddItem", mock.Anything, mock.Anything).
		Return(nil, apperrors.Unauthorized("token expired"))

	err := sync.AddItem(context.Background(), product("p1", 100), 1)

	require.Error(t, err)
	assert.True(t, apperrors.IsAuthError(err))
	apiMock.AssertNotCalled(t, "FetchCart", mock.Anything)
}

// --- UpdateQuantity / RemoveItem ---

func TestUpdateQuantity_UnknownLine(t *testing.T) {
	apiMock := new(mockCartAPI)
	sync, _ := newTestSync(apiMock, &fakeSession{authenticated: true, userID: "u1"})

	err := sync.UpdateQuantity(context.Background(), "nope", 3)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	apiMock.AssertNotCalled(t, "UpdateItemQuantity", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateQuantity_CorruptLine(t *testing.T) {
	apiMock := new(mockCartAPI)
	sync, store := newTestSync(apiMock, &fakeSession{authenticated: true, userID: "u1"})

	store.Replace([]domain.LineItem{{ID: "l1", Quantity: 1}})

	err := sync.UpdateQuantity(context.Background(), "l1", 3)

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	apiMock.AssertNotCalled(t, "UpdateItemQuantity", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateQuantity_ForwardsValueUntouched(t *testing.T) {
	apiMock := new(mockCartAPI)
	sync, store := newTestSync(apiMock, &fakeSession{authenticated: true, userID: "u1"})

	store.Replace([]domain.LineItem{testLine("l1", "p1", 100, 1)})

	apiMock.On("UpdateItemQuantity", mock.Anything, "l1", 7).
		Return([]domain.LineItem{testLine("l1", "p1", 100, 7)}, nil)

	require.NoError(t, sync.UpdateQuantity(context.Background(), "l1", 7))
	assert.Equal(t, 7, store.Count())
	apiMock.AssertExpectations(t)
}

func TestRemoveItem(t *testing.T) {
	apiMock := new(mockCartAPI)
	sync, store := newTestSync(apiMock, &fakeSession{authenticated: true, userID: "u1"})

	store.Replace([]domain.LineItem{
		testLine("l1", "p1", 100, 1),
		testLine("l2", "p2", 200, 1),
	})

	apiMock.On("RemoveItem", mock.Anything, "l1").
		Return([]domain.LineItem{testLine("l2", "p2", 200, 1)}, nil)

	require.NoError(t, sync.RemoveItem(context.Background(), "l1"))

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "l2", items[0].ID)
}

func TestRemoveItem_RequiresSession(t *testing.T) {
	apiMock := new(mockCartAPI)
	sync, store := newTestSync(apiMock, &fakeSession{authenticated: false})

	store.Replace([]domain.LineItem{testLine("l1", "p1", 100, 1)})

	err := sync.RemoveItem(context.Background(), "l1")

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	apiMock.AssertNotCalled(t, "RemoveItem", mock.Anything, mock.Anything)
}

// --- Clear ---

func TestClear(t *testing.T) {
	apiMock := new(mockCartAPI)
	sync, store := newTestSync(apiMock, &fakeSession{authenticated: true, userID: "u1"})

	store.Replace([]domain.LineItem{testLine("l1", "p1", 100, 2)})

	apiMock.On("ClearCart", mock.Anything).Return(nil)

	require.NoError(t, sync.Clear(context.Background()))
	assert.Empty(t, store.Items())
	assert.Equal(t, StateReady, sync.State())
}

func TestClear_FailureTriggersCorrectiveRefetch(t *testing.T) {
	apiMock := new(mockCartAPI)
	sync, store := newTestSync(apiMock, &fakeSession{authenticated: true, userID: "u1"})

	boom := errors.New("clear failed")
	apiMock.On("ClearCart", mock.Anything).Return(boom)
	apiMock.On("FetchCart", mock.Anything).Return([]domain.LineItem{
		testLine("l1", "p1", 100, 2),
	}, nil)

	err := sync.Clear(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, store.Items(), 1, "server truth restored after failed clear")
}

// --- Stale responses ---

func TestReset_DiscardsInFlightResponse(t *testing.T) {
	apiMock := new(mockCartAPI)
	sess := &fakeSession{authenticated: true, userID: "u1"}
	sync, store := newTestSync(apiMock, sess)

	// Sign-out lands while the add is on the wire; its response must not
	// resurrect the cart.
	apiMock.On("AddItem", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			sess.authenticated = false
			sync.Reset()
		}).
		Return([]domain.LineItem{testLine("l1", "p1", 100, 1)}, nil)

	require.NoError(t, sync.AddItem(context.Background(), product("p1", 100), 1))

	assert.Empty(t, store.Items())
	assert.Equal(t, StateEmpty, sync.State())
}

func TestOverlappingMutations_StaleResponseDiscarded(t *testing.T) {
	apiMock := new(mockCartAPI)
	sync, store := newTestSync(apiMock, &fakeSession{authenticated: true, userID: "u1"})

	store.Replace([]domain.LineItem{testLine("l1", "p1", 100, 1)})

	// A remove fires and resolves while the earlier quantity update is still
	// on the wire. The update's response arrives last but carries older
	// server state; it must not overwrite the remove's result.
	apiMock.On("RemoveItem", mock.Anything, "l1").
		Return([]domain.LineItem{}, nil)
	apiMock.On("UpdateItemQuantity", mock.Anything, "l1", 5).
		Run(func(args mock.Arguments) {
			require.NoError(t, sync.RemoveItem(context.Background(), "l1"))
		}).
		Return([]domain.LineItem{testLine("l1", "p1", 100, 5)}, nil)

	require.NoError(t, sync.UpdateQuantity(context.Background(), "l1", 5))

	assert.Empty(t, store.Items(), "the newer remove result wins over the stale update response")
	assert.Equal(t, StateReady, sync.State())
	apiMock.AssertExpectations(t)
}

func TestLoading(t *testing.T) {
	apiMock := new(mockCartAPI)
	sync, _ := newTestSync(apiMock, &fakeSession{authenticated: true, userID: "u1"})

	apiMock.On("FetchCart", mock.Anything).
		Run(func(args mock.Arguments) {
			assert.True(t, sync.Loading())
		}).
		Return([]domain.LineItem{}, nil)

	require.NoError(t, sync.Initialize(context.Background()))
	assert.False(t, sync.Loading())
}
