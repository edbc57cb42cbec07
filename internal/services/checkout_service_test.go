package services_test

import (
	"fmt"
	"sync"
	"testing"

	"robokart/internal/models"
	"robokart/internal/repositories"
	"robokart/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockEventPublisher records published events.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(routingKey string, body []byte) error {
	args := m.Called(routingKey, body)
	return args.Error(0)
}

var testAddress = models.ShippingAddress{
	Street:  "12 Circuit Lane",
	City:    "Pune",
	State:   "Maharashtra",
	ZipCode: "411001",
	Country: "India",
}

// checkoutFixture wires a CheckoutService and a CartService over shared
// in-memory repositories.
type checkoutFixture struct {
	checkout    *services.CheckoutService
	carts       *services.CartService
	productRepo *repositories.MockProductRepository
	orderRepo   *repositories.MockOrderRepository
	cartRepo    *repositories.MockCartRepository
}

func newCheckoutFixture() *checkoutFixture {
	productRepo := repositories.NewMockProductRepository()
	orderRepo := repositories.NewMockOrderRepository()
	cartRepo := repositories.NewMockCartRepository()
	return &checkoutFixture{
		checkout:    services.NewCheckoutService(cartRepo, orderRepo, productRepo, nil),
		carts:       services.NewCartService(cartRepo, productRepo),
		productRepo: productRepo,
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
	}
}

func (f *checkoutFixture) seedProduct(t *testing.T, name string, price float64, stock int) string {
	t.Helper()
	product := &models.Product{
		Name:        name,
		Description: name + " for robots",
		Price:       price,
		Stock:       stock,
		Category:    "Motors",
		Image:       name + ".jpg",
	}
	require.NoError(t, f.productRepo.Create(product))
	return product.ID
}

func (f *checkoutFixture) stockOf(t *testing.T, productID string) int {
	t.Helper()
	product, err := f.productRepo.GetByID(productID)
	require.NoError(t, err)
	return product.Stock
}

func TestCheckout_HappyPath(t *testing.T) {
	f := newCheckoutFixture()
	productID := f.seedProduct(t, "DC Motor", 10.0, 5)

	_, err := f.carts.AddItem("user-1", productID, 3)
	require.NoError(t, err)

	order, err := f.checkout.Checkout("user-1", testAddress)
	require.NoError(t, err)

	require.Len(t, order.Items, 1)
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.Equal(t, 10.0, order.Items[0].Price)
	assert.Equal(t, 30.0, order.Total)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, testAddress, order.ShippingAddress)
	require.NotNil(t, order.Items[0].Product)

	// Stock reserved, cart emptied.
	assert.Equal(t, 2, f.stockOf(t, productID))
	cart, err := f.carts.GetCart("user-1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	// The order is on record for the user.
	orders, err := f.orderRepo.GetAllByUserID("user-1")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := newCheckoutFixture()

	// No cart at all.
	_, err := f.checkout.Checkout("user-1", testAddress)
	assert.ErrorIs(t, err, services.ErrCartEmpty)

	// A cart with zero items.
	_, err = f.carts.GetCart("user-1")
	require.NoError(t, err)
	_, err = f.checkout.Checkout("user-1", testAddress)
	assert.ErrorIs(t, err, services.ErrCartEmpty)
}

func TestCheckout_InsufficientStock_LeavesStateUntouched(t *testing.T) {
	f := newCheckoutFixture()
	productID := f.seedProduct(t, "DC Motor", 10.0, 5)

	_, err := f.carts.AddItem("user-1", productID, 5)
	require.NoError(t, err)

	// Another buyer drains the stock before user-1 checks out.
	require.NoError(t, f.productRepo.DecrementStock(productID, 3))

	_, err = f.checkout.Checkout("user-1", testAddress)
	var stockErr *services.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "DC Motor", stockErr.ProductName)

	// Nothing moved: stock stays at 2, the cart keeps its items, no order.
	assert.Equal(t, 2, f.stockOf(t, productID))
	cart, err := f.carts.GetCart("user-1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	orders, err := f.orderRepo.GetAllByUserID("user-1")
	require.NoError(t, err)
	assert.Empty(t, orders)

	// After restocking, retrying the same cart succeeds.
	require.NoError(t, f.productRepo.IncrementStock(productID, 3))
	order, err := f.checkout.Checkout("user-1", testAddress)
	require.NoError(t, err)
	assert.Equal(t, 50.0, order.Total)
	assert.Equal(t, 0, f.stockOf(t, productID))
}

func TestCheckout_ProductDeletedAfterCarting(t *testing.T) {
	f := newCheckoutFixture()
	productID := f.seedProduct(t, "DC Motor", 10.0, 5)

	_, err := f.carts.AddItem("user-1", productID, 1)
	require.NoError(t, err)

	require.NoError(t, f.productRepo.Delete(productID))

	_, err = f.checkout.Checkout("user-1", testAddress)
	assert.ErrorIs(t, err, services.ErrProductUnavailable)

	// The cart still holds the line; no order was created.
	cart, err := f.cartRepo.GetByUserID("user-1")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	orders, err := f.orderRepo.GetAllByUserID("user-1")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCheckout_PriceSnapshotIsFrozen(t *testing.T) {
	f := newCheckoutFixture()
	productID := f.seedProduct(t, "DC Motor", 10.0, 5)

	_, err := f.carts.AddItem("user-1", productID, 3)
	require.NoError(t, err)

	order, err := f.checkout.Checkout("user-1", testAddress)
	require.NoError(t, err)
	require.Equal(t, 30.0, order.Total)

	// A later price change must not touch the recorded order.
	product, err := f.productRepo.GetByID(productID)
	require.NoError(t, err)
	product.Price = 99.0
	require.NoError(t, f.productRepo.Update(product))

	stored, err := f.orderRepo.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, 30.0, stored.Total)
	assert.Equal(t, 10.0, stored.Items[0].Price)
	assert.Equal(t, stored.Total, stored.CalculateTotal())
}

// When a later product's reservation fails, decrements already applied for
// earlier products must be released.
func TestCheckout_CompensatesEarlierDecrements(t *testing.T) {
	cartRepo := repositories.NewMockCartRepository()
	orderRepo := repositories.NewMockOrderRepository()
	productRepo := new(MockProductRepository)
	service := services.NewCheckoutService(cartRepo, orderRepo, productRepo, nil)

	alpha := &models.Product{ID: "prod-a", Name: "Motor A", Price: 10.0, Stock: 5}
	bravo := &models.Product{ID: "prod-b", Name: "Motor B", Price: 20.0, Stock: 5}

	cart, err := cartRepo.GetOrCreateByUserID("user-1")
	require.NoError(t, err)
	cart.Items = []models.CartItem{
		{ProductID: "prod-b", Quantity: 1},
		{ProductID: "prod-a", Quantity: 2},
	}
	require.NoError(t, cartRepo.Save(cart))

	productRepo.On("GetByID", "prod-a").Return(alpha, nil)
	productRepo.On("GetByID", "prod-b").Return(bravo, nil)
	// Items are processed in ascending product ID order: prod-a first.
	productRepo.On("DecrementStock", "prod-a", 2).Return(nil).Once()
	productRepo.On("DecrementStock", "prod-b", 1).
		Return(fmt.Errorf("stock gone: %w", repositories.ErrInsufficientStock)).Once()
	// The already-applied decrement must be released.
	productRepo.On("IncrementStock", "prod-a", 2).Return(nil).Once()

	_, err = service.Checkout("user-1", testAddress)
	var stockErr *services.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Motor B", stockErr.ProductName)

	productRepo.AssertExpectations(t)

	// No order, cart intact.
	orders, err := orderRepo.GetAllByUserID("user-1")
	require.NoError(t, err)
	assert.Empty(t, orders)
	stored, err := cartRepo.GetByUserID("user-1")
	require.NoError(t, err)
	assert.Len(t, stored.Items, 2)
}

// If persisting the order fails after stock was reserved, every decrement
// is rolled back.
func TestCheckout_CompensatesWhenOrderCreateFails(t *testing.T) {
	cartRepo := repositories.NewMockCartRepository()
	orderRepo := new(MockOrderRepository)
	productRepo := repositories.NewMockProductRepository()
	service := services.NewCheckoutService(cartRepo, orderRepo, productRepo, nil)

	product := &models.Product{Name: "DC Motor", Price: 10.0, Stock: 5, Category: "Motors", Image: "m.jpg", Description: "d"}
	require.NoError(t, productRepo.Create(product))

	cart, err := cartRepo.GetOrCreateByUserID("user-1")
	require.NoError(t, err)
	cart.Items = []models.CartItem{{ProductID: product.ID, Quantity: 3}}
	require.NoError(t, cartRepo.Save(cart))

	orderRepo.On("Create", mock.AnythingOfType("*models.Order")).
		Return(fmt.Errorf("connection reset")).Once()

	_, err = service.Checkout("user-1", testAddress)
	require.Error(t, err)

	// Stock is back where it started and the cart survived.
	stored, err := productRepo.GetByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.Stock)
	kept, err := cartRepo.GetByUserID("user-1")
	require.NoError(t, err)
	assert.Len(t, kept.Items, 1)
	orderRepo.AssertExpectations(t)
}

// Two buyers race for the last unit: exactly one order is created, the
// loser fails with an insufficient stock error, and the stock hits zero
// without going negative.
func TestCheckout_ConcurrentBuyersLastUnit(t *testing.T) {
	f := newCheckoutFixture()
	productID := f.seedProduct(t, "DC Motor", 10.0, 1)

	_, err := f.carts.AddItem("user-1", productID, 1)
	require.NoError(t, err)
	_, err = f.carts.AddItem("user-2", productID, 1)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, userID := range []string{"user-1", "user-2"} {
		wg.Add(1)
		go func(i int, userID string) {
			defer wg.Done()
			_, errs[i] = f.checkout.Checkout(userID, testAddress)
		}(i, userID)
	}
	wg.Wait()

	var succeeded, failed int
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		failed++
		var stockErr *services.InsufficientStockError
		assert.ErrorAs(t, err, &stockErr)
	}
	assert.Equal(t, 1, succeeded, "exactly one checkout must win")
	assert.Equal(t, 1, failed)

	assert.Equal(t, 0, f.stockOf(t, productID))
	all, err := f.orderRepo.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCheckout_PublishesOrderCreatedEvent(t *testing.T) {
	productRepo := repositories.NewMockProductRepository()
	orderRepo := repositories.NewMockOrderRepository()
	cartRepo := repositories.NewMockCartRepository()
	publisher := new(MockEventPublisher)
	service := services.NewCheckoutService(cartRepo, orderRepo, productRepo, publisher)
	carts := services.NewCartService(cartRepo, productRepo)

	product := &models.Product{Name: "DC Motor", Price: 10.0, Stock: 5, Category: "Motors", Image: "m.jpg", Description: "d"}
	require.NoError(t, productRepo.Create(product))
	_, err := carts.AddItem("user-1", product.ID, 1)
	require.NoError(t, err)

	publisher.On("Publish", "order.created", mock.Anything).Return(nil).Once()

	_, err = service.Checkout("user-1", testAddress)
	require.NoError(t, err)
	publisher.AssertExpectations(t)
}
