package cart

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atulkamble/ecommerce-devops-project/internal/domain"
	"github.com/atulkamble/ecommerce-devops-project/internal/storage"
)

func testLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestStore(kv storage.KV) *Store {
	sut := NewStore(kv, testLogger())
	sut.Initialize()
	return sut
}

var (
	laptop = domain.Product{ID: 1, Name: "MacBook Pro", Price: 2499.99, ImageURL: "/img/laptop.png"}
	phone  = domain.Product{ID: 2, Name: "iPhone", Price: 999.99}
	shoes  = domain.Product{ID: 3, Name: "Nike Air Max", Price: 129.99}
)

func TestAddItem_NewLines(t *testing.T) {
	sut := newTestStore(storage.NewMemoryKV())

	sut.AddItem(laptop, 1)
	sut.AddItem(phone, 2)

	lines := sut.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, int64(1), lines[0].ProductID)
	assert.Equal(t, "MacBook Pro", lines[0].Name)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.Equal(t, int64(2), lines[1].ProductID)
	assert.Equal(t, 2, lines[1].Quantity)
}

func TestAddItem_MergesQuantityForSameProduct(t *testing.T) {
	sut := newTestStore(storage.NewMemoryKV())

	sut.AddItem(domain.Product{ID: 1, Name: "p1", Price: 10}, 2)
	sut.AddItem(domain.Product{ID: 1, Name: "p1", Price: 10}, 3)

	lines := sut.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.InDelta(t, 50.0, sut.TotalPrice(), 1e-9)
}

func TestAddItem_MergeKeepsFirstSnapshot(t *testing.T) {
	sut := newTestStore(storage.NewMemoryKV())

	sut.AddItem(domain.Product{ID: 1, Name: "original", Price: 10, ImageURL: "/a.png"}, 1)
	// Same product with different display values: quantity merges, the
	// original snapshot stays.
	sut.AddItem(domain.Product{ID: 1, Name: "renamed", Price: 99, ImageURL: "/b.png"}, 1)

	lines := sut.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "original", lines[0].Name)
	assert.Equal(t, 10.0, lines[0].Price)
	assert.Equal(t, "/a.png", lines[0].ImageURL)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestAddItem_PreservesInsertionOrder(t *testing.T) {
	sut := newTestStore(storage.NewMemoryKV())

	sut.AddItem(shoes, 1)
	sut.AddItem(laptop, 1)
	sut.AddItem(shoes, 1) // merge must not move the line
	sut.AddItem(phone, 1)

	lines := sut.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, int64(3), lines[0].ProductID)
	assert.Equal(t, int64(1), lines[1].ProductID)
	assert.Equal(t, int64(2), lines[2].ProductID)
}

func TestRemoveItem_AbsentIDIsNoOp(t *testing.T) {
	sut := newTestStore(storage.NewMemoryKV())
	sut.AddItem(laptop, 1)

	sut.RemoveItem(42)

	assert.Len(t, sut.Lines(), 1)
}

func TestUpdateQuantity_ReplacesInPlace(t *testing.T) {
	sut := newTestStore(storage.NewMemoryKV())
	sut.AddItem(laptop, 1)
	sut.AddItem(phone, 1)

	sut.UpdateQuantity(1, 7)

	lines := sut.Lines()
	assert.Equal(t, 7, lines[0].Quantity)
	assert.Equal(t, 1, lines[1].Quantity)
}

func TestUpdateQuantity_ZeroDeletesLine(t *testing.T) {
	sut := newTestStore(storage.NewMemoryKV())
	sut.AddItem(laptop, 2)

	sut.UpdateQuantity(1, 0)

	assert.Empty(t, sut.Lines())
}

func TestUpdateQuantity_NegativeEquivalentToRemove(t *testing.T) {
	kvA := storage.NewMemoryKV()
	kvB := storage.NewMemoryKV()
	negative := newTestStore(kvA)
	removed := newTestStore(kvB)
	for _, sut := range []*Store{negative, removed} {
		sut.AddItem(laptop, 2)
		sut.AddItem(phone, 3)
	}

	negative.UpdateQuantity(1, -5)
	removed.RemoveItem(1)

	assert.Equal(t, removed.Lines(), negative.Lines())
}

func TestUpdateQuantity_AbsentIDIsNoOp(t *testing.T) {
	sut := newTestStore(storage.NewMemoryKV())
	sut.AddItem(laptop, 1)

	sut.UpdateQuantity(42, 5)

	lines := sut.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
}

func TestClear_EmptiesCartAndPersists(t *testing.T) {
	kv := storage.NewMemoryKV()
	sut := newTestStore(kv)
	sut.AddItem(laptop, 1)

	sut.Clear()

	assert.Empty(t, sut.Lines())

	reloaded := newTestStore(kv)
	assert.Empty(t, reloaded.Lines())
}

func TestTotals(t *testing.T) {
	sut := newTestStore(storage.NewMemoryKV())
	sut.AddItem(domain.Product{ID: 1, Price: 10.50}, 2)
	sut.AddItem(domain.Product{ID: 2, Price: 3.25}, 3)

	assert.Equal(t, 5, sut.TotalItemCount())
	assert.InDelta(t, 30.75, sut.TotalPrice(), 1e-9)
}

func TestTotals_EmptyCart(t *testing.T) {
	sut := newTestStore(storage.NewMemoryKV())

	assert.Equal(t, 0, sut.TotalItemCount())
	assert.Equal(t, 0.0, sut.TotalPrice())
}

func TestInitialize_PersistenceRoundTrip(t *testing.T) {
	kv := storage.NewMemoryKV()
	sut := newTestStore(kv)
	sut.AddItem(laptop, 2)
	sut.AddItem(phone, 1)
	sut.UpdateQuantity(2, 4)

	// Simulated restart: a fresh store over the same KV.
	reloaded := newTestStore(kv)

	assert.Equal(t, sut.Lines(), reloaded.Lines())
	assert.Equal(t, sut.TotalItemCount(), reloaded.TotalItemCount())
}

func TestInitialize_MalformedDataYieldsEmptyCart(t *testing.T) {
	kv := storage.NewMemoryKV()
	kv.Set("storefront_cart", "{not json")

	sut := newTestStore(kv)

	assert.Empty(t, sut.Lines())
	// The corrupt entry is purged, not left to fail again.
	_, ok := kv.Get("storefront_cart")
	assert.False(t, ok)
}

func TestInitialize_DropsNonPositiveQuantities(t *testing.T) {
	kv := storage.NewMemoryKV()
	kv.Set("storefront_cart", `[{"product_id":1,"quantity":2},{"product_id":2,"quantity":0},{"product_id":3,"quantity":-1}]`)

	sut := newTestStore(kv)

	lines := sut.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, int64(1), lines[0].ProductID)
}

func TestSnapshot_ProductIDAndQuantityOnly(t *testing.T) {
	sut := newTestStore(storage.NewMemoryKV())
	sut.AddItem(laptop, 2)
	sut.AddItem(phone, 1)

	snapshot := sut.Snapshot()

	require.Len(t, snapshot, 2)
	assert.Equal(t, domain.CheckoutItem{ProductID: 1, Quantity: 2}, snapshot[0])
	assert.Equal(t, domain.CheckoutItem{ProductID: 2, Quantity: 1}, snapshot[1])

	// Snapshot does not track later cart changes.
	sut.Clear()
	assert.Len(t, snapshot, 2)
}
