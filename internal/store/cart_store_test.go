package store

import (
	"sync"
	"testing"

	"github.com/fjod/go_cart/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartStore_GetOrCreate_Idempotent(t *testing.T) {
	store := NewCartStore()

	first := store.GetOrCreate("u1")
	second := store.GetOrCreate("u1")
	other := store.GetOrCreate("u2")

	assert.Equal(t, "1", first.ID)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "2", other.ID)
	assert.Equal(t, "u1", first.UserID)
	assert.Empty(t, first.Items)
}

func TestCartStore_GetOrCreate_Concurrent(t *testing.T) {
	store := NewCartStore()

	var wg sync.WaitGroup
	ids := make([]string, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = store.GetOrCreate("u1").ID
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	next := store.GetOrCreate("u2")
	assert.Equal(t, "2", next.ID)
}

func TestCartStore_Find_NotFound(t *testing.T) {
	store := NewCartStore()

	_, err := store.FindByID("1")
	assert.ErrorIs(t, err, ErrCartNotFound)

	_, err = store.FindByUser("u1")
	assert.ErrorIs(t, err, ErrCartNotFound)

	_, _, err = store.FindItemOwner("ci1")
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartStore_Save_IndexesItems(t *testing.T) {
	store := NewCartStore()
	cart := store.GetOrCreate("u1")

	cart.Items = append(cart.Items,
		domain.CartItem{ID: store.NextItemID(), ProductID: "p1", Quantity: 1},
		domain.CartItem{ID: store.NextItemID(), ProductID: "p2", Quantity: 2},
	)
	require.NoError(t, store.Save(cart))

	owner, item, err := store.FindItemOwner("ci2")
	require.NoError(t, err)
	assert.Equal(t, cart.ID, owner.ID)
	assert.Equal(t, "p2", item.ProductID)
	assert.Len(t, owner.Items, 2)

	byUser, err := store.FindByUser("u1")
	require.NoError(t, err)
	assert.Len(t, byUser.Items, 2)
}

func TestCartStore_Save_DropsRemovedItemsFromIndex(t *testing.T) {
	store := NewCartStore()
	cart := store.GetOrCreate("u1")
	cart.Items = []domain.CartItem{{ID: store.NextItemID(), ProductID: "p1", Quantity: 1}}
	require.NoError(t, store.Save(cart))

	cart.Items = []domain.CartItem{}
	require.NoError(t, store.Save(cart))

	_, _, err := store.FindItemOwner("ci1")
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartStore_Save_UnknownCart(t *testing.T) {
	store := NewCartStore()

	err := store.Save(domain.Cart{ID: "42"})
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestCartStore_ReturnsCopies(t *testing.T) {
	store := NewCartStore()
	cart := store.GetOrCreate("u1")
	cart.Items = []domain.CartItem{{ID: store.NextItemID(), ProductID: "p1", Quantity: 1}}
	require.NoError(t, store.Save(cart))

	cart.Items[0].Quantity = 99

	stored, err := store.FindByID(cart.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Items[0].Quantity)
}

func TestCartStore_NextItemID_Sequential(t *testing.T) {
	store := NewCartStore()

	assert.Equal(t, "ci1", store.NextItemID())
	assert.Equal(t, "ci2", store.NextItemID())
}
