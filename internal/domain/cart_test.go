package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func idGen() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("ci%d", n)
	}
}

func TestCart_MergeItem(t *testing.T) {
	next := idGen()
	c := Cart{ID: "1", UserID: "u1"}

	c.MergeItem("p1", 2, next)
	c.MergeItem("p2", 1, next)
	c.MergeItem("p1", 3, next)

	require.Len(t, c.Items, 2)
	assert.Equal(t, "ci1", c.Items[0].ID)
	assert.Equal(t, 5, c.Items[0].Quantity)
	assert.False(t, c.Items[0].SelectedForCheckout)
	assert.Equal(t, "p2", c.Items[1].ProductID)
}

func TestCart_SetQuantity_RemovesOnNonPositive(t *testing.T) {
	next := idGen()
	c := Cart{}
	c.MergeItem("p1", 2, next)
	c.MergeItem("p2", 2, next)

	c.SetQuantity("ci1", 7)
	assert.Equal(t, 7, c.Items[0].Quantity)

	c.SetQuantity("ci1", 0)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "ci2", c.Items[0].ID)

	c.SetQuantity("ci2", -1)
	assert.Empty(t, c.Items)
}

func TestCart_SelectMany_IgnoresUnknown(t *testing.T) {
	next := idGen()
	c := Cart{}
	c.MergeItem("p1", 1, next)
	c.MergeItem("p2", 1, next)
	c.MergeItem("p3", 1, next)

	c.SelectMany([]string{"ci1", "ci3", "ci99"}, true)

	assert.True(t, c.Items[0].SelectedForCheckout)
	assert.False(t, c.Items[1].SelectedForCheckout)
	assert.True(t, c.Items[2].SelectedForCheckout)
}

func TestCart_TakeSelected_KeepsOrder(t *testing.T) {
	next := idGen()
	c := Cart{}
	c.MergeItem("p1", 1, next)
	c.MergeItem("p2", 1, next)
	c.MergeItem("p3", 1, next)
	c.Select("ci2", true)

	assert.True(t, c.HasSelected())
	taken := c.TakeSelected()

	require.Len(t, taken, 1)
	assert.Equal(t, "ci2", taken[0].ID)
	require.Len(t, c.Items, 2)
	assert.Equal(t, "ci1", c.Items[0].ID)
	assert.Equal(t, "ci3", c.Items[1].ID)
	assert.False(t, c.HasSelected())
}

func TestCart_Clone_IsIndependent(t *testing.T) {
	c := Cart{Items: []CartItem{{ID: "ci1", Quantity: 1}}}

	clone := c.Clone()
	clone.Items[0].Quantity = 5
	clone.RemoveItem("ci1")

	assert.Equal(t, 1, c.Items[0].Quantity)
}

func TestProductPatch_Apply(t *testing.T) {
	name, empty := "new", ""
	var zero int64
	p := Product{Name: "old", Price: 10, Description: "d"}

	ProductPatch{Name: &name, Price: &zero, Description: &empty}.Apply(&p)

	assert.Equal(t, "new", p.Name)
	assert.Equal(t, int64(10), p.Price)
	assert.Equal(t, "d", p.Description)
}
