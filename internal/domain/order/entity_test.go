package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotal(t *testing.T) {
	items := []LineItem{
		{ProductName: "Widget", Qty: 2, UnitPrice: 9.99},
		{ProductName: "Gadget", Qty: 1, UnitPrice: 4.50},
	}
	assert.InDelta(t, 24.48, ComputeTotal(items), 1e-9)
}

func TestComputeTotalEmpty(t *testing.T) {
	assert.Zero(t, ComputeTotal(nil))
}

func TestTotalSnapshotSurvivesPriceChange(t *testing.T) {
	items := []LineItem{{ProductName: "Widget", Qty: 2, UnitPrice: 9.99}}
	o := Order{Items: items, Total: ComputeTotal(items)}

	// The line item carries a copied price. Changing the catalog price
	// afterwards must not touch the stored total.
	assert.InDelta(t, 19.98, o.Total, 1e-9)
	items[0].UnitPrice = 100
	assert.InDelta(t, 19.98, o.Total, 1e-9)
}
