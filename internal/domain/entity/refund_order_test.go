package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRefundOrder_Cancel(t *testing.T) {
	order := &RefundOrder{Status: OrderStatusValid}

	assert.True(t, order.Cancel(500))
	assert.True(t, order.IsCanceled())
	assert.Equal(t, int64(500), order.CanceledAt)
	assert.Equal(t, int64(500), order.UpdatedAt)

	// One way only: a second cancel is rejected and leaves the original
	// timestamp untouched.
	assert.False(t, order.Cancel(600))
	assert.Equal(t, int64(500), order.CanceledAt)
}
