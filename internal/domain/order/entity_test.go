package order

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecipient() Recipient {
	return Recipient{
		Name:    "Jan Kowalski",
		Phone:   "+48 600 100 200",
		Street:  "Marszałkowska 1",
		City:    "Warszawa",
		ZipCode: "00-001",
		Email:   "jan@example.com",
	}
}

func TestNewOrder_Total(t *testing.T) {
	// Effective Java 5×120.00 + Java Puzzlers 5×95.00 = 1075.00
	o := NewOrder("BOS1", 7, validRecipient(), []Item{
		{BookID: 1, Quantity: 5, UnitPrice: decimal.RequireFromString("120.00")},
		{BookID: 2, Quantity: 5, UnitPrice: decimal.RequireFromString("95.00")},
	})

	assert.Equal(t, StatusNew, o.Status)
	assert.Equal(t, "1075.00", o.Total.StringFixed(2))
	assert.Equal(t, uint(7), o.UserID)
}

func TestOrder_TransitionTo(t *testing.T) {
	p := DefaultPolicy()

	t.Run("合法流转", func(t *testing.T) {
		o := NewOrder("BOS1", 1, validRecipient(), nil)
		require.NoError(t, o.TransitionTo(p, StatusAccepted))
		require.NoError(t, o.TransitionTo(p, StatusSent))
		assert.Equal(t, StatusSent, o.Status)
	})

	t.Run("非法流转状态不变", func(t *testing.T) {
		o := NewOrder("BOS2", 1, validRecipient(), nil)
		err := o.TransitionTo(p, StatusSent)
		assert.ErrorIs(t, err, ErrInvalidStatusTransition)
		assert.Contains(t, err.Error(), "允许的状态: ACCEPTED, CANCELED")
		assert.Equal(t, StatusNew, o.Status)
	})

	t.Run("终态", func(t *testing.T) {
		o := NewOrder("BOS3", 1, validRecipient(), nil)
		require.NoError(t, o.TransitionTo(p, StatusCanceled))
		err := o.TransitionTo(p, StatusAccepted)
		assert.ErrorIs(t, err, ErrInvalidStatusTransition)
		assert.Contains(t, err.Error(), "终态")
	})
}

func TestOrder_ReleasesStock(t *testing.T) {
	o := NewOrder("BOS1", 1, validRecipient(), nil)
	assert.True(t, o.ReleasesStockOn(StatusCanceled))
	assert.False(t, o.ReleasesStockOn(StatusAccepted))
	assert.True(t, o.ReleasesStockOnDelete())

	o.Status = StatusAccepted
	assert.False(t, o.ReleasesStockOn(StatusCanceled))
	assert.False(t, o.ReleasesStockOnDelete())
}

func TestOrder_QuantitiesByBook(t *testing.T) {
	o := &Order{Items: []Item{
		{BookID: 1, Quantity: 2},
		{BookID: 2, Quantity: 1},
		{BookID: 1, Quantity: 3},
	}}
	assert.Equal(t, map[uint]int{1: 5, 2: 1}, o.QuantitiesByBook())
}

func TestRecipient_Validate(t *testing.T) {
	assert.NoError(t, validRecipient().Validate())

	r := validRecipient()
	r.City = " "
	r.Phone = ""
	err := r.Validate()
	assert.ErrorIs(t, err, ErrInvalidRecipient)
	assert.Contains(t, err.Error(), "phone, city")

	r = validRecipient()
	r.Email = "not-an-email"
	assert.ErrorIs(t, r.Validate(), ErrInvalidRecipient)
}

func TestGenerateOrderNo(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	a := GenerateOrderNo(now)
	b := GenerateOrderNo(now)

	assert.True(t, strings.HasPrefix(a, "BOS20240315"))
	assert.Len(t, a, len("BOS20240315")+12)
	assert.NotEqual(t, a, b)
}
