package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus(" ACCEPTED ")
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, s)

	_, err = ParseStatus("")
	assert.ErrorIs(t, err, ErrStatusRequired)

	_, err = ParseStatus("SHIPPED")
	assert.ErrorIs(t, err, ErrUnknownStatus)

	// 大小写敏感
	_, err = ParseStatus("accepted")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusNew, StatusAccepted, true},
		{StatusNew, StatusCanceled, true},
		{StatusNew, StatusSent, false},
		{StatusNew, StatusNew, false},
		{StatusAccepted, StatusSent, true},
		{StatusAccepted, StatusCanceled, true},
		{StatusAccepted, StatusNew, false},
		{StatusSent, StatusCanceled, false},
		{StatusSent, StatusAccepted, false},
		{StatusCanceled, StatusNew, false},
		{StatusCanceled, StatusAccepted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"→"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, p.Allows(tt.from, tt.to))
		})
	}

	assert.True(t, p.IsTerminal(StatusSent))
	assert.True(t, p.IsTerminal(StatusCanceled))
	assert.False(t, p.IsTerminal(StatusNew))
	assert.Equal(t, []Status{StatusAccepted, StatusCanceled}, p.Targets(StatusNew))
}

func TestNewStatusPolicy_Validation(t *testing.T) {
	t.Run("不允许指向NEW", func(t *testing.T) {
		_, err := NewStatusPolicy(map[Status][]Status{StatusAccepted: {StatusNew}})
		assert.Error(t, err)
	})

	t.Run("CANCELED必须是终态", func(t *testing.T) {
		_, err := NewStatusPolicy(map[Status][]Status{StatusCanceled: {StatusSent}})
		assert.Error(t, err)
	})

	t.Run("未知状态", func(t *testing.T) {
		_, err := NewStatusPolicy(map[Status][]Status{"PAID": {StatusSent}})
		assert.Error(t, err)

		_, err = NewStatusPolicy(map[Status][]Status{StatusNew: {"LOST"}})
		assert.Error(t, err)
	})

	t.Run("自定义策略: SENT可以取消", func(t *testing.T) {
		p, err := NewStatusPolicy(map[Status][]Status{
			StatusNew:  {StatusSent},
			StatusSent: {StatusCanceled},
		})
		require.NoError(t, err)
		assert.True(t, p.Allows(StatusSent, StatusCanceled))
		assert.False(t, p.Allows(StatusNew, StatusAccepted))
		assert.True(t, p.IsTerminal(StatusAccepted))
	})
}
