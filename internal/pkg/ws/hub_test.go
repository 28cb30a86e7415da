package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub()

	c1 := &Client{CompanyID: 1}
	c2 := &Client{CompanyID: 1}
	c3 := &Client{CompanyID: 2}

	hub.Register(c1)
	hub.Register(c2)
	hub.Register(c3)

	assert.True(t, hub.IsOnline(1))
	assert.True(t, hub.IsOnline(2))
	assert.Equal(t, 3, hub.ConnectionCount())

	// 同一公司还剩一个连接时仍在线
	hub.Unregister(c1)
	assert.True(t, hub.IsOnline(1))
	assert.Equal(t, 2, hub.ConnectionCount())

	hub.Unregister(c2)
	assert.False(t, hub.IsOnline(1))
	assert.True(t, hub.IsOnline(2))
	assert.Equal(t, 1, hub.ConnectionCount())
}

func TestHubUnregisterUnknownClient(t *testing.T) {
	hub := NewHub()

	// 注销从未注册的连接不应 panic
	hub.Unregister(&Client{CompanyID: 42})
	assert.False(t, hub.IsOnline(42))
	assert.Equal(t, 0, hub.ConnectionCount())
}

func TestSendToCompanyWithoutConnections(t *testing.T) {
	hub := NewHub()

	// 没有在线连接时发送是空操作
	err := hub.SendToCompany(7, &Message{Type: "billing_event", Data: map[string]int{"amount": 100}})
	assert.NoError(t, err)
}
