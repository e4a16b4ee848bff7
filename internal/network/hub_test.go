package network

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type nopHandler struct{}

func (nopHandler) OnConnect(c *Client)              {}
func (nopHandler) OnDisconnect(c *Client)           {}
func (nopHandler) OnMessage(c *Client, msg Message) {}

func TestUnregisterLeavesSendOpen(t *testing.T) {
	h := NewHub(nopHandler{})
	go h.Run()

	c := &Client{
		id:   "client-a",
		hub:  h,
		send: make(chan Message, 1),
		quit: make(chan struct{}),
	}
	h.register <- c
	h.unregister <- c

	// O sinal de parada para o writeLoop é o quit.
	select {
	case <-c.quit:
	case <-time.After(2 * time.Second):
		t.Fatal("quit was not closed on unregister")
	}

	// O send continua aberto: outra goroutine (uma sala no meio de um
	// broadcast) ainda pode escrever nele sem derrubar o processo.
	c.send <- Message{Type: "PONG"}
	require.Len(t, c.send, 1)
}
