package session

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"beerpong/internal/network"
)

// fakeConn implementa ClientConn com um canal que o teste pode ler.
type fakeConn struct {
	id   string
	sent chan network.Message
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id, sent: make(chan network.Message, 32)}
}

func (f *fakeConn) ID() string                   { return f.id }
func (f *fakeConn) Send() chan<- network.Message { return f.sent }

// recv espera a próxima mensagem enviada para a conexão falsa.
func recv(t *testing.T, conn *fakeConn) network.Message {
	t.Helper()
	select {
	case msg := <-conn.sent:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatalf("no message arrived for client %s", conn.id)
		return network.Message{}
	}
}

// expectSilence garante que nada chegou para a conexão falsa.
func expectSilence(t *testing.T, conn *fakeConn) {
	t.Helper()
	select {
	case msg := <-conn.sent:
		t.Fatalf("unexpected message %s for client %s", msg.Type, conn.id)
	case <-time.After(100 * time.Millisecond):
	}
}

func decodePayload(t *testing.T, msg network.Message, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(msg.Payload, out))
}

// recordingSink guarda os eventos publicados, em ordem.
type recordingSink struct {
	mu     sync.Mutex
	events []string
}

func (s *recordingSink) Publish(event string, payload any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingSink) Events() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.events...)
}

func newTestRegistry(sink EventSink) *Registry {
	reg := NewRegistry(sink)
	go reg.Run()
	return reg
}
