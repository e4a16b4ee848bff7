package session

import (
	"sync"

	"beerpong/internal/network"
)

// Constantes de estado da sessão para evitar erros de digitação.
const (
	state_LOBBY   = "lobby"   // Jogador está online e pode criar/entrar em uma sala.
	state_IN_ROOM = "in-room" // Jogador está dentro de uma partida.
)

// ClientConn é o que a camada de sessão precisa de uma conexão: uma
// identidade opaca e um canal de saída. *network.Client satisfaz isso;
// os testes usam uma implementação falsa.
type ClientConn interface {
	ID() string
	Send() chan<- network.Message
}

// PlayerSession representa um jogador único e conectado ao servidor.
// O estado e a sala atual são lidos pela goroutine do Hub e escritos
// pela goroutine da sala (no disband, por exemplo), então ficam atrás
// de um mutex pequeno.
type PlayerSession struct {
	Conn ClientConn

	mu    sync.Mutex
	state string
	room  *Room
}

// NewPlayerSession cria e inicializa uma nova sessão de jogador.
func NewPlayerSession(conn ClientConn) *PlayerSession {
	return &PlayerSession{
		Conn:  conn,
		state: state_LOBBY, // Todo jogador começa no lobby.
	}
}

// ClientID é o identificador da conexão, usado como clientId nas salas.
func (s *PlayerSession) ClientID() string {
	return s.Conn.ID()
}

// State devolve o estado atual ("lobby" ou "in-room").
func (s *PlayerSession) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Room devolve a sala atual, ou nil se o jogador está no lobby.
func (s *PlayerSession) Room() *Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room
}

// EnterRoom marca a sessão como dentro de uma sala.
func (s *PlayerSession) EnterRoom(r *Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state_IN_ROOM
	s.room = r
}

// LeaveRoom devolve a sessão ao lobby, limpando a referência da sala.
func (s *PlayerSession) LeaveRoom() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state_LOBBY
	s.room = nil
}
