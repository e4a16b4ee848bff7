package session

import (
	"encoding/json"
	"fmt"

	"beerpong/internal/network"
	"beerpong/internal/session/message"
)

// CommandHandlerFunc define a assinatura para todas as nossas funções que
// lidam com comandos. Elas recebem o contexto da sessão e o payload bruto.
type CommandHandlerFunc func(h *GameHandler, session *PlayerSession, payload json.RawMessage)

// GameHandler implementa network.EventHandler: é o roteador de mensagens
// por conexão. Ele deserializa os frames e os encaminha para o registry
// ou para a sala dona, conforme o estado do jogador.
//
// Todos os métodos On* rodam na goroutine única do Hub, então o mapa de
// sessões não precisa de lock.
type GameHandler struct {
	sessions map[*network.Client]*PlayerSession
	registry *Registry

	// Um roteador para cada estado do jogador.
	lobbyRouter map[string]CommandHandlerFunc
	matchRouter map[string]CommandHandlerFunc
}

// NewGameHandler também inicializa e registra os handlers dos roteadores.
func NewGameHandler(registry *Registry) *GameHandler {
	h := &GameHandler{
		sessions:    make(map[*network.Client]*PlayerSession),
		registry:    registry,
		lobbyRouter: make(map[string]CommandHandlerFunc),
		matchRouter: make(map[string]CommandHandlerFunc),
	}
	h.registerLobbyHandlers()
	h.registerMatchHandlers()
	return h
}

// --- Implementação da interface network.EventHandler ---

// OnConnect é chamado pela goroutine do network.Hub. É seguro modificar o estado aqui.
func (h *GameHandler) OnConnect(c *network.Client) {
	session := NewPlayerSession(c)
	h.sessions[c] = session
	fmt.Printf("Session created for %s (%s). Total sessions: %d\n",
		c.ID(), c.Conn().RemoteAddr(), len(h.sessions))

	// O cliente precisa saber a identidade que recebeu para reconhecer
	// o próprio PlayerState nos snapshots.
	c.Send() <- message.CreateConnected(c.ID())
}

func (h *GameHandler) OnDisconnect(c *network.Client) {
	session, ok := h.sessions[c]
	if !ok {
		// Se não havia sessão, não há nada para limpar.
		return
	}

	// Desconexão não é erro: vira um leave normal na fila da sala.
	if room := session.Room(); room != nil {
		fmt.Printf("Client %s disconnected from room %s.\n", session.ClientID(), room.ID)
		room.Leave(session.ClientID())
	}

	delete(h.sessions, c)
	fmt.Printf("Session for %s removed. Total sessions: %d\n", session.ClientID(), len(h.sessions))
}

// OnMessage é um despachante limpo e simples.
func (h *GameHandler) OnMessage(c *network.Client, msg network.Message) {
	session, ok := h.sessions[c]
	if !ok {
		return // Ignora mensagens de clientes sem sessão.
	}

	// 1. Seleciona o roteador apropriado baseado no estado do jogador.
	var router map[string]CommandHandlerFunc
	switch session.State() {
	case state_LOBBY:
		router = h.lobbyRouter
	case state_IN_ROOM:
		router = h.matchRouter
	default:
		message.SendError(c, CodeUnknownCommand, "Invalid state of player: %s", session.State())
		return
	}

	// 2. Procura pelo handler do comando no roteador selecionado.
	handler, found := router[msg.Type]
	if !found {
		message.SendError(c, CodeUnknownCommand,
			"Unknown or invalid command for current state of player: %s", msg.Type)
		return
	}

	// 3. Executa o handler encontrado. Um payload malformado nunca derruba
	// a sala: o handler responde um erro e a sessão segue viva.
	handler(h, session, msg.Payload)
}
