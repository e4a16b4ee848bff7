package session

import (
	"encoding/json"
	"strings"

	"beerpong/internal/session/message"
)

// Tipos de mensagem cliente -> servidor aceitos no lobby.
const (
	cmdCreateRoom   = "CREATE_ROOM"
	cmdJoinRoom     = "JOIN_ROOM"
	cmdJoinOrCreate = "JOIN_OR_CREATE"
	cmdPing         = "PING"
)

func (h *GameHandler) registerLobbyHandlers() {
	h.lobbyRouter[cmdCreateRoom] = handleCreateRoom
	h.lobbyRouter[cmdJoinRoom] = handleJoinRoom
	h.lobbyRouter[cmdJoinOrCreate] = handleJoinOrCreate
	h.lobbyRouter[cmdPing] = handlePing
}

// roomRequestPayload é o corpo dos três comandos de entrada em sala.
type roomRequestPayload struct {
	RoomName *string `json:"roomName"`
}

func handleCreateRoom(h *GameHandler, session *PlayerSession, payload json.RawMessage) {
	name, ok := decodeRoomName(session, payload)
	if !ok {
		return
	}
	room, err := h.registry.Create(name)
	h.enterRoom(session, room, err)
}

func handleJoinRoom(h *GameHandler, session *PlayerSession, payload json.RawMessage) {
	name, ok := decodeRoomName(session, payload)
	if !ok {
		return
	}
	room, err := h.registry.Join(name)
	h.enterRoom(session, room, err)
}

func handleJoinOrCreate(h *GameHandler, session *PlayerSession, payload json.RawMessage) {
	name, ok := decodeRoomName(session, payload)
	if !ok {
		return
	}
	room, err := h.registry.JoinOrCreate(name)
	h.enterRoom(session, room, err)
}

func handlePing(h *GameHandler, session *PlayerSession, payload json.RawMessage) {
	session.Conn.Send() <- message.CreatePong()
}

// enterRoom conclui a entrada: resolve o erro do registry ou admite o
// jogador na sala resolvida. Qualquer falha vira resposta explícita; o
// estado da sessão só muda se a admissão deu certo.
func (h *GameHandler) enterRoom(session *PlayerSession, room *Room, err error) {
	if err != nil {
		message.SendError(session.Conn, errorCode(err), "Could not enter room: %v", err)
		return
	}
	if err := room.Admit(session); err != nil {
		message.SendError(session.Conn, errorCode(err), "Could not enter room: %v", err)
		return
	}
	// A própria sala já enviou o ROOM_JOINED com o snapshot completo.
}

func decodeRoomName(session *PlayerSession, payload json.RawMessage) (string, bool) {
	var req roomRequestPayload
	if err := json.Unmarshal(payload, &req); err != nil || req.RoomName == nil {
		message.SendError(session.Conn, CodeBadPayload,
			"Invalid payload: 'roomName' field is required and must be a string.")
		return "", false
	}
	name := strings.TrimSpace(*req.RoomName)
	if name == "" {
		message.SendError(session.Conn, CodeBadPayload, "Invalid payload: 'roomName' must not be empty.")
		return "", false
	}
	return name, true
}
