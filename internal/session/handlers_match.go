package session

import (
	"encoding/json"

	"beerpong/internal/game/match"
	"beerpong/internal/session/message"
)

// Tipos de mensagem cliente -> servidor aceitos dentro de uma partida.
const (
	cmdAction    = "ACTION"
	cmdLeaveRoom = "LEAVE_ROOM"
)

func (h *GameHandler) registerMatchHandlers() {
	h.matchRouter[cmdAction] = handleAction
	h.matchRouter[cmdLeaveRoom] = handleLeaveRoom
	h.matchRouter[cmdPing] = handlePing
}

// actionPayload é a intenção de arremesso. currentTurn é opcional e
// puramente consultivo: o servidor calcula o turno autoritativo sozinho.
type actionPayload struct {
	Direction   *float64 `json:"direction"`
	Strength    *float64 `json:"strength"`
	CurrentTurn *int     `json:"currentTurn"`
}

func handleAction(h *GameHandler, session *PlayerSession, payload json.RawMessage) {
	var req actionPayload
	if err := json.Unmarshal(payload, &req); err != nil || req.Direction == nil || req.Strength == nil {
		message.SendError(session.Conn, CodeBadPayload,
			"Invalid payload: 'direction' and 'strength' are required and must be numbers.")
		return
	}

	room := session.Room()
	if room == nil {
		// A sala morreu entre o roteamento e agora (disband, por exemplo).
		message.SendError(session.Conn, CodeSessionNotFound, "%v", ErrSessionNotFound)
		return
	}

	action := match.Action{
		Direction:   *req.Direction,
		Strength:    *req.Strength,
		CurrentTurn: req.CurrentTurn,
	}
	if err := room.Dispatch(session.ClientID(), action); err != nil {
		message.SendError(session.Conn, errorCode(err), "%v", err)
	}
}

func handleLeaveRoom(h *GameHandler, session *PlayerSession, payload json.RawMessage) {
	room := session.Room()
	if room == nil {
		session.LeaveRoom()
		return
	}
	room.Leave(session.ClientID())
}
