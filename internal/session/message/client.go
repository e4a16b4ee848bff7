package message

// Isso aqui são as mensagens que vão no sentido servidor -> client
import (
	"encoding/json"

	"beerpong/internal/network"
)

// Tipos de mensagem servidor -> cliente.
const (
	TypeConnected    = "CONNECTED"
	TypeRoomJoined   = "ROOM_JOINED"
	TypeStatePatch   = "STATE_PATCH"
	TypeOpponentLeft = "OPPONENT_LEFT"
	TypeError        = "RESPONSE_ERROR"
	TypePong         = "PONG"
)

// PlayerView é a projeção replicada de um jogador dentro de um snapshot.
type PlayerView struct {
	Team      int     `json:"team"`
	Direction float64 `json:"direction"`
	Strength  float64 `json:"strength"`
}

// SnapshotPayload é o estado completo da partida, enviado para quem
// acabou de entrar, antes de qualquer diff.
type SnapshotPayload struct {
	Players     map[string]PlayerView `json:"players"`
	CurrentTurn int                   `json:"currentTurn"`
}

// PlayerPatch carrega só os campos de um jogador que mudaram desde o
// último broadcast. Ponteiros nil = campo não mudou. Left marca remoção.
type PlayerPatch struct {
	Team      *int     `json:"team,omitempty"`
	Direction *float64 `json:"direction,omitempty"`
	Strength  *float64 `json:"strength,omitempty"`
	Left      bool     `json:"left,omitempty"`
}

// PatchPayload é o diff mínimo do MatchState desde o último patch.
type PatchPayload struct {
	Players     map[string]*PlayerPatch `json:"players,omitempty"`
	CurrentTurn *int                    `json:"currentTurn,omitempty"`
}

// ConnectedPayload informa ao cliente a identidade que o servidor lhe deu.
type ConnectedPayload struct {
	ClientID string `json:"clientId"`
}

// JoinedPayload confirma a entrada em uma sala.
type JoinedPayload struct {
	RoomID   string          `json:"roomId"`
	ClientID string          `json:"clientId"`
	Team     int             `json:"team"`
	Snapshot SnapshotPayload `json:"snapshot"`
}

// OpponentLeftPayload avisa que o oponente abandonou a partida.
type OpponentLeftPayload struct {
	Reason string `json:"reason"`
}

// ErrorPayload define a estrutura de uma resposta de erro.
type ErrorPayload struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func CreateConnected(clientID string) network.Message {
	return wrap(TypeConnected, ConnectedPayload{ClientID: clientID})
}

func CreateRoomJoined(roomID, clientID string, team int, snapshot SnapshotPayload) network.Message {
	return wrap(TypeRoomJoined, JoinedPayload{
		RoomID:   roomID,
		ClientID: clientID,
		Team:     team,
		Snapshot: snapshot,
	})
}

func CreateStatePatch(patch PatchPayload) network.Message {
	return wrap(TypeStatePatch, patch)
}

func CreateOpponentLeft(reason string) network.Message {
	return wrap(TypeOpponentLeft, OpponentLeftPayload{Reason: reason})
}

// CreateErrorResponse usando a struct
func CreateErrorResponse(code, errorMsg string) network.Message {
	return wrap(TypeError, ErrorPayload{Code: code, Error: errorMsg})
}

func CreatePong() network.Message {
	return network.Message{Type: TypePong}
}

func wrap(msgType string, payload any) network.Message {
	payloadBytes, _ := json.Marshal(payload)
	return network.Message{
		Type:    msgType,
		Payload: payloadBytes,
	}
}
