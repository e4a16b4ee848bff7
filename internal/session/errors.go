package session

import (
	"errors"
)

// Erros sentinela da camada de sessão. Os handlers usam errors.Is para
// transformá-los em respostas explícitas ao cliente; nenhum deles derruba
// a sala ou o processo.
var (
	// ErrRoomFull: a sala já tem os dois jogadores; a 3ª admissão sempre falha.
	ErrRoomFull = errors.New("room is already full")

	// ErrNoOpenSession: nenhuma sala aberta com esse nome para entrar.
	ErrNoOpenSession = errors.New("no open room with that name")

	// ErrRoomCreation: o limite de salas vivas do processo foi atingido.
	ErrRoomCreation = errors.New("room limit reached, cannot create a new room")

	// ErrSessionNotFound: a sala já foi descartada; mensagens endereçadas
	// a ela falham sem efeito algum.
	ErrSessionNotFound = errors.New("session not found")

	// ErrUnknownClient: o remetente não faz parte do roster da sala.
	ErrUnknownClient = errors.New("client is not part of this room")

	// ErrOutOfTurn: o remetente não é o dono do turno. Esperado sob
	// latência, rejeitado de forma explícita para a UI se recuperar.
	ErrOutOfTurn = errors.New("it is not your turn")
)

// Códigos que vão no campo "code" das respostas de erro.
const (
	CodeRoomFull        = "ROOM_FULL"
	CodeNoOpenSession   = "NO_OPEN_SESSION"
	CodeRoomCreation    = "ROOM_CREATION_FAILED"
	CodeSessionNotFound = "SESSION_NOT_FOUND"
	CodeUnknownClient   = "UNKNOWN_CLIENT"
	CodeOutOfTurn       = "OUT_OF_TURN"
	CodeBadPayload      = "BAD_PAYLOAD"
	CodeUnknownCommand  = "UNKNOWN_COMMAND"
)

// errorCode traduz um erro da camada de sessão para o código do protocolo.
func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrRoomFull):
		return CodeRoomFull
	case errors.Is(err, ErrNoOpenSession):
		return CodeNoOpenSession
	case errors.Is(err, ErrRoomCreation):
		return CodeRoomCreation
	case errors.Is(err, ErrSessionNotFound):
		return CodeSessionNotFound
	case errors.Is(err, ErrUnknownClient):
		return CodeUnknownClient
	case errors.Is(err, ErrOutOfTurn):
		return CodeOutOfTurn
	default:
		return "INTERNAL"
	}
}
