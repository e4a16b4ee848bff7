package session

// Eventos de ciclo de vida de partida anunciados para fora do processo.
const (
	EventMatchCreated   = "match.created"
	EventMatchStarted   = "match.started"
	EventMatchAbandoned = "match.abandoned"
	EventMatchFinished  = "match.finished"
)

// RoomEvent é o payload publicado junto com cada evento de ciclo de vida.
type RoomEvent struct {
	RoomID   string `json:"roomId"`
	RoomName string `json:"roomName"`
}

// EventSink recebe anúncios de ciclo de vida das salas. A implementação
// real publica em um broker; a camada de sessão não precisa saber qual.
// Publish não pode bloquear o chamador por muito tempo: ele é chamado de
// dentro das goroutines das salas e do registry.
type EventSink interface {
	Publish(event string, payload any)
}

type nopSink struct{}

func (nopSink) Publish(string, any) {}

// NopSink devolve um sink que descarta tudo, para quando não há broker configurado.
func NopSink() EventSink {
	return nopSink{}
}
