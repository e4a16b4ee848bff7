package session

import (
	"log"

	"github.com/google/uuid"

	"beerpong/internal/game/match"
	"beerpong/internal/network"
	"beerpong/internal/session/message"
)

// Fases do ciclo de vida de uma sala.
// open(0) -> open(1) -> active(2) -> disposed. Não existe transição
// para fora de disposed.
const (
	phase_OPEN     = "open"     // A sala ainda tem vaga.
	phase_ACTIVE   = "active"   // Os dois jogadores estão dentro.
	phase_DISPOSED = "disposed" // A sala morreu; nenhuma operação é aceita.
)

// Room é a dona exclusiva de um MatchState e do roster de uma partida.
// Toda mutação passa pela goroutine única de Run, que consome os eventos
// em ordem FIFO de chegada. É o único ponto de serialização: não há lock
// em volta do MatchState.
type Room struct {
	ID   string
	Name string

	registry   *Registry
	sink       EventSink
	state      *match.State
	replicator *Replicator
	roster     map[string]*PlayerSession

	events chan roomEvent
	quit   chan struct{}

	// phase é tocada SOMENTE pela goroutine da sala.
	phase string

	// reserved conta as vagas já prometidas pelo registry. Tocado SOMENTE
	// pelo ator do registry, nunca pela goroutine da sala.
	reserved int
}

// --- Eventos para a goroutine da sala ---

type roomEvent interface{ isRoomEvent() }

type admitEvent struct {
	session *PlayerSession
	reply   chan error
}

func (admitEvent) isRoomEvent() {}

type actionEvent struct {
	clientID string
	action   match.Action
}

func (actionEvent) isRoomEvent() {}

type leaveEvent struct {
	clientID string
}

func (leaveEvent) isRoomEvent() {}

func newRoom(name string, registry *Registry, sink EventSink) *Room {
	return &Room{
		ID:         uuid.NewString(),
		Name:       name,
		registry:   registry,
		sink:       sink,
		state:      match.NewState(),
		replicator: NewReplicator(),
		roster:     make(map[string]*PlayerSession),
		events:     make(chan roomEvent),
		quit:       make(chan struct{}),
		phase:      phase_OPEN,
	}
}

// --- APIs públicas (chamadas de fora da goroutine da sala) ---

// Admit pede a admissão de um jogador e espera o resultado.
// Falha com ErrRoomFull na 3ª tentativa e com ErrSessionNotFound se a
// sala já foi descartada.
func (r *Room) Admit(session *PlayerSession) error {
	reply := make(chan error, 1)
	select {
	case r.events <- admitEvent{session: session, reply: reply}:
		return <-reply
	case <-r.quit:
		return ErrSessionNotFound
	}
}

// Dispatch enfileira uma ação de arremesso. O resultado (aceite, rejeição
// por turno, aviso de dessincronização) é respondido pela própria sala
// direto na conexão do remetente, preservando a ordem FIFO.
func (r *Room) Dispatch(clientID string, action match.Action) error {
	select {
	case r.events <- actionEvent{clientID: clientID, action: action}:
		return nil
	case <-r.quit:
		return ErrSessionNotFound
	}
}

// Leave enfileira a saída de um jogador. Desconexão não é erro: entra na
// fila como qualquer outro evento, sem interromper um dispatch em voo.
// Chamadas para salas já descartadas são ignoradas em silêncio.
func (r *Room) Leave(clientID string) {
	select {
	case r.events <- leaveEvent{clientID: clientID}:
	case <-r.quit:
	}
}

// Run é o loop serial da sala. Deve rodar em sua própria goroutine.
func (r *Room) Run() {
	log.Printf("[Room %s] Goroutine started for room name %q.", r.ID, r.Name)
	for {
		select {
		case ev := <-r.events:
			switch e := ev.(type) {
			case admitEvent:
				e.reply <- r.handleAdmit(e.session)
			case actionEvent:
				r.handleAction(e.clientID, e.action)
			case leaveEvent:
				r.handleLeave(e.clientID)
			}
		case <-r.quit:
			log.Printf("[Room %s] Goroutine stopped.", r.ID)
			return
		}
	}
}

// --- Handlers internos (rodam na goroutine da sala) ---

func (r *Room) handleAdmit(session *PlayerSession) error {
	if len(r.roster) >= match.MaxPlayers {
		return ErrRoomFull
	}

	clientID := session.ClientID()
	player, err := r.state.AddPlayer(clientID)
	if err != nil {
		return ErrRoomFull
	}
	r.roster[clientID] = session
	session.EnterRoom(r)

	log.Printf("[Room %s] Client %s admitted as team %d (%d/%d).",
		r.ID, clientID, player.Team, len(r.roster), match.MaxPlayers)

	// O recém-chegado recebe o snapshot completo ANTES de qualquer diff.
	snapshot := r.replicator.Snapshot(r.state)
	session.Conn.Send() <- message.CreateRoomJoined(r.ID, clientID, player.Team, snapshot)

	// Quem já estava dentro recebe o diff com o jogador novo.
	if patch, changed := r.replicator.Diff(r.state); changed {
		r.broadcastExcept(clientID, message.CreateStatePatch(patch))
	}

	if len(r.roster) == match.MaxPlayers {
		r.phase = phase_ACTIVE
		r.sink.Publish(EventMatchStarted, RoomEvent{RoomID: r.ID, RoomName: r.Name})
	}
	return nil
}

func (r *Room) handleAction(clientID string, action match.Action) {
	session, inRoster := r.roster[clientID]
	if !inRoster {
		// O cliente saiu enquanto a ação estava na fila. Pula, como previsto.
		return
	}

	// O roster e o MatchState são mutados em passo único nesta goroutine,
	// então depois do lookup acima o árbitro nunca devolve UnknownClient.
	decision := match.Evaluate(r.state, clientID, action)
	switch decision.Verdict {
	case match.VerdictOutOfTurn:
		// Rejeição explícita, para a UI do cliente se recuperar.
		message.SendError(session.Conn, CodeOutOfTurn, "%v", ErrOutOfTurn)

	case match.VerdictAccepted:
		if decision.Desync {
			log.Printf("[Room %s] Desync warning: client %s reported turn %v, server is at %d. Proceeding with server values.",
				r.ID, clientID, *action.CurrentTurn, 1-r.state.CurrentTurn())
		}
		if patch, changed := r.replicator.Diff(r.state); changed {
			r.broadcast(message.CreateStatePatch(patch))
		}
	}
}

func (r *Room) handleLeave(clientID string) {
	session, ok := r.roster[clientID]
	if !ok {
		// Já removido. A segunda remoção é um no-op.
		return
	}

	delete(r.roster, clientID)
	r.state.RemovePlayer(clientID)
	session.LeaveRoom()
	log.Printf("[Room %s] Client %s left (%d remaining).", r.ID, clientID, len(r.roster))

	if len(r.roster) == 1 {
		// Política de abandono: a partida é desfeita. O sobrevivente é
		// avisado e devolvido ao lobby, e a sala morre junto.
		for _, survivor := range r.roster {
			survivor.Conn.Send() <- message.CreateOpponentLeft("Your opponent left the match. You are back in the lobby.")
			survivor.LeaveRoom()
		}
		r.roster = make(map[string]*PlayerSession)
		r.dispose(EventMatchAbandoned)
		return
	}

	if len(r.roster) == 0 {
		r.dispose(EventMatchFinished)
	}
}

// dispose encerra a sala: fecha o quit (novas operações passam a falhar
// com "session not found"), avisa o registry e publica o evento final.
func (r *Room) dispose(event string) {
	if r.phase == phase_DISPOSED {
		return
	}
	r.phase = phase_DISPOSED
	close(r.quit)
	r.registry.NotifyDisposed(r)
	r.sink.Publish(event, RoomEvent{RoomID: r.ID, RoomName: r.Name})
	log.Printf("[Room %s] Disposed (%s).", r.ID, event)
}

// broadcast envia a mesma mensagem para todos os jogadores da sala.
func (r *Room) broadcast(msg network.Message) {
	for _, session := range r.roster {
		session.Conn.Send() <- msg
	}
}

func (r *Room) broadcastExcept(clientID string, msg network.Message) {
	for id, session := range r.roster {
		if id != clientID {
			session.Conn.Send() <- msg
		}
	}
}
