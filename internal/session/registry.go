package session

import (
	"log"

	"beerpong/internal/game/match"
)

// DefaultMaxRooms é o limite de salas vivas por processo. É uma proteção
// de recurso, não uma regra de matchmaking.
const DefaultMaxRooms = 1024

// Registry (o ator) é o diretório de salas do processo: mapeia um nome de
// sala para no máximo as salas "abertas" (com menos de 2 clientes) daquele
// nome. Vários nomes iguais podem coexistir: o nome é um pool, não uma
// chave única.
//
// Todo o estado aqui dentro é tocado SOMENTE pela goroutine de Run; as
// APIs públicas conversam com ela por mensagens tipadas com canal de
// resposta, exatamente como os outros atores do servidor.
type Registry struct {
	requestCh chan registryMessage

	// openRooms: nome -> salas ainda com vaga, em ordem de criação.
	openRooms map[string][]*Room
	// rooms: todas as salas vivas, por ID.
	rooms map[string]*Room

	maxRooms int
	sink     EventSink
}

// --- Mensagens para o ator Registry ---

type registryMessage interface{ isRegistryMessage() }

type createRoomRequest struct {
	name  string
	reply chan roomReply
}

func (createRoomRequest) isRegistryMessage() {}

type joinRoomRequest struct {
	name  string
	reply chan roomReply
}

func (joinRoomRequest) isRegistryMessage() {}

type joinOrCreateRequest struct {
	name  string
	reply chan roomReply
}

func (joinOrCreateRequest) isRegistryMessage() {}

type disposedNotice struct {
	room *Room
}

func (disposedNotice) isRegistryMessage() {}

type roomReply struct {
	room *Room
	err  error
}

// NewRegistry cria o registry. Run ainda precisa ser chamado em uma goroutine.
func NewRegistry(sink EventSink) *Registry {
	return &Registry{
		requestCh: make(chan registryMessage),
		openRooms: make(map[string][]*Room),
		rooms:     make(map[string]*Room),
		maxRooms:  DefaultMaxRooms,
		sink:      sink,
	}
}

// Run inicia o loop principal do ator Registry.
func (reg *Registry) Run() {
	log.Println("[Registry] Actor started.")
	for msg := range reg.requestCh {
		switch req := msg.(type) {
		case createRoomRequest:
			req.reply <- reg.handleCreate(req.name)
		case joinRoomRequest:
			req.reply <- reg.handleJoin(req.name)
		case joinOrCreateRequest:
			if reg.hasOpenRoom(req.name) {
				req.reply <- reg.handleJoin(req.name)
			} else {
				req.reply <- reg.handleCreate(req.name)
			}
		case disposedNotice:
			reg.handleDisposed(req.room)
		}
	}
}

// --- APIs públicas do ator ---

// Create sempre aloca uma sala nova e a registra como aberta, reservando
// a vaga do criador. Falha com ErrRoomCreation no limite de salas.
func (reg *Registry) Create(name string) (*Room, error) {
	reply := make(chan roomReply, 1)
	reg.requestCh <- createRoomRequest{name: name, reply: reply}
	result := <-reply
	return result.room, result.err
}

// Join devolve uma sala aberta para o nome, reservando a vaga, ou falha
// com ErrNoOpenSession se não existe nenhuma (ou todas estão cheias).
func (reg *Registry) Join(name string) (*Room, error) {
	reply := make(chan roomReply, 1)
	reg.requestCh <- joinRoomRequest{name: name, reply: reply}
	result := <-reply
	return result.room, result.err
}

// JoinOrCreate devolve uma sala aberta se houver, senão cria uma nova.
func (reg *Registry) JoinOrCreate(name string) (*Room, error) {
	reply := make(chan roomReply, 1)
	reg.requestCh <- joinOrCreateRequest{name: name, reply: reply}
	result := <-reply
	return result.room, result.err
}

// NotifyDisposed remove a sala de todos os índices. Idempotente.
func (reg *Registry) NotifyDisposed(room *Room) {
	reg.requestCh <- disposedNotice{room: room}
}

// --- Handlers internos (rodam na goroutine do ator) ---

func (reg *Registry) handleCreate(name string) roomReply {
	if len(reg.rooms) >= reg.maxRooms {
		return roomReply{err: ErrRoomCreation}
	}

	room := newRoom(name, reg, reg.sink)
	room.reserved = 1 // a vaga do criador
	reg.rooms[room.ID] = room
	reg.openRooms[name] = append(reg.openRooms[name], room)
	go room.Run()

	log.Printf("[Registry] Room %s created for name %q (%d rooms live).", room.ID, name, len(reg.rooms))
	reg.sink.Publish(EventMatchCreated, RoomEvent{RoomID: room.ID, RoomName: name})
	return roomReply{room: room}
}

func (reg *Registry) handleJoin(name string) roomReply {
	open := reg.openRooms[name]
	if len(open) == 0 {
		return roomReply{err: ErrNoOpenSession}
	}

	room := open[0]
	room.reserved++
	if room.reserved >= match.MaxPlayers {
		// A sala encheu: sai do índice de abertas. Ela continua alcançável
		// para quem já está dentro, mas não aceita mais join.
		reg.removeFromOpen(room)
	}
	return roomReply{room: room}
}

func (reg *Registry) handleDisposed(room *Room) {
	if _, ok := reg.rooms[room.ID]; !ok {
		return // já removida, aviso duplicado
	}
	delete(reg.rooms, room.ID)
	reg.removeFromOpen(room)
	log.Printf("[Registry] Room %s removed (%d rooms live).", room.ID, len(reg.rooms))
}

func (reg *Registry) hasOpenRoom(name string) bool {
	return len(reg.openRooms[name]) > 0
}

func (reg *Registry) removeFromOpen(room *Room) {
	open := reg.openRooms[room.Name]
	for i, candidate := range open {
		if candidate == room {
			open = append(open[:i], open[i+1:]...)
			break
		}
	}
	if len(open) == 0 {
		delete(reg.openRooms, room.Name)
	} else {
		reg.openRooms[room.Name] = open
	}
}
