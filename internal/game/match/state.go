package match

import (
	"errors"
)

// Times possíveis de um jogador. O primeiro a entrar na sala é o FIRST.
const (
	TeamFirst  = 0
	TeamSecond = 1
)

// MaxPlayers é a capacidade fixa de uma partida. Um duelo tem exatamente dois lados.
const MaxPlayers = 2

// Limites dos parâmetros de arremesso. Valores fora da faixa são
// grampeados, nunca rejeitados, para tolerar drift de ponto flutuante do cliente.
const (
	MinDirection = -0.5
	MaxDirection = 0.5
	MinStrength  = 1.0
	MaxStrength  = 5.0
)

// Valores iniciais de um jogador recém-admitido.
const (
	DefaultDirection = 0.0
	DefaultStrength  = 1.0
)

// ErrMatchFull indica que a partida já tem os seus dois jogadores.
var ErrMatchFull = errors.New("match already has two players")

// PlayerState são os campos replicados de um cliente dentro da partida.
type PlayerState struct {
	ClientID  string
	Team      int
	Direction float64
	Strength  float64
}

// EffectiveStrength devolve a força com o sinal aplicado pelo time.
// A força é guardada sempre como magnitude sem sinal; o time SECOND arremessa
// no sentido oposto, então o consumidor de física recebe o valor negado.
func (p *PlayerState) EffectiveStrength() float64 {
	if p.Team == TeamSecond {
		return -p.Strength
	}
	return p.Strength
}

// State é o estado compartilhado de uma única partida: os jogadores e o turno.
// Ele NÃO é seguro para acesso concorrente; quem o possui (a sala) garante
// que toda mutação acontece em uma única goroutine.
type State struct {
	players     map[string]*PlayerState
	order       []string // ordem de entrada, define o time de cada um
	currentTurn int
}

// NewState cria uma partida vazia com o turno no time FIRST.
func NewState() *State {
	return &State{
		players:     make(map[string]*PlayerState),
		currentTurn: TeamFirst,
	}
}

// AddPlayer admite um novo jogador com os valores padrão.
// O time é atribuído pela ordem de entrada: primeiro = FIRST, segundo = SECOND.
// Entrar nunca mexe no turno atual.
func (s *State) AddPlayer(clientID string) (*PlayerState, error) {
	if len(s.players) >= MaxPlayers {
		return nil, ErrMatchFull
	}

	player := &PlayerState{
		ClientID:  clientID,
		Team:      len(s.order),
		Direction: DefaultDirection,
		Strength:  DefaultStrength,
	}
	s.players[clientID] = player
	s.order = append(s.order, clientID)
	return player, nil
}

// RemovePlayer apaga o PlayerState do cliente. Retorna false se ele
// já não estava na partida, o que torna a remoção idempotente.
// Sair nunca mexe no turno atual.
func (s *State) RemovePlayer(clientID string) bool {
	if _, ok := s.players[clientID]; !ok {
		return false
	}
	delete(s.players, clientID)
	for i, id := range s.order {
		if id == clientID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Player busca o estado de um cliente específico.
func (s *State) Player(clientID string) (*PlayerState, bool) {
	p, ok := s.players[clientID]
	return p, ok
}

// Players devolve os jogadores na ordem de entrada.
func (s *State) Players() []*PlayerState {
	result := make([]*PlayerState, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.players[id])
	}
	return result
}

// Len é o número de jogadores presentes.
func (s *State) Len() int {
	return len(s.players)
}

// CurrentTurn é o time que pode agir agora: 0 ou 1.
func (s *State) CurrentTurn() int {
	return s.currentTurn
}
