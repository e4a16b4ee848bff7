package match

// Action é a intenção de arremesso enviada por um cliente.
// CurrentTurn é opcional: alguns clientes reportam o turno que ELES acham
// que está valendo. Esse valor nunca é usado para mutação, só para
// diagnosticar dessincronização.
type Action struct {
	Direction   float64
	Strength    float64
	CurrentTurn *int
}

// Verdict é o resultado da arbitragem de uma ação.
type Verdict int

const (
	// VerdictAccepted: a ação foi aplicada e o turno virou.
	VerdictAccepted Verdict = iota
	// VerdictUnknownClient: o remetente não faz parte desta partida.
	VerdictUnknownClient
	// VerdictOutOfTurn: o remetente não é o dono do turno atual.
	// Não é anormal: acontece sob latência, entre a UI do cliente e o servidor.
	VerdictOutOfTurn
)

// Decision descreve o que o árbitro fez com a ação.
type Decision struct {
	Verdict Verdict

	// Desync indica que o cliente reportou um turno diferente do que o
	// servidor considera vigente. Não é fatal: a mutação prossegue com os
	// valores autoritativos do servidor, mas quem chama deve logar.
	Desync bool

	// Clamped indica que direction ou strength vieram fora da faixa
	// e foram grampeados antes de aplicar.
	Clamped bool
}

// Evaluate é o árbitro de turno. Dado o estado da partida e uma ação
// proposta, decide aceitar ou rejeitar. Na aceitação ele grampeia os
// valores, aplica no PlayerState do remetente e vira o turno para o
// outro time. O turno autoritativo é SEMPRE calculado aqui
// (currentTurn' = 1 - currentTurn); o valor declarado pelo cliente é
// apenas consultivo.
func Evaluate(s *State, clientID string, action Action) Decision {
	player, ok := s.Player(clientID)
	if !ok {
		return Decision{Verdict: VerdictUnknownClient}
	}

	if player.Team != s.currentTurn {
		return Decision{Verdict: VerdictOutOfTurn}
	}

	decision := Decision{Verdict: VerdictAccepted}

	// O cliente acha que é outro turno? Sinal de dessincronização, não de fraude.
	if action.CurrentTurn != nil && *action.CurrentTurn != s.currentTurn {
		decision.Desync = true
	}

	direction := clamp(action.Direction, MinDirection, MaxDirection)
	strength := clamp(action.Strength, MinStrength, MaxStrength)
	if direction != action.Direction || strength != action.Strength {
		decision.Clamped = true
	}

	player.Direction = direction
	player.Strength = strength
	s.currentTurn = 1 - s.currentTurn

	return decision
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
