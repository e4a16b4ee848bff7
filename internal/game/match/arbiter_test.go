package match

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newDuel(t *testing.T) *State {
	t.Helper()
	s := NewState()
	_, err := s.AddPlayer("client-a") // time FIRST
	require.NoError(t, err)
	_, err = s.AddPlayer("client-b") // time SECOND
	require.NoError(t, err)
	return s
}

func TestEvaluateUnknownClient(t *testing.T) {
	s := newDuel(t)
	decision := Evaluate(s, "stranger", Action{Direction: 0.1, Strength: 2})
	require.Equal(t, VerdictUnknownClient, decision.Verdict)
	require.Equal(t, TeamFirst, s.CurrentTurn())
}

func TestEvaluateOutOfTurn(t *testing.T) {
	s := newDuel(t)
	// O turno inicial é do FIRST; o SECOND tenta agir.
	decision := Evaluate(s, "client-b", Action{Direction: 0.1, Strength: 2})
	require.Equal(t, VerdictOutOfTurn, decision.Verdict)
	require.Equal(t, TeamFirst, s.CurrentTurn())

	// E nada foi aplicado no estado do atrevido.
	p, _ := s.Player("client-b")
	require.Equal(t, DefaultDirection, p.Direction)
	require.Equal(t, DefaultStrength, p.Strength)
}

func TestEvaluateAcceptAppliesAndFlipsTurn(t *testing.T) {
	s := newDuel(t)
	decision := Evaluate(s, "client-a", Action{Direction: 0.2, Strength: 3})
	require.Equal(t, VerdictAccepted, decision.Verdict)
	require.False(t, decision.Desync)
	require.False(t, decision.Clamped)

	p, _ := s.Player("client-a")
	require.Equal(t, 0.2, p.Direction)
	require.Equal(t, 3.0, p.Strength)
	require.Equal(t, TeamSecond, s.CurrentTurn())
}

func TestTurnStrictlyAlternatesDespiteRejections(t *testing.T) {
	s := newDuel(t)
	turns := []int{}

	actors := map[int]string{TeamFirst: "client-a", TeamSecond: "client-b"}
	intruder := map[int]string{TeamFirst: "client-b", TeamSecond: "client-a"}

	for i := 0; i < 6; i++ {
		turn := s.CurrentTurn()

		// O jogador errado tenta no meio; todas as tentativas são rejeitadas
		// e não contam para a alternância.
		for j := 0; j < 3; j++ {
			d := Evaluate(s, intruder[turn], Action{Direction: 0.1, Strength: 2})
			require.Equal(t, VerdictOutOfTurn, d.Verdict)
		}

		d := Evaluate(s, actors[turn], Action{Direction: 0.1, Strength: 2})
		require.Equal(t, VerdictAccepted, d.Verdict)
		turns = append(turns, turn)
	}

	require.Equal(t, []int{0, 1, 0, 1, 0, 1}, turns)
}

func TestEvaluateClampsInsteadOfRejecting(t *testing.T) {
	tests := []struct {
		name          string
		action        Action
		wantDirection float64
		wantStrength  float64
	}{
		{name: "direction above range", action: Action{Direction: 0.9, Strength: 2}, wantDirection: 0.5, wantStrength: 2},
		{name: "direction below range", action: Action{Direction: -0.9, Strength: 2}, wantDirection: -0.5, wantStrength: 2},
		{name: "strength below range", action: Action{Direction: 0, Strength: 0}, wantDirection: 0, wantStrength: 1},
		{name: "strength above range", action: Action{Direction: 0, Strength: 7}, wantDirection: 0, wantStrength: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newDuel(t)
			decision := Evaluate(s, "client-a", tt.action)
			require.Equal(t, VerdictAccepted, decision.Verdict)
			require.True(t, decision.Clamped)

			p, _ := s.Player("client-a")
			require.Equal(t, tt.wantDirection, p.Direction)
			require.Equal(t, tt.wantStrength, p.Strength)
		})
	}
}

func TestEvaluateInRangeValuesAreNotMarkedClamped(t *testing.T) {
	s := newDuel(t)
	decision := Evaluate(s, "client-a", Action{Direction: 0.5, Strength: 5})
	require.Equal(t, VerdictAccepted, decision.Verdict)
	require.False(t, decision.Clamped)
}

func TestClientReportedTurnIsAdvisoryOnly(t *testing.T) {
	s := newDuel(t)

	wrongTurn := 1
	decision := Evaluate(s, "client-a", Action{Direction: 0.1, Strength: 2, CurrentTurn: &wrongTurn})

	// Dessincronização é aviso, nunca rejeição: a mutação prossegue com
	// os valores do servidor.
	require.Equal(t, VerdictAccepted, decision.Verdict)
	require.True(t, decision.Desync)
	require.Equal(t, TeamSecond, s.CurrentTurn())

	rightTurn := TeamSecond
	decision = Evaluate(s, "client-b", Action{Direction: 0.1, Strength: 2, CurrentTurn: &rightTurn})
	require.Equal(t, VerdictAccepted, decision.Verdict)
	require.False(t, decision.Desync)
}
