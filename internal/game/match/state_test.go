package match

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddPlayerAssignsTeamsByJoinOrder(t *testing.T) {
	s := NewState()

	p1, err := s.AddPlayer("client-a")
	require.NoError(t, err)
	require.Equal(t, TeamFirst, p1.Team)

	p2, err := s.AddPlayer("client-b")
	require.NoError(t, err)
	require.Equal(t, TeamSecond, p2.Team)
}

func TestAddPlayerDefaults(t *testing.T) {
	s := NewState()
	p, err := s.AddPlayer("client-a")
	require.NoError(t, err)

	require.Equal(t, DefaultDirection, p.Direction)
	require.Equal(t, DefaultStrength, p.Strength)
}

func TestThirdPlayerIsRejected(t *testing.T) {
	s := NewState()
	_, err := s.AddPlayer("client-a")
	require.NoError(t, err)
	_, err = s.AddPlayer("client-b")
	require.NoError(t, err)

	_, err = s.AddPlayer("client-c")
	require.ErrorIs(t, err, ErrMatchFull)
	require.Equal(t, 2, s.Len())
}

func TestJoinAndLeaveNeverTouchTurn(t *testing.T) {
	s := NewState()
	s.AddPlayer("client-a")
	require.Equal(t, TeamFirst, s.CurrentTurn())

	s.AddPlayer("client-b")
	require.Equal(t, TeamFirst, s.CurrentTurn())

	s.RemovePlayer("client-a")
	require.Equal(t, TeamFirst, s.CurrentTurn())
}

func TestRemovePlayerIsIdempotent(t *testing.T) {
	s := NewState()
	s.AddPlayer("client-a")

	require.True(t, s.RemovePlayer("client-a"))
	require.False(t, s.RemovePlayer("client-a"))
	require.Equal(t, 0, s.Len())
}

func TestPlayersPreservesJoinOrder(t *testing.T) {
	s := NewState()
	s.AddPlayer("client-a")
	s.AddPlayer("client-b")

	players := s.Players()
	require.Len(t, players, 2)
	require.Equal(t, "client-a", players[0].ClientID)
	require.Equal(t, "client-b", players[1].ClientID)
}

func TestEffectiveStrengthSignFollowsTeam(t *testing.T) {
	first := &PlayerState{Team: TeamFirst, Strength: 3}
	second := &PlayerState{Team: TeamSecond, Strength: 3}

	require.Equal(t, 3.0, first.EffectiveStrength())
	require.Equal(t, -3.0, second.EffectiveStrength())
	// O valor guardado continua sendo a magnitude sem sinal.
	require.Equal(t, 3.0, second.Strength)
}
