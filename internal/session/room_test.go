package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"beerpong/internal/game/match"
	"beerpong/internal/session/message"
)

// fullRoom cria uma sala com dois jogadores admitidos e drena as mensagens
// de entrada, deixando as conexões prontas para observar só a partida.
func fullRoom(t *testing.T, sink EventSink) (*Room, *fakeConn, *fakeConn) {
	t.Helper()
	reg := newTestRegistry(sink)

	connA := newFakeConn("client-a")
	connB := newFakeConn("client-b")

	room, err := reg.Create("pub")
	require.NoError(t, err)
	require.NoError(t, room.Admit(NewPlayerSession(connA)))
	recv(t, connA) // ROOM_JOINED do A

	joined, err := reg.Join("pub")
	require.NoError(t, err)
	require.Equal(t, room.ID, joined.ID)
	require.NoError(t, room.Admit(NewPlayerSession(connB)))
	recv(t, connB) // ROOM_JOINED do B
	recv(t, connA) // STATE_PATCH anunciando o B

	return room, connA, connB
}

func TestAdmitSendsSnapshotThenDiff(t *testing.T) {
	reg := newTestRegistry(NopSink())

	connA := newFakeConn("client-a")
	connB := newFakeConn("client-b")
	sessionA := NewPlayerSession(connA)

	room, err := reg.Create("pub")
	require.NoError(t, err)
	require.NoError(t, room.Admit(sessionA))
	require.Equal(t, state_IN_ROOM, sessionA.State())

	msg := recv(t, connA)
	require.Equal(t, message.TypeRoomJoined, msg.Type)

	var joinedA message.JoinedPayload
	decodePayload(t, msg, &joinedA)
	require.Equal(t, room.ID, joinedA.RoomID)
	require.Equal(t, match.TeamFirst, joinedA.Team)
	require.Equal(t, match.TeamFirst, joinedA.Snapshot.CurrentTurn)
	require.Len(t, joinedA.Snapshot.Players, 1)

	require.NoError(t, room.Admit(NewPlayerSession(connB)))

	// O recém-chegado vê o snapshot com os dois jogadores.
	msg = recv(t, connB)
	require.Equal(t, message.TypeRoomJoined, msg.Type)
	var joinedB message.JoinedPayload
	decodePayload(t, msg, &joinedB)
	require.Equal(t, match.TeamSecond, joinedB.Team)
	require.Len(t, joinedB.Snapshot.Players, 2)

	// Quem já estava dentro recebe só o diff com o jogador novo.
	msg = recv(t, connA)
	require.Equal(t, message.TypeStatePatch, msg.Type)
	var patch message.PatchPayload
	decodePayload(t, msg, &patch)
	require.Contains(t, patch.Players, "client-b")
	require.NotContains(t, patch.Players, "client-a")
}

func TestAdmitRejectsThirdPlayer(t *testing.T) {
	room, _, _ := fullRoom(t, NopSink())

	connC := newFakeConn("client-c")
	err := room.Admit(NewPlayerSession(connC))
	require.ErrorIs(t, err, ErrRoomFull)
	expectSilence(t, connC)
}

func TestAcceptedActionBroadcastsPatch(t *testing.T) {
	room, connA, connB := fullRoom(t, NopSink())

	require.NoError(t, room.Dispatch("client-a", match.Action{Direction: 0.2, Strength: 3}))

	for _, conn := range []*fakeConn{connA, connB} {
		msg := recv(t, conn)
		require.Equal(t, message.TypeStatePatch, msg.Type)

		var patch message.PatchPayload
		decodePayload(t, msg, &patch)
		pp := patch.Players["client-a"]
		require.NotNil(t, pp)
		require.Equal(t, 0.2, *pp.Direction)
		require.Equal(t, 3.0, *pp.Strength)
		require.NotNil(t, patch.CurrentTurn)
		require.Equal(t, match.TeamSecond, *patch.CurrentTurn)
	}
}

func TestOutOfTurnActionIsRejectedExplicitly(t *testing.T) {
	room, connA, connB := fullRoom(t, NopSink())

	// O turno inicial é do A; o B tenta agir.
	require.NoError(t, room.Dispatch("client-b", match.Action{Direction: 0.1, Strength: 2}))

	msg := recv(t, connB)
	require.Equal(t, message.TypeError, msg.Type)
	var errPayload message.ErrorPayload
	decodePayload(t, msg, &errPayload)
	require.Equal(t, CodeOutOfTurn, errPayload.Code)

	// A rejeição é privada: o A não vê nada.
	expectSilence(t, connA)
}

func TestTurnAlternatesAcrossDispatches(t *testing.T) {
	room, connA, connB := fullRoom(t, NopSink())

	require.NoError(t, room.Dispatch("client-a", match.Action{Direction: 0.1, Strength: 2}))
	recv(t, connA)
	recv(t, connB)

	require.NoError(t, room.Dispatch("client-b", match.Action{Direction: -0.1, Strength: 2}))
	msg := recv(t, connA)
	recv(t, connB)

	var patch message.PatchPayload
	decodePayload(t, msg, &patch)
	require.NotNil(t, patch.CurrentTurn)
	require.Equal(t, match.TeamFirst, *patch.CurrentTurn)
}

func TestDispatchedValuesAreClamped(t *testing.T) {
	room, connA, _ := fullRoom(t, NopSink())

	require.NoError(t, room.Dispatch("client-a", match.Action{Direction: 0.9, Strength: 0}))

	msg := recv(t, connA)
	var patch message.PatchPayload
	decodePayload(t, msg, &patch)
	pp := patch.Players["client-a"]
	require.Equal(t, match.MaxDirection, *pp.Direction)
	require.Equal(t, match.MinStrength, *pp.Strength)
}

func TestLeaveDisbandsMatch(t *testing.T) {
	sink := &recordingSink{}
	room, connA, connB := fullRoom(t, sink)

	room.Leave("client-a")

	// O sobrevivente é avisado e devolvido ao lobby.
	msg := recv(t, connB)
	require.Equal(t, message.TypeOpponentLeft, msg.Type)

	// Quem saiu não recebe eco da própria saída.
	expectSilence(t, connA)

	// A sala morre junto: operações novas falham como sala inexistente.
	require.Eventually(t, func() bool {
		connC := newFakeConn("client-c")
		return room.Admit(NewPlayerSession(connC)) == ErrSessionNotFound
	}, 2*time.Second, 10*time.Millisecond)

	require.Contains(t, sink.Events(), EventMatchAbandoned)

	// Sair de novo é um no-op silencioso.
	room.Leave("client-a")
}

func TestPeerDropMidTurnKeepsRoomServing(t *testing.T) {
	room, connA, connB := fullRoom(t, NopSink())

	// O B cai no meio do turno: o arremesso do A já está na fila quando o
	// leave da desconexão entra. Ninguém mais drena o canal do B, mas ele
	// continua aberto, como na conexão real.
	require.NoError(t, room.Dispatch("client-a", match.Action{Direction: 0.2, Strength: 3}))
	room.Leave("client-b")

	// A sala sobrevive ao broadcast para o cliente caído e o A ainda
	// recebe o patch do arremesso aceito...
	msg := recv(t, connA)
	require.Equal(t, message.TypeStatePatch, msg.Type)

	// ...seguido do aviso de que ficou sozinho.
	msg = recv(t, connA)
	require.Equal(t, message.TypeOpponentLeft, msg.Type)

	// O patch pendente do B ficou no canal dele, que nunca é fechado.
	msg = recv(t, connB)
	require.Equal(t, message.TypeStatePatch, msg.Type)
}

func TestSoleLeaveDisposesQuietly(t *testing.T) {
	reg := newTestRegistry(NopSink())

	connA := newFakeConn("client-a")
	room, err := reg.Create("pub")
	require.NoError(t, err)
	require.NoError(t, room.Admit(NewPlayerSession(connA)))
	recv(t, connA)

	// Único jogador sai: a sala esvazia e morre sem aviso de oponente.
	room.Leave("client-a")

	require.Eventually(t, func() bool {
		return room.Dispatch("client-a", match.Action{}) == ErrSessionNotFound
	}, 2*time.Second, 10*time.Millisecond)
	expectSilence(t, connA)
}

func TestMatchStartedPublishedWhenRoomFills(t *testing.T) {
	sink := &recordingSink{}
	fullRoom(t, sink)

	require.Eventually(t, func() bool {
		for _, e := range sink.Events() {
			if e == EventMatchStarted {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
}
