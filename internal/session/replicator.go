package session

import (
	"beerpong/internal/game/match"
	"beerpong/internal/session/message"
)

// Replicator calcula o diff mínimo do MatchState entre broadcasts.
// Ele guarda a última visão enviada e compara campo a campo; quem entra
// de novo recebe um snapshot completo antes de qualquer diff.
//
// O Replicator pertence a uma única sala e só é tocado pela goroutine
// dela, na mesma ordem em que as mutações foram aceitas. É isso que
// garante que todos os clientes observam a MESMA sequência de diffs.
type Replicator struct {
	lastPlayers map[string]message.PlayerView
	lastTurn    int
}

// NewReplicator cria um replicador com memória vazia e turno inicial 0.
func NewReplicator() *Replicator {
	return &Replicator{
		lastPlayers: make(map[string]message.PlayerView),
		lastTurn:    match.TeamFirst,
	}
}

// Snapshot projeta o estado completo atual. Não mexe na memória do diff:
// o snapshot vai só para o recém-chegado, os outros recebem o diff normal.
func (r *Replicator) Snapshot(s *match.State) message.SnapshotPayload {
	snapshot := message.SnapshotPayload{
		Players:     make(map[string]message.PlayerView, s.Len()),
		CurrentTurn: s.CurrentTurn(),
	}
	for _, p := range s.Players() {
		snapshot.Players[p.ClientID] = playerView(p)
	}
	return snapshot
}

// Diff compara o estado atual com a última visão enviada e devolve o
// conjunto de campos que mudaram. O segundo retorno é false quando nada
// mudou (nenhum broadcast é necessário). A memória interna avança junto.
func (r *Replicator) Diff(s *match.State) (message.PatchPayload, bool) {
	patch := message.PatchPayload{}
	changed := false

	current := make(map[string]message.PlayerView, s.Len())
	for _, p := range s.Players() {
		current[p.ClientID] = playerView(p)
	}

	for id, view := range current {
		last, seen := r.lastPlayers[id]
		if !seen {
			// Jogador novo: todos os campos entram no patch.
			v := view
			addPlayerPatch(&patch, id, &message.PlayerPatch{
				Team:      &v.Team,
				Direction: &v.Direction,
				Strength:  &v.Strength,
			})
			changed = true
			continue
		}
		playerPatch := &message.PlayerPatch{}
		dirty := false
		if view.Direction != last.Direction {
			d := view.Direction
			playerPatch.Direction = &d
			dirty = true
		}
		if view.Strength != last.Strength {
			st := view.Strength
			playerPatch.Strength = &st
			dirty = true
		}
		if dirty {
			addPlayerPatch(&patch, id, playerPatch)
			changed = true
		}
	}

	// Quem estava na última visão e sumiu foi removido.
	for id := range r.lastPlayers {
		if _, still := current[id]; !still {
			addPlayerPatch(&patch, id, &message.PlayerPatch{Left: true})
			changed = true
		}
	}

	if s.CurrentTurn() != r.lastTurn {
		turn := s.CurrentTurn()
		patch.CurrentTurn = &turn
		changed = true
	}

	r.lastPlayers = current
	r.lastTurn = s.CurrentTurn()

	return patch, changed
}

func addPlayerPatch(patch *message.PatchPayload, id string, p *message.PlayerPatch) {
	if patch.Players == nil {
		patch.Players = make(map[string]*message.PlayerPatch)
	}
	patch.Players[id] = p
}

func playerView(p *match.PlayerState) message.PlayerView {
	return message.PlayerView{
		Team:      p.Team,
		Direction: p.Direction,
		Strength:  p.Strength,
	}
}
