// cmd/bots/duel-bot/main.go
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"beerpong/internal/network"
	"beerpong/internal/session/message"
)

// duel-bot sobe DOIS clientes, coloca ambos na mesma sala via JOIN_OR_CREATE
// e joga uma partida completa alternando arremessos aleatórios. Serve como
// teste de fumaça do servidor inteiro: matchmaking, arbitragem de turno e
// replicação de diffs, tudo pelo caminho real do WebSocket.
const totalThrows = 10

const serverAddress = "localhost:8080"

func main() {
	rand.Seed(time.Now().UnixNano())

	addr := os.Getenv("SERVER_ADDR")
	if addr == "" {
		addr = serverAddress
	}

	// Um nome de sala único por execução, para não esbarrar em salas velhas.
	roomName := fmt.Sprintf("duel-bot-%d", time.Now().UnixNano())

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(label string, delay time.Duration) {
			defer wg.Done()
			// O segundo bot espera um pouco para garantir a ordem de entrada.
			time.Sleep(delay)
			if err := runBot(label, addr, roomName); err != nil {
				log.Printf("[%s] FAIL: %v", label, err)
			}
		}(fmt.Sprintf("bot-%d", i+1), time.Duration(i)*500*time.Millisecond)
	}
	wg.Wait()
	log.Println("Duel finished.")
}

func runBot(label, addr, roomName string) error {
	u := url.URL{Scheme: "ws", Host: addr, Path: "/ws"}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("could not connect: %w", err)
	}
	defer conn.Close()

	// Entra na sala compartilhada.
	payload, _ := json.Marshal(map[string]string{"roomName": roomName})
	if err := conn.WriteJSON(network.Message{Type: "JOIN_OR_CREATE", Payload: payload}); err != nil {
		return err
	}

	myTeam := -1
	currentTurn := 0
	playersInRoom := 0
	throwsSeen := 0

	for {
		conn.SetReadDeadline(time.Now().Add(30 * time.Second))
		var msg network.Message
		if err := conn.ReadJSON(&msg); err != nil {
			return fmt.Errorf("read failed: %w", err)
		}

		switch msg.Type {
		case message.TypeRoomJoined:
			var p message.JoinedPayload
			if err := json.Unmarshal(msg.Payload, &p); err != nil {
				return err
			}
			myTeam = p.Team
			currentTurn = p.Snapshot.CurrentTurn
			playersInRoom = len(p.Snapshot.Players)
			log.Printf("[%s] Joined room %s as team %d.", label, p.RoomID, myTeam)

		case message.TypeStatePatch:
			var p message.PatchPayload
			if err := json.Unmarshal(msg.Payload, &p); err != nil {
				return err
			}
			for _, pp := range p.Players {
				if pp.Left {
					playersInRoom--
				} else if pp.Team != nil {
					// Patch de jogador novo: o oponente chegou.
					playersInRoom++
				}
			}
			if p.CurrentTurn != nil {
				currentTurn = *p.CurrentTurn
				throwsSeen++
			}

		case message.TypeOpponentLeft:
			log.Printf("[%s] Opponent left, going home.", label)
			return nil

		case message.TypeError:
			var p message.ErrorPayload
			json.Unmarshal(msg.Payload, &p)
			// Fora de turno pode acontecer na corrida do começo; só loga.
			log.Printf("[%s] Server rejected: [%s] %s", label, p.Code, p.Error)
		}

		if throwsSeen >= totalThrows {
			log.Printf("[%s] Match complete after %d throws.", label, throwsSeen)
			conn.WriteJSON(network.Message{Type: "LEAVE_ROOM"})
			return nil
		}

		// Minha vez? Arremessa com parâmetros aleatórios dentro da faixa.
		if myTeam >= 0 && playersInRoom == 2 && currentTurn == myTeam {
			throw, _ := json.Marshal(map[string]any{
				"direction":   rand.Float64() - 0.5,
				"strength":    1 + rand.Float64()*4,
				"currentTurn": currentTurn,
			})
			// Simula o jogador mirando antes de soltar.
			time.Sleep(100 * time.Millisecond)
			if err := conn.WriteJSON(network.Message{Type: "ACTION", Payload: throw}); err != nil {
				return err
			}
		}
	}
}
