// cmd/client/main.go
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"beerpong/internal/network"
	"beerpong/internal/session/message"
)

// Cliente de terminal para jogar um duelo manualmente contra outro cliente.
// Comandos:
//
//	create <roomName>    cria uma sala nova
//	join <roomName>      entra em uma sala aberta
//	quick <roomName>     join-or-create
//	play <dir> <força>   arremessa (só quando for o seu turno)
//	leave                abandona a partida
//	latency              mede o RTT via sonda UDP
//	quit                 encerra
func main() {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	serverAddr := os.Getenv("SERVER_ADDR")
	if serverAddr == "" {
		serverAddr = "localhost:8080"
	}
	pingAddr := os.Getenv("PING_ADDR")
	if pingAddr == "" {
		pingAddr = "localhost:8082"
	}

	u := url.URL{Scheme: "ws", Host: serverAddr, Path: "/ws"}
	log.Printf("Conectando em %s", u.String())

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Não foi possível conectar ao servidor: %v", err)
	}
	defer conn.Close()

	done := make(chan struct{})

	// Goroutine de leitura: imprime tudo que o servidor manda.
	go func() {
		defer close(done)
		for {
			var msg network.Message
			if err := conn.ReadJSON(&msg); err != nil {
				log.Printf("Conexão encerrada: %v", err)
				return
			}
			printServerMessage(msg)
		}
	}()

	// Loop de comandos do terminal.
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		fmt.Println("Conectado. Digite 'quick <sala>' para começar.")
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if line == "quit" {
				interrupt <- os.Interrupt
				return
			}
			if msg, ok := buildCommand(line, pingAddr); ok {
				if err := conn.WriteJSON(msg); err != nil {
					log.Printf("Erro ao enviar comando: %v", err)
					return
				}
			}
		}
	}()

	select {
	case <-done:
	case <-interrupt:
		// Fechamento educado do WebSocket.
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		select {
		case <-done:
		case <-time.After(time.Second):
		}
	}
}

// buildCommand transforma uma linha do terminal em uma mensagem de protocolo.
// Retorna ok=false para comandos locais (latency) ou inválidos.
func buildCommand(line, pingAddr string) (network.Message, bool) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "create", "join", "quick":
		if len(fields) != 2 {
			fmt.Printf("uso: %s <roomName>\n", fields[0])
			return network.Message{}, false
		}
		types := map[string]string{
			"create": "CREATE_ROOM",
			"join":   "JOIN_ROOM",
			"quick":  "JOIN_OR_CREATE",
		}
		payload, _ := json.Marshal(map[string]string{"roomName": fields[1]})
		return network.Message{Type: types[fields[0]], Payload: payload}, true

	case "play":
		if len(fields) != 3 {
			fmt.Println("uso: play <direção> <força>")
			return network.Message{}, false
		}
		direction, err1 := strconv.ParseFloat(fields[1], 64)
		strength, err2 := strconv.ParseFloat(fields[2], 64)
		if err1 != nil || err2 != nil {
			fmt.Println("direção e força precisam ser números")
			return network.Message{}, false
		}
		payload, _ := json.Marshal(map[string]float64{
			"direction": direction,
			"strength":  strength,
		})
		return network.Message{Type: "ACTION", Payload: payload}, true

	case "leave":
		return network.Message{Type: "LEAVE_ROOM"}, true

	case "latency":
		rtt, err := network.MeasurePing(pingAddr, 3*time.Second)
		if err != nil {
			fmt.Printf("sonda UDP falhou: %v\n", err)
		} else {
			fmt.Printf("RTT: %s\n", rtt)
		}
		return network.Message{}, false

	default:
		fmt.Printf("comando desconhecido: %s\n", fields[0])
		return network.Message{}, false
	}
}

func printServerMessage(msg network.Message) {
	switch msg.Type {
	case message.TypeConnected:
		var p message.ConnectedPayload
		json.Unmarshal(msg.Payload, &p)
		fmt.Printf(">> conectado como %s\n", p.ClientID)

	case message.TypeRoomJoined:
		var p message.JoinedPayload
		json.Unmarshal(msg.Payload, &p)
		fmt.Printf(">> entrou na sala %s como time %d (turno atual: %d, %d jogador(es) dentro)\n",
			p.RoomID, p.Team, p.Snapshot.CurrentTurn, len(p.Snapshot.Players))

	case message.TypeStatePatch:
		var p message.PatchPayload
		json.Unmarshal(msg.Payload, &p)
		for id, pp := range p.Players {
			if pp.Left {
				fmt.Printf(">> jogador %s saiu\n", id)
				continue
			}
			parts := []string{}
			if pp.Direction != nil {
				parts = append(parts, fmt.Sprintf("direção=%.2f", *pp.Direction))
			}
			if pp.Strength != nil {
				parts = append(parts, fmt.Sprintf("força=%.2f", *pp.Strength))
			}
			if pp.Team != nil {
				parts = append(parts, fmt.Sprintf("time=%d", *pp.Team))
			}
			fmt.Printf(">> %s: %s\n", id, strings.Join(parts, " "))
		}
		if p.CurrentTurn != nil {
			fmt.Printf(">> turno agora é do time %d\n", *p.CurrentTurn)
		}

	case message.TypeOpponentLeft:
		var p message.OpponentLeftPayload
		json.Unmarshal(msg.Payload, &p)
		fmt.Printf(">> %s\n", p.Reason)

	case message.TypeError:
		var p message.ErrorPayload
		json.Unmarshal(msg.Payload, &p)
		fmt.Printf(">> ERRO [%s]: %s\n", p.Code, p.Error)

	case message.TypePong:
		fmt.Println(">> pong")

	default:
		fmt.Printf(">> %s: %s\n", msg.Type, string(msg.Payload))
	}
}
