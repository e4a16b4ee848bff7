package network

import (
	"fmt"
	"net"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Tempo para aguardar por uma escrita na conexão.
	writeWait = 10 * time.Second

	// Tempo máximo para aguardar por uma resposta de pong do cliente.
	pongWait = 60 * time.Second

	// Frequência com que enviamos pings para o cliente. Deve ser menor que pongWait.
	pingPeriod = (pongWait * 9) / 10
)

// Client é a representação de um jogador conectado do ponto de vista do servidor.
// Ele agrupa a conexão, uma identidade opaca e os canais de comunicação.
type Client struct {
	// Identificador único da conexão, atribuído no upgrade e imutável.
	// A camada de sessão usa este valor como clientId dentro das salas.
	id string

	// A conexão real com o jogador.
	conn *websocket.Conn

	// Uma referência ao Hub central. O cliente usa isso para se (des)registrar.
	hub *Hub

	// Um canal bufferizado para mensagens de saída.
	// A camada de jogo coloca as mensagens aqui, e a goroutine writeLoop as envia.
	// O buffer evita que quem envia bloqueie se o cliente estiver lento.
	// Este canal NUNCA é fechado: as goroutines das salas podem estar no
	// meio de um broadcast quando o cliente cai, e escrever em canal
	// fechado derruba o processo. O encerramento é sinalizado pelo quit.
	send chan Message

	// Fechado pelo Hub no desregistro. É o sinal para o writeLoop parar.
	quit chan struct{}
}

// ID retorna o identificador opaco desta conexão.
func (c *Client) ID() string {
	return c.id
}

// Conn retorna a conexão net.Conn subjacente do cliente.
// Isso é útil para obter informações como o endereço IP do jogador.
func (c *Client) Conn() net.Conn {
	return c.conn.UnderlyingConn()
}

func (c *Client) Send() chan<- Message {
	return c.send
}

func (c *Client) readLoop() {
	// Garante que a limpeza ocorrerá quando o loop terminar.
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(MaxMessageSize)

	// Configura um deadline para a próxima mensagem de pong.
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	// O handler de pong atualiza o read deadline, mantendo a conexão viva.
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Loop infinito para ler mensagens do cliente.
	for {
		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			// websocket.IsUnexpectedCloseError é útil para logar erros de desconexão inesperados.
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				fmt.Printf("Erro inesperado no cliente %s: %v\n", c.conn.RemoteAddr(), err)
			}
			// Para qualquer erro (desconexão normal ou anormal), saímos do loop.
			break
		}

		// Empacota a mensagem e o cliente que a enviou.
		messageToProcess := clientMessage{
			client: c,
			msg:    msg,
		}

		// Envia o pacote para o canal de entrada do Hub.
		c.hub.incoming <- messageToProcess
	}
}

// writeLoop bombeia mensagens do canal 'send' do cliente para a conexão WebSocket.
func (c *Client) writeLoop() {
	// Ticker para enviar pings periódicos para o cliente.
	ticker := time.NewTicker(pingPeriod)

	// Garante que a limpeza ocorrerá quando o loop terminar.
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.quit:
			// O Hub desregistrou o cliente. Envia uma mensagem de fechamento
			// e encerra. Mensagens que sobrarem no buffer do send morrem
			// junto com o cliente.
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case msg := <-c.send:
			// Configura um deadline para a escrita para evitar bloqueios indefinidos.
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			// Usa WriteJSON para enviar a struct Message como JSON.
			// A biblioteca cuida de toda a serialização e framing.
			err := c.conn.WriteJSON(msg)
			if err != nil {
				fmt.Printf("Erro de escrita no cliente %s: %v\n", c.conn.RemoteAddr(), err)
				return // Se a escrita falhar, encerramos a goroutine.
			}

		case <-ticker.C:
			// Envia uma mensagem de ping para o cliente.
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return // Se o ping falhar, a conexão está morta.
			}
		}
	}
}
