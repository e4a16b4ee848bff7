package network

import (
	"encoding/binary"
	"fmt"
	"log"
	"net"
	"time"
)

const (
	// Definimos "tipos" de pacotes para saber o que recebemos.
	PING_PACKET_TYPE byte = 0x01
	PONG_PACKET_TYPE byte = 0x02
)

// O nosso pacote UDP é muito simples:
// [ 1 byte para o tipo de pacote ] [ 8 bytes para o timestamp ]
// O timestamp é o tempo em nanossegundos desde a "época Unix".
// Num jogo de física por turnos a UI quer mostrar a latência real,
// e UDP mede isso sem passar pela fila de mensagens do WebSocket.

// EncodePingPacket cria um pacote de 9 bytes para ser enviado.
func EncodePingPacket(packetType byte, timestamp int64) []byte {
	buf := make([]byte, 9)
	buf[0] = packetType
	binary.LittleEndian.PutUint64(buf[1:], uint64(timestamp))
	return buf
}

// DecodePingPacket lê um pacote de 9 bytes e extrai as informações.
func DecodePingPacket(data []byte) (packetType byte, timestamp int64, err error) {
	if len(data) < 9 {
		return 0, 0, fmt.Errorf("pacote UDP muito pequeno: esperado 9 bytes, recebeu %d", len(data))
	}
	packetType = data[0]
	timestamp = int64(binary.LittleEndian.Uint64(data[1:]))
	return packetType, timestamp, nil
}

// ListenPing abre um socket UDP e responde cada PING com um PONG
// carregando o mesmo timestamp. O cliente calcula o RTT na volta.
func ListenPing(address string) error {
	pc, err := net.ListenPacket("udp", address)
	if err != nil {
		return fmt.Errorf("failed to open UDP ping socket: %w", err)
	}

	log.Printf("[Ping] UDP latency probe listening on %s", address)

	go func() {
		defer pc.Close()
		buf := make([]byte, 16)
		for {
			n, addr, err := pc.ReadFrom(buf)
			if err != nil {
				log.Printf("[Ping] UDP read error, stopping probe: %v", err)
				return
			}

			packetType, timestamp, err := DecodePingPacket(buf[:n])
			if err != nil || packetType != PING_PACKET_TYPE {
				// Pacote malformado ou de tipo errado. Só ignoramos.
				continue
			}

			pong := EncodePingPacket(PONG_PACKET_TYPE, timestamp)
			if _, err := pc.WriteTo(pong, addr); err != nil {
				log.Printf("[Ping] failed to answer %s: %v", addr, err)
			}
		}
	}()

	return nil
}

// MeasurePing envia um PING para o endereço dado e espera o PONG de volta.
// Retorna o RTT medido. Usado pelo cliente de terminal e pelo bot.
func MeasurePing(address string, timeout time.Duration) (time.Duration, error) {
	conn, err := net.Dial("udp", address)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	sentAt := time.Now()
	packet := EncodePingPacket(PING_PACKET_TYPE, sentAt.UnixNano())
	if _, err := conn.Write(packet); err != nil {
		return 0, err
	}

	conn.SetReadDeadline(time.Now().Add(timeout))
	buf := make([]byte, 16)
	n, err := conn.Read(buf)
	if err != nil {
		return 0, err
	}

	packetType, timestamp, err := DecodePingPacket(buf[:n])
	if err != nil {
		return 0, err
	}
	if packetType != PONG_PACKET_TYPE {
		return 0, fmt.Errorf("unexpected packet type %#x in pong", packetType)
	}
	if timestamp != sentAt.UnixNano() {
		return 0, fmt.Errorf("pong carries a timestamp we did not send")
	}

	return time.Since(sentAt), nil
}
