package events

import (
	"encoding/json"
	"log"

	"github.com/nats-io/nats.go"
)

// Publisher publica eventos de ciclo de vida de partida em um broker NATS.
// Ele implementa session.EventSink: a camada de sessão anuncia o que
// aconteceu e não sabe (nem deve saber) quem consome.
//
// Publicação é fire-and-forget: um broker fora do ar não pode travar a
// goroutine de uma sala, então falhas só geram log.
type Publisher struct {
	nc     *nats.Conn
	prefix string
}

// NewPublisher conecta no NATS. O prefix é colado na frente de cada nome
// de evento para formar o subject (ex.: "duel" + "match.created" ->
// "duel.match.created").
func NewPublisher(url, prefix string) (*Publisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("beerpong-session"),
		nats.MaxReconnects(-1), // O broker pode reiniciar; seguimos tentando.
	)
	if err != nil {
		return nil, err
	}
	log.Printf("[Events] Connected to NATS at %s", url)
	return &Publisher{nc: nc, prefix: prefix}, nil
}

// Publish serializa o payload e publica no subject do evento.
func (p *Publisher) Publish(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[Events] ERROR: failed to marshal payload for %q: %v", event, err)
		return
	}
	subject := p.prefix + "." + event
	if err := p.nc.Publish(subject, data); err != nil {
		log.Printf("[Events] WARN: failed to publish %q: %v", subject, err)
	}
}

// Close drena a conexão, dando chance aos últimos eventos de saírem.
func (p *Publisher) Close() {
	if err := p.nc.Drain(); err != nil {
		p.nc.Close()
	}
}
