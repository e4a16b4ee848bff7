package network

import "encoding/json"

// MaxMessageSize é o tamanho máximo de um frame vindo do cliente, em bytes.
// Um comando de duelo cabe em poucas centenas de bytes; qualquer coisa
// maior é um cliente com problema e a conexão é derrubada.
const MaxMessageSize = 4 * 1024

// Message é o envelope de todas as mensagens do protocolo, nos dois sentidos.
// O campo Type seleciona o handler e o Payload só é deserializado por ele,
// cada um com o seu próprio schema.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}
