package message

import (
	"fmt"

	"beerpong/internal/network"
)

// MessageSender define a interface para qualquer tipo que pode receber uma mensagem.
// Isso nos permite desacoplar o pacote `message` de implementações concretas
// como `PlayerSession` ou `network.Client`.
type MessageSender interface {
	Send() chan<- network.Message
}

// SendError envia uma resposta de erro formatada para o cliente.
func SendError(sender MessageSender, code, format string, args ...interface{}) {
	errorMsg := fmt.Sprintf(format, args...)
	sender.Send() <- CreateErrorResponse(code, errorMsg)
}
