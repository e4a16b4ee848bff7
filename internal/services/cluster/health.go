package cluster

import (
	"fmt"
	"net/http"
)

// NewBasicHealthHandler retorna um http.HandlerFunc genérico para um simples
// "liveness check". Ele apenas confirma que o processo está rodando e o
// servidor HTTP está respondendo. É o alvo do check registrado no Consul.
func NewBasicHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Service is alive.")
	}
}
