// cmd/server/main.go
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"beerpong/internal/network"
	"beerpong/internal/services/cluster"
	"beerpong/internal/services/events"
	"beerpong/internal/session"
)

func main() {
	// Configuração via variáveis de ambiente, com defaults para dev local.
	listenAddr := envOr("LISTEN_ADDR", ":8080")
	healthPort := envIntOr("HEALTH_PORT", 8081)
	pingAddr := envOr("PING_ADDR", ":8082")
	serviceName := envOr("SERVICE_NAME", "beerpong-session")

	// 1. Sink de eventos de partida. Sem NATS_URL, os eventos são descartados.
	var sink session.EventSink = session.NopSink()
	if natsURL := os.Getenv("NATS_URL"); natsURL != "" {
		publisher, err := events.NewPublisher(natsURL, "duel")
		if err != nil {
			log.Printf("WARN: could not connect to NATS at %s, match events disabled: %v", natsURL, err)
		} else {
			defer publisher.Close()
			sink = publisher
		}
	}

	// 2. O diretório de salas do processo. Começa vazio, sempre.
	registry := session.NewRegistry(sink)
	go registry.Run()

	// 3. Crie a lógica do jogo e injete-a no servidor de rede.
	gameHandler := session.NewGameHandler(registry)
	server := network.NewServer(gameHandler)

	// 4. Endpoint de health em porta separada, alvo do check do Consul.
	go func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/health", cluster.NewBasicHealthHandler())
		addr := fmt.Sprintf(":%d", healthPort)
		log.Printf("[Server] Health endpoint listening on %s/health", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Printf("WARN: health endpoint stopped: %v", err)
		}
	}()

	// 5. Sonda UDP de latência para as UIs dos clientes.
	if err := network.ListenPing(pingAddr); err != nil {
		log.Printf("WARN: UDP latency probe disabled: %v", err)
	}

	// 6. Registro opcional no Consul. Ausência de Consul não impede o dev local.
	if consulAddrs := os.Getenv("CONSUL_HTTP_ADDR"); consulAddrs != "" {
		servicePort := portOf(listenAddr, 8080)
		if err := cluster.RegisterService(consulAddrs, serviceName, servicePort, healthPort); err != nil {
			log.Printf("WARN: consul registration failed, continuing unregistered: %v", err)
		}
	}

	// 7. Inicie o servidor. Listen é bloqueante.
	if err := server.Listen(listenAddr); err != nil {
		log.Fatalf("Não foi possível iniciar o servidor: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("WARN: invalid value for %s=%q, using %d", key, os.Getenv(key), fallback)
	}
	return fallback
}

// portOf extrai a porta numérica de um endereço "host:porta".
func portOf(addr string, fallback int) int {
	idx := strings.LastIndex(addr, ":")
	if idx < 0 {
		return fallback
	}
	if n, err := strconv.Atoi(addr[idx+1:]); err == nil {
		return n
	}
	return fallback
}
