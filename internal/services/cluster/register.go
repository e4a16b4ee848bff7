package cluster

import (
	"fmt"
	"log"
	"os"

	consul "github.com/hashicorp/consul/api"
)

// RegisterService registra este servidor de duelo no Consul, com um health
// check HTTP apontando para o endpoint /health do próprio processo.
// Retorna erro em vez de derrubar o processo: rodar sem Consul é válido
// em desenvolvimento.
func RegisterService(consulAddrs, serviceName string, servicePort, healthPort int) error {
	consulClient, err := NewConsulClient(consulAddrs)
	if err != nil {
		return fmt.Errorf("failed to reach consul: %w", err)
	}

	// O hostname é perfeito para criar um ID de serviço único por instância.
	hostname := os.Getenv("HOSTNAME")
	if hostname == "" {
		// Fallback caso a variável de ambiente não esteja setada
		hostname, _ = os.Hostname()
	}
	serviceID := fmt.Sprintf("%s-%s", serviceName, hostname)

	registration := &consul.AgentServiceRegistration{
		ID:   serviceID,
		Name: serviceName,
		Port: servicePort,

		// Sem 'Address': o agente do Consul usa automaticamente o endereço
		// IP do contêiner que está fazendo o registro.
		Check: &consul.AgentServiceCheck{
			// A URL do check precisa de um host resolvível por DNS dentro
			// da rede do compose, e o hostname do contêiner é exatamente isso.
			HTTP: fmt.Sprintf("http://%s:%d/health", hostname, healthPort),

			Timeout:  "5s",
			Interval: "10s",
			// Desregistra automaticamente o serviço se ele ficar
			// em estado crítico por mais de 1 minuto.
			DeregisterCriticalServiceAfter: "1m",
		},
	}

	if err := consulClient.Agent().ServiceRegister(registration); err != nil {
		return fmt.Errorf("failed to register service in consul: %w", err)
	}

	log.Printf("[Cluster] Service %q registered in Consul with ID: %s", serviceName, serviceID)
	return nil
}
