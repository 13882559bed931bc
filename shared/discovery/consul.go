package discovery

import (
	"fmt"
	"net"
	"strconv"

	consulapi "github.com/hashicorp/consul/api"
)

// Registration describes how a service announces itself to Consul.
type Registration struct {
	ID              string
	Name            string
	Address         string
	Port            int
	HealthCheckPort int
	CheckInterval   string
	DeregisterAfter string
	Tags            []string
}

// ConsulRegistry registers and deregisters a service with the local Consul agent.
type ConsulRegistry struct {
	client *consulapi.Client
}

// NewConsulRegistry creates a registry talking to the agent at address.
func NewConsulRegistry(address string) (*ConsulRegistry, error) {
	cfg := consulapi.DefaultConfig()
	if address != "" {
		cfg.Address = address
	}

	client, err := consulapi.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create consul client: %w", err)
	}

	return &ConsulRegistry{client: client}, nil
}

// Register announces the service with a gRPC health check against the
// service's health port.
func (r *ConsulRegistry) Register(reg Registration) error {
	return r.client.Agent().ServiceRegister(serviceRegistration(reg))
}

// Deregister removes the service registered under id.
func (r *ConsulRegistry) Deregister(id string) error {
	return r.client.Agent().ServiceDeregister(id)
}

func serviceRegistration(reg Registration) *consulapi.AgentServiceRegistration {
	interval := reg.CheckInterval
	if interval == "" {
		interval = "10s"
	}
	deregister := reg.DeregisterAfter
	if deregister == "" {
		deregister = "1m"
	}

	return &consulapi.AgentServiceRegistration{
		ID:      reg.ID,
		Name:    reg.Name,
		Address: reg.Address,
		Port:    reg.Port,
		Tags:    reg.Tags,
		Check: &consulapi.AgentServiceCheck{
			GRPC:                           net.JoinHostPort(reg.Address, strconv.Itoa(reg.HealthCheckPort)) + "/" + reg.Name,
			Interval:                       interval,
			DeregisterCriticalServiceAfter: deregister,
		},
	}
}
