// Package consul registers the service with a HashiCorp Consul agent so it can
// be discovered and health checked alongside the rest of the school stack.
package consul

import (
	consulapi "github.com/hashicorp/consul/api"
)

// agent is the subset of the Consul agent endpoint the client uses
type agent interface {
	ServiceRegister(reg *consulapi.AgentServiceRegistration) error
	ServiceDeregister(serviceID string) error
}

// Client wraps the Consul agent API
type Client struct {
	agent agent
}

// NewClientWithToken creates a new Consul client with ACL token authentication
func NewClientWithToken(addr, token string) (*Client, error) {
	config := consulapi.DefaultConfig()
	config.Address = addr

	if token != "" {
		config.Token = token
	}

	client, err := consulapi.NewClient(config)
	if err != nil {
		return nil, err
	}

	return &Client{agent: client.Agent()}, nil
}
