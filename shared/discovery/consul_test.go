package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceRegistration(t *testing.T) {
	reg := serviceRegistration(Registration{
		ID:              "portal-service-1",
		Name:            "portal-service",
		Address:         "10.0.0.5",
		Port:            3000,
		HealthCheckPort: 50051,
		Tags:            []string{"http"},
	})

	assert.Equal(t, "portal-service-1", reg.ID)
	assert.Equal(t, "portal-service", reg.Name)
	assert.Equal(t, 3000, reg.Port)
	require.NotNil(t, reg.Check)
	assert.Equal(t, "10.0.0.5:50051/portal-service", reg.Check.GRPC)
	assert.Equal(t, "10s", reg.Check.Interval)
	assert.Equal(t, "1m", reg.Check.DeregisterCriticalServiceAfter)
}

func TestNewConsulRegistry(t *testing.T) {
	r, err := NewConsulRegistry("127.0.0.1:8500")
	require.NoError(t, err)
	assert.NotNil(t, r.client)
}
