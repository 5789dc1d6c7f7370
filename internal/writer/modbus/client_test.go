// internal/writer/modbus/client_test.go
package modbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEndpointClient_RequiresEndpoint(t *testing.T) {
	_, err := NewEndpointClient(Config{})
	assert.Error(t, err)

	c, err := NewEndpointClient(Config{Endpoint: "127.0.0.1:502"})
	require.NoError(t, err)
	assert.NoError(t, c.Close(), "closing a never-dialed client is a no-op")
}

func TestPackRegisters_BigEndian(t *testing.T) {
	assert.Equal(t, []byte{0x00, 0x01, 0xAB, 0xCD}, packRegisters([]uint16{1, 0xABCD}))
}
