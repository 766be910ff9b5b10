package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNodeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"With port", "127.0.0.1/5001", "mgen.127-0-0-1"},
		{"Without port", "127.0.0.1", "mgen.127-0-0-1"},
		{"Other address", "192.168.10.20/41000", "mgen.192-168-10-20"},
		{"IPv6", "2001:db8::1/5000", "mgen.2001-db8--1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NodeName(tt.input))
		})
	}
}

func TestNodeNameDeterministic(t *testing.T) {
	// Equal addresses always produce equal names, and the port never
	// participates in the name.
	assert.Equal(t, NodeName("127.0.0.1"), NodeName("127.0.0.1"))
	assert.Equal(t, NodeName("127.0.0.1"), NodeName("127.0.0.1/5001"))
	assert.Equal(t, NodeName("127.0.0.1/5001"), NodeName("127.0.0.1/5002"))
}
