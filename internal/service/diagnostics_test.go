package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiagnosticsPing(t *testing.T) {
	f := newFixture(t)

	assert.NoError(t, f.services.Diagnostics.Ping(context.Background()))

	f.store.pingErr = errStore
	err := f.services.Diagnostics.Ping(context.Background())
	assert.ErrorIs(t, err, errStore)
	assert.Contains(t, err.Error(), "database")
}
