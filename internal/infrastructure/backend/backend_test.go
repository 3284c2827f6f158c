package backend_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/campus-store/internal/application/store"
	"github.com/jhoicas/campus-store/internal/domain/repository"
	"github.com/jhoicas/campus-store/internal/infrastructure/backend"
	"github.com/jhoicas/campus-store/pkg/config"
)

func TestOpen_BadgerEnDisco(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{
		Driver:      config.DriverBadger,
		BadgerDir:   t.TempDir(),
		LockTimeout: time.Second,
		ItemPrefix:  "ALM",
	}}
	b, err := backend.Open(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer b.Close()

	var n uint64
	err = b.Runner.Run(context.Background(), func(tx store.StoreTx) error {
		n, err = tx.Sequences().Next(context.Background(), repository.SequenceItem)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)

	sc := backend.StoreConfig(cfg)
	assert.Equal(t, "ALM", sc.ItemPrefix)
	assert.Equal(t, time.Second, sc.LockTimeout)
}

func TestOpen_DriverDesconocido(t *testing.T) {
	_, err := backend.Open(context.Background(), &config.Config{Store: config.StoreConfig{Driver: "sqlite"}}, zerolog.Nop())
	assert.Error(t, err)
}
