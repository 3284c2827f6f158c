package redislock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/campus-store/internal/application/store"
	"github.com/jhoicas/campus-store/internal/domain"
)

var _ store.ItemLocker = (*Locker)(nil)

const keyPrefix = "lock:store:item:"

// Borra la clave solo si sigue conteniendo nuestro token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// Options parámetros del bloqueo.
type Options struct {
	TTL        time.Duration // expiración de la clave si el proceso muere con el bloqueo tomado
	RetryDelay time.Duration
}

// OptionsFor deriva el TTL del plazo por operación del libro (TTL = 2 × opTimeout; 0 = por defecto).
func OptionsFor(opTimeout time.Duration) Options {
	return Options{TTL: 2 * opTimeout}
}

// Locker bloqueo por artículo con SET NX PX y token aleatorio.
type Locker struct {
	rdb  redis.UniversalClient
	opts Options
	log  zerolog.Logger
}

// New construye el bloqueo. TTL por defecto 10s, reintento cada 100ms.
func New(rdb redis.UniversalClient, opts Options, log zerolog.Logger) *Locker {
	if opts.TTL <= 0 {
		opts.TTL = 10 * time.Second
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 100 * time.Millisecond
	}
	return &Locker{rdb: rdb, opts: opts, log: log}
}

// Key clave Redis del artículo.
func Key(itemID string) string {
	return keyPrefix + itemID
}

// Lock reintenta hasta tomar el bloqueo o hasta que venza ctx (domain.ErrConflict).
func (l *Locker) Lock(ctx context.Context, itemID string) (func(), error) {
	key := Key(itemID)
	token := uuid.NewString()

	for {
		ok, err := l.rdb.SetNX(ctx, key, token, l.opts.TTL).Result()
		switch {
		case ok:
			return func() { l.release(key, token) }, nil
		case err != nil && ctx.Err() == nil:
			return nil, fmt.Errorf("%w: redis lock %s: %v", domain.ErrStorageFailure, key, err)
		}

		timer := time.NewTimer(l.opts.RetryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%w: artículo %s bloqueado por otra operación", domain.ErrConflict, itemID)
		case <-timer.C:
		}
	}
}

// release usa un contexto propio: el de la operación puede haber vencido.
func (l *Locker) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := releaseScript.Run(ctx, l.rdb, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		l.log.Warn().Err(err).Str("key", key).Msg("no se pudo liberar el bloqueo")
	}
}

// NewClient crea el cliente Redis y verifica la conexión.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
