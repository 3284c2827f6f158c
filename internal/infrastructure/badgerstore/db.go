// Package badgerstore implementa los puertos del almacén sobre BadgerDB (embebido, transacciones
// serializables con detección optimista de conflictos).
package badgerstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/jhoicas/campus-store/internal/domain"
)

// sequenceBandwidth números reservados por lease; al reiniciar se pierden los no usados (huecos).
const sequenceBandwidth = 50

// DB envuelve la base badger y las secuencias de códigos.
type DB struct {
	db *badger.DB

	mu   sync.Mutex
	seqs map[string]*badger.Sequence
}

// Open abre la base en dir. Con dir vacío la base vive solo en memoria (tests, demos).
func Open(dir string, log zerolog.Logger) (*DB, error) {
	opts := badger.DefaultOptions(dir).WithLogger(badgerLogger{log: log.With().Str("component", "badger").Logger()})
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &DB{db: db, seqs: make(map[string]*badger.Sequence)}, nil
}

// Close libera las secuencias (devuelve los números reservados) y cierra la base.
func (d *DB) Close() error {
	d.mu.Lock()
	for name, seq := range d.seqs {
		_ = seq.Release()
		delete(d.seqs, name)
	}
	d.mu.Unlock()
	return d.db.Close()
}

// next devuelve el siguiente valor de la secuencia name, empezando en 1.
func (d *DB) next(name string) (uint64, error) {
	d.mu.Lock()
	seq, ok := d.seqs[name]
	if !ok {
		var err error
		seq, err = d.db.GetSequence([]byte("seq/"+name), sequenceBandwidth)
		if err != nil {
			d.mu.Unlock()
			return 0, fmt.Errorf("get sequence %s: %w", name, err)
		}
		d.seqs[name] = seq
	}
	d.mu.Unlock()

	n, err := seq.Next()
	if err != nil {
		return 0, fmt.Errorf("next sequence %s: %w", name, err)
	}
	return n + 1, nil
}

// querier ejecuta fn sobre una transacción badger: la del TxRunner o una propia por llamada.
type querier interface {
	view(fn func(txn *badger.Txn) error) error
	update(fn func(txn *badger.Txn) error) error
}

type dbQuerier struct{ db *badger.DB }

func (q dbQuerier) view(fn func(txn *badger.Txn) error) error { return q.db.View(fn) }

func (q dbQuerier) update(fn func(txn *badger.Txn) error) error {
	return translateCommitError(q.db.Update(fn))
}

type txnQuerier struct{ txn *badger.Txn }

func (q txnQuerier) view(fn func(txn *badger.Txn) error) error   { return fn(q.txn) }
func (q txnQuerier) update(fn func(txn *badger.Txn) error) error { return fn(q.txn) }

// translateCommitError convierte el conflicto optimista de badger en domain.ErrConflict.
func translateCommitError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, badger.ErrConflict):
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	}
	return err
}

// getJSON decodifica el valor de key en v. Devuelve false si la clave no existe.
func getJSON(txn *badger.Txn, key []byte, v any) (bool, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

func setJSON(txn *badger.Txn, key []byte, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set(key, b)
}

// getRef lee una clave de índice cuyo valor es un ID.
func getRef(txn *badger.Txn, key []byte) (string, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	v, err := item.ValueCopy(nil)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

func exists(txn *badger.Txn, key []byte) (bool, error) {
	_, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	return err == nil, err
}

// badgerLogger adapta zerolog a la interfaz badger.Logger.
type badgerLogger struct{ log zerolog.Logger }

func (l badgerLogger) Errorf(format string, args ...interface{})   { l.log.Error().Msgf(format, args...) }
func (l badgerLogger) Warningf(format string, args ...interface{}) { l.log.Warn().Msgf(format, args...) }
func (l badgerLogger) Infof(format string, args ...interface{})    { l.log.Debug().Msgf(format, args...) }
func (l badgerLogger) Debugf(format string, args ...interface{})   { l.log.Trace().Msgf(format, args...) }
