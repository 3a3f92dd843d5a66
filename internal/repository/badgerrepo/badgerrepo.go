package badgerrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/mrled/suns/msgsvc/internal/model"
)

const (
	messagePrefix = "msg:"
	indexPrefix   = "id:"
)

// BadgerRepository is a BadgerDB implementation of MessageRepository.
//
// Each message is stored under "msg:{created_unix_nano_padded}:{id}" so that a prefix
// scan walks messages in creation order, with the ID breaking ties between messages
// created in the same nanosecond. A secondary key "id:{id}" points at the primary key.
type BadgerRepository struct {
	db  *badger.DB
	log *slog.Logger
}

// Open opens the database in dir; an empty dir opens a throwaway in-memory database
func Open(dir string, log *slog.Logger) (*BadgerRepository, error) {
	opts := badger.DefaultOptions(dir).WithLoggingLevel(badger.ERROR)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}
	return New(db, log), nil
}

// New wraps an already opened database
func New(db *badger.DB, log *slog.Logger) *BadgerRepository {
	if log == nil {
		log = slog.Default()
	}
	return &BadgerRepository{db: db, log: log}
}

// Close flushes and closes the database
func (r *BadgerRepository) Close() error {
	return r.db.Close()
}

func primaryKey(msg *model.Message) []byte {
	return fmt.Appendf(nil, "%s%019d:%s", messagePrefix, msg.DateCreated.UnixNano(), msg.ID)
}

func indexKey(id string) []byte {
	return []byte(indexPrefix + id)
}

// lookup resolves the primary key of id inside txn
func lookup(txn *badger.Txn, id string) ([]byte, error) {
	item, err := txn.Get(indexKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func decode(item *badger.Item) (*model.Message, error) {
	var msg model.Message
	err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &msg)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to decode message %s: %w", item.Key(), err)
	}
	return &msg, nil
}

// Store saves a new message
func (r *BadgerRepository) Store(ctx context.Context, msg *model.Message) error {
	if msg == nil {
		return errors.New("message cannot be nil")
	}
	value, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	return r.db.Update(func(txn *badger.Txn) error {
		if _, err := lookup(txn, msg.ID); err == nil {
			return model.ErrAlreadyExists
		} else if !errors.Is(err, model.ErrNotFound) {
			return err
		}

		key := primaryKey(msg)
		if err := txn.Set(key, value); err != nil {
			return err
		}
		return txn.Set(indexKey(msg.ID), key)
	})
}

// Get retrieves a message by ID
func (r *BadgerRepository) Get(ctx context.Context, id string) (*model.Message, error) {
	var msg *model.Message
	err := r.db.View(func(txn *badger.Txn) error {
		key, err := lookup(txn, id)
		if err != nil {
			return err
		}
		item, err := txn.Get(key)
		if err != nil {
			return fmt.Errorf("dangling index for message %s: %w", id, err)
		}
		msg, err = decode(item)
		return err
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// Update replaces an existing message. DateCreated is immutable, so the primary key is kept.
func (r *BadgerRepository) Update(ctx context.Context, msg *model.Message) error {
	if msg == nil {
		return errors.New("message cannot be nil")
	}
	value, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	return r.db.Update(func(txn *badger.Txn) error {
		key, err := lookup(txn, msg.ID)
		if err != nil {
			return err
		}
		return txn.Set(key, value)
	})
}

// Delete removes a message and its index entry
func (r *BadgerRepository) Delete(ctx context.Context, id string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key, err := lookup(txn, id)
		if err != nil {
			return err
		}
		if err := txn.Delete(key); err != nil {
			return err
		}
		return txn.Delete(indexKey(id))
	})
}

// List retrieves all messages in creation order
func (r *BadgerRepository) List(ctx context.Context) ([]*model.Message, error) {
	msgs := []*model.Message{}
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(messagePrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			msg, err := decode(it.Item())
			if err != nil {
				return err
			}
			msgs = append(msgs, msg)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// Page walks the primary keys once, decoding only the values inside the window
func (r *BadgerRepository) Page(ctx context.Context, number, size int) (*model.Page, error) {
	start := model.Offset(number, size)

	items := []*model.Message{}
	total := 0
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(messagePrefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if total >= start && total-start < size {
				msg, err := decode(it.Item())
				if err != nil {
					return err
				}
				items = append(items, msg)
			}
			total++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.log.Debug("Paged badger messages",
		slog.Int("page", number),
		slog.Int("size", size),
		slog.Int("total", total))
	return model.NewPage(items, number, size, total), nil
}
