package repositories

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

// maxConflictRetries bounds how often a write transaction is replayed after
// Badger reports a conflicting concurrent commit.
const maxConflictRetries = 3

// Repository is the Badger backed Store.
type Repository struct {
	db       *badger.DB
	posts    *BadgerPostRepository
	comments *BadgerCommentRepository
	users    *BadgerUserRepository
}

// NewRepository opens (or creates) the Badger database at path.
func NewRepository(path string, logger *slog.Logger) (*Repository, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(newBadgerLogger(logger)).
		WithLoggingLevel(badger.WARNING)
	return openRepository(opts)
}

// NewInMemoryRepository opens a Badger database that lives only in memory.
func NewInMemoryRepository() (*Repository, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(nil)
	return openRepository(opts)
}

func openRepository(opts badger.Options) (*Repository, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Repository{
		db:       db,
		posts:    NewBadgerPostRepository(db),
		comments: NewBadgerCommentRepository(db),
		users:    NewBadgerUserRepository(db),
	}, nil
}

func (r *Repository) Posts() PostRepository       { return r.posts }
func (r *Repository) Comments() CommentRepository { return r.comments }
func (r *Repository) Users() UserRepository       { return r.users }

// Ping reports whether the database still accepts reads.
func (r *Repository) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.db.IsClosed() {
		return errors.New("badger: database is closed")
	}
	return r.db.View(func(txn *badger.Txn) error { return nil })
}

// Backup writes a full backup of the database to w.
func (r *Repository) Backup(w io.Writer) error {
	if _, err := r.db.Backup(w, 0); err != nil {
		return fmt.Errorf("backup: %w", err)
	}
	return nil
}

// Load restores a backup produced by Backup.
func (r *Repository) Load(rd io.Reader) error {
	if err := r.db.Load(rd, 16); err != nil {
		return fmt.Errorf("load backup: %w", err)
	}
	return nil
}

// Clear drops every key.
func (r *Repository) Clear() error {
	return r.db.DropAll()
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// update runs fn in a read-write transaction, replaying it when a concurrent
// commit touched the same keys.
func update(ctx context.Context, db *badger.DB, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		err = db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

// view runs fn in a read-only transaction.
func view(ctx context.Context, db *badger.DB, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return db.View(fn)
}

// badgerLogger routes Badger's internal logging through slog.
type badgerLogger struct {
	logger *slog.Logger
}

func newBadgerLogger(logger *slog.Logger) badger.Logger {
	if logger == nil {
		return nil
	}
	return &badgerLogger{logger: logger.With("component", "badger")}
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
