package repos

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	applog "stockroom/internal/log"
)

// ErrBegin and ErrCommit mark failures of the transaction itself, as opposed to
// the work done inside it.
var (
	ErrBegin  = errors.New("begin tx")
	ErrCommit = errors.New("commit tx")
)

// session is the part of a transaction the unit of work needs to finish it.
type session interface {
	Commit() error
	Rollback() error
}

func beginner(db *sqlx.DB) func(context.Context) (*sqlx.Tx, error) {
	return func(ctx context.Context) (*sqlx.Tx, error) { return db.BeginTxx(ctx, nil) }
}

// inTx runs fn as one unit of work. The session commits only when fn returns nil;
// errors, failed commits and panics roll it back. A rollback failure is logged
// and never replaces the error that caused it.
func inTx[S session](ctx context.Context, begin func(context.Context) (S, error), fn func(S) error) (err error) {
	tx, err := begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBegin, err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		p := recover()
		cause := err
		if p != nil {
			cause = fmt.Errorf("panic: %v", p)
		}
		rollback(tx, cause)
		if p != nil {
			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommit, err)
	}
	committed = true
	return nil
}

func rollback(tx session, cause error) {
	rbErr := tx.Rollback()
	if rbErr == nil {
		return
	}
	fields := map[string]any{}
	if cause != nil {
		fields["cause"] = cause.Error()
	}
	if errors.Is(rbErr, sql.ErrTxDone) {
		// The driver already ended the transaction (cancelled context, failed commit).
		applog.Warn(nil, "store.tx.aborted", rbErr, fields)
		return
	}
	applog.Error(nil, "store.rollback.fail", rbErr, fields)
}
