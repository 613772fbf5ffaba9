package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// SQLExecutor покрывает и *sql.DB, и *sql.Tx — методы репозиториев,
// участвующие в транзакциях сервисного слоя, принимают его параметром.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Tx — транзакция с точки зрения сервисов. *sql.Tx удовлетворяет
// интерфейсу структурно, тесты подставляют фейки.
type Tx interface {
	SQLExecutor
	Commit() error
	Rollback() error
}

// TxBeginner открывает транзакции. Оборачивает *sql.DB, чтобы сервисы
// не зависели от database/sql напрямую.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (Tx, error)
}

type sqlTxBeginner struct {
	db *sql.DB
}

func NewTxBeginner(db *sql.DB) TxBeginner {
	return &sqlTxBeginner{db: db}
}

func (b *sqlTxBeginner) BeginTx(ctx context.Context, opts *sql.TxOptions) (Tx, error) {
	tx, err := b.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError
	}
	return nil
}

// IsSerializationFailure сообщает, провалилась ли операция из-за
// конкурентного доступа (serialization failure, deadlock, lock timeout).
// Такие ошибки безопасно повторять; нарушения бизнес-правил — нет.
func IsSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch pqErr.Code {
	case "40001", "40P01", "55P03":
		return true
	}
	return false
}
