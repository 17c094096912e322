package recovery

import (
	"context"

	"github.com/bsv-blockchain/walletrecovery/model"
	"github.com/bsv-blockchain/walletrecovery/stores/wallet/records"
)

// StepFunc inspects one record. It returns found=true to stop the scan with value as its result, a non nil
// error aborts the scan.
type StepFunc[T any] func(ctx context.Context, r model.Record) (value T, found bool, err error)

// Fold walks it until step reports a result, the records run out or an error occurs. The iterator is not
// released, that stays with the caller.
func Fold[T any](ctx context.Context, it records.Iterator, step StepFunc[T]) (T, bool, error) {
	var zero T

	for it.Next() {
		if err := ctx.Err(); err != nil {
			return zero, false, err
		}

		value, found, err := step(ctx, it.Record())
		if err != nil {
			return zero, false, err
		}

		if found {
			return value, true, nil
		}
	}

	if err := it.Err(); err != nil {
		return zero, false, err
	}

	return zero, false, nil
}

// ForEach visits every record, it is a Fold that never finds anything.
func ForEach(ctx context.Context, it records.Iterator, visit func(ctx context.Context, r model.Record) error) error {
	_, _, err := Fold(ctx, it, func(ctx context.Context, r model.Record) (struct{}, bool, error) {
		return struct{}{}, false, visit(ctx, r)
	})

	return err
}
