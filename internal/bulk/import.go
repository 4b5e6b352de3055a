package bulk

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/employee-records-api/internal/models"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Dispatcher is the remote side of an import. Each call is independent
// and may fail on its own.
type Dispatcher interface {
	Create(ctx context.Context, employee models.Employee) (int, error)
	Update(ctx context.Context, id int, employee models.Employee) error
}

// RowReader yields one split line per call and io.EOF at the end.
// *csv.Reader satisfies it.
type RowReader interface {
	Read() ([]string, error)
}

// fieldPositioner reports the source line of the record last read
type fieldPositioner interface {
	FieldPos(field int) (line, column int)
}

// Options tunes an import run
type Options struct {
	// Concurrency is the number of calls in flight. Values below 2 mean
	// strictly sequential dispatch in file order.
	Concurrency int
	// Logger receives one warning per failed call. Nil disables logging.
	Logger *zerolog.Logger
}

// Outcome is the tally of one import run. Success+Failure equals the
// number of rows dispatched.
type Outcome struct {
	Success int `json:"successful"`
	Failure int `json:"failed"`
	Skipped int `json:"skipped"`
}

// Processed returns the number of rows whose call settled
func (o Outcome) Processed() int {
	return o.Success + o.Failure
}

// Summary is the single notification shown after an import
func (o Outcome) Summary() string {
	return fmt.Sprintf("Processed %d records: %d successful, %d failed", o.Processed(), o.Success, o.Failure)
}

// Import parses comma-separated text and issues one create or update per
// row. Every physical line is one row; see LineReader.
func Import(ctx context.Context, r io.Reader, d Dispatcher, opts Options) (Outcome, error) {
	return ImportRows(ctx, NewLineReader(r), d, opts)
}

// ImportRows runs the parse, classify, dispatch and aggregate pipeline.
//
// A failing call never stops the run. The returned error is non-nil only
// when src fails or ctx is cancelled; the Outcome then covers the calls
// that had settled. Cancellation stops rows that have not started, and
// calls already in flight run to completion.
func ImportRows(ctx context.Context, src RowReader, d Dispatcher, opts Options) (Outcome, error) {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	limit := opts.Concurrency
	if limit < 1 {
		limit = 1
	}

	var (
		success, failure atomic.Int64
		skipped          int
	)
	callCtx := context.WithoutCancel(ctx)

	g := new(errgroup.Group)
	g.SetLimit(limit)

	dispatch := func(row Row) {
		defer func() {
			if r := recover(); r != nil {
				failure.Add(1)
				log.Error().Interface("panic", r).Int("line", row.Line).Msg("Row dispatch panicked - recovered")
			}
		}()

		var err error
		op := "create"
		if row.IsUpdate() {
			op = "update"
			err = d.Update(callCtx, row.ID, row.Employee())
		} else {
			_, err = d.Create(callCtx, row.Employee())
		}

		if err != nil {
			failure.Add(1)
			log.Warn().
				Err(err).
				Int("line", row.Line).
				Str("op", op).
				Int("id", row.ID).
				Msg("Row dispatch failed")
			return
		}
		success.Add(1)
	}

	layout := LayoutInferred
	first := true
	recordNum := 0
	var readErr error

	for {
		if ctx.Err() != nil {
			break
		}

		fields, err := src.Read()
		if err == io.EOF {
			break
		}
		recordNum++
		line := recordNum
		if fp, ok := src.(fieldPositioner); ok && err == nil {
			line, _ = fp.FieldPos(0)
		}

		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				skipped++
				log.Warn().Err(err).Int("line", parseErr.Line).Msg("Skipping unreadable row")
				first = false
				continue
			}
			readErr = fmt.Errorf("failed to read import row %d: %w", recordNum, err)
			break
		}

		if first {
			first = false
			layout = DetectLayout(fields)
			if layout.HasHeader() {
				log.Debug().Str("layout", layout.String()).Msg("Header detected")
				continue
			}
		}

		row, ok := ParseRow(fields, layout)
		if !ok {
			skipped++
			continue
		}
		row.Line = line

		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			dispatch(row)
			return nil
		})
	}

	g.Wait()

	result := Outcome{
		Success: int(success.Load()),
		Failure: int(failure.Load()),
		Skipped: skipped,
	}
	log.Debug().
		Int("successful", result.Success).
		Int("failed", result.Failure).
		Int("skipped", result.Skipped).
		Msg("Import finished")

	if readErr != nil {
		return result, readErr
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}
