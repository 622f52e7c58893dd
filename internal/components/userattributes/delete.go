package userattributes

import (
	"context"
	"fmt"
	"time"

	"github.com/asakaida/dirschema/internal/schemaclient"
	"github.com/rs/zerolog"
)

// Sink receives the messages a row reports to its table.
// *component.Core[State, Msg] implements it.
type Sink interface {
	Send(ctx context.Context, msg Msg) error
}

// RowDelete is the delete control of one table row.
// It reports exactly one AttributeDeleted or RowError per Start.
type RowDelete struct {
	client  schemaclient.Client
	name    string
	timeout time.Duration
	log     zerolog.Logger
}

// NewRowDelete creates the delete control for the named attribute
func NewRowDelete(client schemaclient.Client, name string, timeout time.Duration, log zerolog.Logger) *RowDelete {
	return &RowDelete{
		client:  client,
		name:    name,
		timeout: timeout,
		log:     log,
	}
}

// Start deletes the attribute in its own goroutine and reports the outcome to sink
func (d *RowDelete) Start(ctx context.Context, sink Sink) {
	go func() {
		msg := d.Delete(ctx)
		if err := sink.Send(ctx, msg); err != nil {
			d.log.Debug().Err(err).Str("attribute", d.name).Msg("delete outcome dropped")
		}
	}()
}

// Delete deletes the attribute and returns the message to report
func (d *RowDelete) Delete(ctx context.Context) Msg {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	if err := d.client.DeleteUserAttribute(ctx, d.name); err != nil {
		return RowError{Err: fmt.Errorf("failed to delete attribute %s: %w", d.name, err)}
	}
	d.log.Info().Str("attribute", d.name).Msg("attribute deleted")
	return AttributeDeleted{Name: d.name}
}
