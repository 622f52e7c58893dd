// Package userattributes implements the user attribute schema table of the admin panel.
package userattributes

import (
	"context"
	"fmt"
	"time"

	"github.com/asakaida/dirschema/internal/component"
	"github.com/asakaida/dirschema/internal/entities"
	"github.com/asakaida/dirschema/internal/schemaclient"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"
)

const (
	// ComponentName identifies the table in logs and metrics
	ComponentName = "user_attributes_table"

	// FetchFailureContext qualifies failures of the schema query
	FetchFailureContext = "Error trying to fetch user schema"
)

// State is the table state: Loading or Loaded.
type State interface {
	isState()
}

// Loading is the state before the first schema response arrives.
type Loading struct{}

// Loaded holds the attribute list in server order.
// The slice is never modified in place; every change produces a new one.
type Loaded struct {
	Attributes []*entities.AttributeSchema
}

func (Loading) isState() {}
func (Loaded) isState()  {}

// Msg is a message handled by the table.
type Msg interface {
	isMsg()
}

// ListAttributesResponse carries a successful schema query result.
type ListAttributesResponse struct {
	Schema *entities.UserSchema
}

// AttributeDeleted is reported by a row once its attribute was deleted remotely.
type AttributeDeleted struct {
	Name string
}

// RowError is reported by a row whose operation failed.
type RowError struct {
	Err error
}

func (ListAttributesResponse) isMsg() {}
func (AttributeDeleted) isMsg()       {}
func (RowError) isMsg()               {}

// Reduce is the table reducer.
func Reduce(state State, msg Msg) (State, bool, error) {
	switch m := msg.(type) {
	case ListAttributesResponse:
		var attrs []*entities.AttributeSchema
		if m.Schema != nil {
			attrs = append(attrs, m.Schema.Attributes...)
		}
		return Loaded{Attributes: attrs}, true, nil

	case AttributeDeleted:
		loaded, ok := state.(Loaded)
		if !ok {
			return state, false, fmt.Errorf("%w: attribute %q deleted while the schema is loading",
				component.ErrContractViolation, m.Name)
		}
		remaining := make([]*entities.AttributeSchema, 0, len(loaded.Attributes))
		for _, a := range loaded.Attributes {
			if a.Name != m.Name {
				remaining = append(remaining, a)
			}
		}
		if len(remaining) == len(loaded.Attributes) {
			return state, false, nil
		}
		return Loaded{Attributes: remaining}, true, nil

	case RowError:
		if m.Err == nil {
			return state, false, fmt.Errorf("%w: row error without a cause", component.ErrContractViolation)
		}
		return state, true, m.Err

	default:
		return state, false, fmt.Errorf("%w: unexpected message %T", component.ErrContractViolation, msg)
	}
}

// Table is the user attribute schema table.
//
// Reload and DeleteAttribute may be called from any goroutine. The core must be
// driven by a single goroutine through Run or Next.
type Table struct {
	core         *component.Core[State, Msg]
	client       schemaclient.Client
	ctx          context.Context
	queryTimeout time.Duration
	log          zerolog.Logger
}

// NewTable creates the table and initiates the schema query.
// ctx bounds every remote call the table makes; queryTimeout applies per call when positive.
func NewTable(ctx context.Context, client schemaclient.Client, queryTimeout time.Duration, log zerolog.Logger, opts ...component.Option) *Table {
	opts = append([]component.Option{component.WithLogger(log)}, opts...)
	t := &Table{
		core:         component.New[State, Msg](ComponentName, Loading{}, component.ReducerFunc[State, Msg](Reduce), opts...),
		client:       client,
		ctx:          ctx,
		queryTimeout: queryTimeout,
		log:          log.With().Str("component", ComponentName).Logger(),
	}
	t.fetch()
	return t
}

// Core returns the component core driving the table.
func (t *Table) Core() *component.Core[State, Msg] {
	return t.core
}

// OnRender sets a hook receiving the state and its display tree after every re-render.
func (t *Table) OnRender(fn func(state State, view *html.Node)) {
	t.core.OnRender(func(state State, failure *component.Failure) {
		fn(state, Render(state, t.core.Err()))
	})
}

// Reload re-issues the schema query. The current list stays visible until the
// response arrives.
func (t *Table) Reload(ctx context.Context) error {
	return t.core.Invoke(ctx, func() bool {
		t.fetch()
		return false
	})
}

// DeleteAttribute starts the delete control of the named row.
// Hardcoded attributes are refused with a row error.
func (t *Table) DeleteAttribute(ctx context.Context, name string) error {
	return t.core.Invoke(ctx, func() bool {
		loaded, ok := t.core.State().(Loaded)
		if !ok {
			return t.core.Dispatch(RowError{Err: fmt.Errorf("cannot delete %s: the schema is not loaded", name)})
		}

		var attr *entities.AttributeSchema
		for _, a := range loaded.Attributes {
			if a.Name == name {
				attr = a
				break
			}
		}
		switch {
		case attr == nil:
			return t.core.Dispatch(RowError{Err: fmt.Errorf("unknown attribute %s", name)})
		case attr.IsHardcoded:
			return t.core.Dispatch(RowError{Err: fmt.Errorf("attribute %s is hardcoded and cannot be deleted", name)})
		}

		NewRowDelete(t.client, name, t.queryTimeout, t.log).Start(t.ctx, t.core)
		return false
	})
}

func (t *Table) fetch() {
	component.InitiateQuery(t.ctx, t.core,
		func(ctx context.Context) (*entities.UserSchema, error) {
			if t.queryTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, t.queryTimeout)
				defer cancel()
			}
			return t.client.GetUserAttributesSchema(ctx)
		},
		func(schema *entities.UserSchema) Msg {
			return ListAttributesResponse{Schema: schema}
		},
		FetchFailureContext,
	)
}
