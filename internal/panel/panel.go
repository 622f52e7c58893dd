// Package panel hosts the user attribute table behind an HTTP surface.
package panel

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/asakaida/dirschema/internal/components/userattributes"
	"github.com/asakaida/dirschema/internal/render"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"
)

const pageTitle = "User attributes"

// Snapshot is one published render of the table.
// Immutable once published; every render publishes a new Snapshot.
type Snapshot struct {
	Version    uint64
	HTML       string // full page
	Markdown   string // table and error only
	Loaded     bool
	Attributes int
	Error      string
	RenderedAt time.Time
}

// Panel drives the table and publishes its renders.
type Panel struct {
	table     *userattributes.Table
	converter *render.Converter
	log       zerolog.Logger

	snapshot atomic.Pointer[Snapshot]
	version  uint64 // loop goroutine only
}

// New creates a panel for table and publishes the initial Loading snapshot.
func New(table *userattributes.Table, log zerolog.Logger) *Panel {
	p := &Panel{
		table:     table,
		converter: render.NewConverter(),
		log:       log.With().Str("component", "panel").Logger(),
	}
	p.publish(userattributes.Loading{}, userattributes.Render(userattributes.Loading{}, nil), nil)
	table.OnRender(func(state userattributes.State, view *html.Node) {
		p.publish(state, view, table.Core().Err())
	})
	return p
}

// Snapshot returns the most recently published render.
func (p *Panel) Snapshot() *Snapshot {
	return p.snapshot.Load()
}

// Table returns the hosted table.
func (p *Panel) Table() *userattributes.Table {
	return p.table
}

// Run drives the table until ctx is done or Close is called.
func (p *Panel) Run(ctx context.Context) error {
	return p.table.Core().Run(ctx)
}

// Close stops Run.
func (p *Panel) Close() {
	p.table.Core().Close()
}

// Settle processes events until the first schema query has resolved and returns
// the resulting snapshot. It must not be used while Run is active.
func (p *Panel) Settle(ctx context.Context) (*Snapshot, error) {
	core := p.table.Core()
	for {
		if _, ok := core.State().(userattributes.Loaded); ok {
			break
		}
		if err := core.Err(); err != nil {
			return p.Snapshot(), err
		}
		if _, err := core.Next(ctx); err != nil {
			return p.Snapshot(), err
		}
	}
	return p.Snapshot(), nil
}

func (p *Panel) publish(state userattributes.State, view *html.Node, failure error) {
	p.version++
	snap := &Snapshot{
		Version:    p.version,
		RenderedAt: time.Now(),
	}
	if loaded, ok := state.(userattributes.Loaded); ok {
		snap.Loaded = true
		snap.Attributes = len(loaded.Attributes)
	}
	if failure != nil {
		snap.Error = failure.Error()
	}

	doc, err := render.HTML(page(view))
	if err != nil {
		p.log.Error().Err(err).Msg("failed to render page")
	}
	snap.HTML = doc

	markdown, err := p.converter.Markdown(view)
	if err != nil {
		p.log.Error().Err(err).Msg("failed to render markdown")
	}
	snap.Markdown = markdown

	p.snapshot.Store(snap)
	p.log.Debug().
		Uint64("version", snap.Version).
		Bool("loaded", snap.Loaded).
		Int("attributes", snap.Attributes).
		Msg("snapshot published")
}

func page(view *html.Node) *html.Node {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(render.Element("html", nil,
		render.Element("head", nil,
			render.Element("meta", []html.Attribute{render.Attr("charset", "utf-8")}),
			render.Element("title", nil, render.Text(pageTitle)),
		),
		render.Element("body", nil,
			render.Element("h1", nil, render.Text(pageTitle)),
			render.Element("form", []html.Attribute{
				render.Attr("method", "post"),
				render.Attr("action", "/reload"),
			},
				render.Element("button", []html.Attribute{
					render.Attr("type", "submit"),
					render.Attr("class", "btn btn-secondary"),
				}, render.Text("Reload")),
			),
			view,
		),
	))
	return doc
}
