package userattributes

import (
	"fmt"
	"net/url"

	"github.com/asakaida/dirschema/internal/entities"
	"github.com/asakaida/dirschema/internal/render"
	"golang.org/x/net/html"
)

const checkmark = "✓"

// Headers are the column titles of the attribute table
var Headers = []string{"Attribute name", "Type", "Editable", "Visible", "Delete"}

// DeleteAction returns the form action deleting the named attribute
func DeleteAction(name string) string {
	return fmt.Sprintf("/attributes/%s/delete", url.PathEscape(name))
}

// Render projects the state and the failure slot into a display tree.
// It does not modify its inputs.
func Render(state State, err error) *html.Node {
	root := render.Element("div", []html.Attribute{render.Attr("class", "user-attributes")})

	switch s := state.(type) {
	case Loaded:
		root.AppendChild(renderTable(s.Attributes))
	default:
		root.AppendChild(render.Element("div", []html.Attribute{render.Attr("class", "loading")},
			render.Text("Loading..."),
		))
	}

	if err != nil {
		root.AppendChild(render.Element("div", []html.Attribute{render.Attr("class", "alert alert-danger")},
			render.Text("Error: "+err.Error()),
		))
	}
	return root
}

func renderTable(attrs []*entities.AttributeSchema) *html.Node {
	headRow := render.Element("tr", nil)
	for _, h := range Headers {
		headRow.AppendChild(render.Element("th", nil, render.Text(h)))
	}

	body := render.Element("tbody", nil)
	for _, a := range attrs {
		body.AppendChild(renderRow(a))
	}

	return render.Element("table", []html.Attribute{render.Attr("class", "table table-striped")},
		render.Element("thead", nil, headRow),
		body,
	)
}

func renderRow(a *entities.AttributeSchema) *html.Node {
	return render.Element("tr", nil,
		render.Element("td", nil, render.Text(a.Name)),
		render.Element("td", nil, render.Text(a.DisplayType())),
		render.Element("td", nil, flag(a.IsEditable)),
		render.Element("td", nil, flag(a.IsVisible)),
		render.Element("td", nil, deleteControl(a)),
	)
}

func flag(set bool) *html.Node {
	if !set {
		return nil
	}
	return render.Text(checkmark)
}

func deleteControl(a *entities.AttributeSchema) *html.Node {
	if a.IsHardcoded {
		return render.Element("button", []html.Attribute{
			render.Attr("type", "button"),
			render.Attr("class", "btn btn-danger"),
			render.Attr("disabled", ""),
			render.Attr("title", "Hardcoded attributes cannot be deleted"),
		}, render.Text("Delete"))
	}
	return render.Element("form", []html.Attribute{
		render.Attr("method", "post"),
		render.Attr("action", DeleteAction(a.Name)),
	},
		render.Element("button", []html.Attribute{
			render.Attr("type", "submit"),
			render.Attr("class", "btn btn-danger"),
		}, render.Text("Delete")),
	)
}
