package userattributes

import (
	"errors"
	"strings"
	"testing"

	"github.com/asakaida/dirschema/internal/entities"
	"github.com/asakaida/dirschema/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func cellTexts(row *html.Node) []string {
	var out []string
	for _, td := range render.FindAll(row, "td") {
		out = append(out, render.TextContent(td))
	}
	return out
}

func TestRender_Loading(t *testing.T) {
	view := Render(Loading{}, nil)

	assert.Equal(t, "Loading...", render.TextContent(view))
	assert.Empty(t, render.FindAll(view, "table"))
	assert.Empty(t, render.FindByClass(view, "alert-danger"))
}

func TestRender_LoadedTable(t *testing.T) {
	view := Render(Loaded{Attributes: sampleSchema().Attributes}, nil)

	var headers []string
	for _, th := range render.FindAll(view, "th") {
		headers = append(headers, render.TextContent(th))
	}
	assert.Equal(t, []string{"Attribute name", "Type", "Editable", "Visible", "Delete"}, headers)

	rows := render.FindAll(render.FindAll(view, "tbody")[0], "tr")
	require.Len(t, rows, 4)

	assert.Equal(t, []string{"mail", "String", "", "✓", "Delete"}, cellTexts(rows[0]))
	assert.Equal(t, []string{"nickname", "String", "✓", "✓", "Delete"}, cellTexts(rows[1]))
	assert.Equal(t, []string{"aliases", "List<String>", "✓", "", "Delete"}, cellTexts(rows[2]))
	assert.Equal(t, []string{"legacy", "Unknown", "", "", "Delete"}, cellTexts(rows[3]))
	assert.NotContains(t, render.TextContent(view), "Loading...")
}

func TestRender_DeleteControls(t *testing.T) {
	view := Render(Loaded{Attributes: sampleSchema().Attributes}, nil)
	rows := render.FindAll(render.FindAll(view, "tbody")[0], "tr")

	hardcoded := render.FindAll(rows[0], "button")
	require.Len(t, hardcoded, 1)
	_, disabled := render.AttrValue(hardcoded[0], "disabled")
	assert.True(t, disabled)
	assert.True(t, render.HasClass(hardcoded[0], "btn-danger"))
	assert.Empty(t, render.FindAll(rows[0], "form"))

	forms := render.FindAll(rows[1], "form")
	require.Len(t, forms, 1)
	action, _ := render.AttrValue(forms[0], "action")
	assert.Equal(t, "/attributes/nickname/delete", action)
	_, disabled = render.AttrValue(render.FindAll(forms[0], "button")[0], "disabled")
	assert.False(t, disabled)
}

func TestRender_ErrorIsAdditive(t *testing.T) {
	err := errors.New("Error trying to fetch user schema: unavailable")

	loading := Render(Loading{}, err)
	assert.Contains(t, render.TextContent(loading), "Loading...")
	alerts := render.FindByClass(loading, "alert-danger")
	require.Len(t, alerts, 1)
	assert.Equal(t, "Error: Error trying to fetch user schema: unavailable", render.TextContent(alerts[0]))

	loaded := Render(Loaded{Attributes: sampleSchema().Attributes}, err)
	assert.Len(t, render.FindAll(loaded, "table"), 1)
	assert.Len(t, render.FindByClass(loaded, "alert-danger"), 1)
}

func TestRender_Idempotent(t *testing.T) {
	state := Loaded{Attributes: sampleSchema().Attributes}
	err := errors.New("boom")

	first, rerr := render.HTML(Render(state, err))
	require.NoError(t, rerr)
	second, rerr := render.HTML(Render(state, err))
	require.NoError(t, rerr)
	assert.Equal(t, first, second)
	assert.Len(t, state.Attributes, 4)
}

func TestRender_Markdown(t *testing.T) {
	view := Render(Loaded{Attributes: []*entities.AttributeSchema{
		{Name: "mail", Type: entities.AttributeTypeString, IsVisible: true, IsHardcoded: true},
	}}, nil)

	out, err := render.NewConverter().Markdown(view)
	require.NoError(t, err)
	first := strings.SplitN(out, "\n", 2)[0]
	assert.Contains(t, first, "Attribute name")
	assert.Contains(t, first, "Visible")
	assert.Contains(t, out, "mail")
}

func TestDeleteAction_EscapesName(t *testing.T) {
	assert.Equal(t, "/attributes/a%2Fb/delete", DeleteAction("a/b"))
	assert.Equal(t, "/attributes/first_name/delete", DeleteAction("first_name"))
}
