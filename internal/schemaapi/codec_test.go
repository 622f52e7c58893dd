package schemaapi

import (
	"testing"

	"github.com/asakaida/dirschema/internal/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"
)

func responseWith(t *testing.T, attrs ...interface{}) *structpb.Struct {
	t.Helper()
	resp, err := structpb.NewStruct(map[string]interface{}{
		"schema": map[string]interface{}{
			"userSchema": map[string]interface{}{
				"attributes": attrs,
			},
		},
	})
	require.NoError(t, err)
	return resp
}

func TestEncodeDecodeUserSchema_PreservesOrderAndFlags(t *testing.T) {
	schema := &entities.UserSchema{Attributes: []*entities.AttributeSchema{
		{Name: "mail", Type: entities.AttributeTypeString, IsVisible: true, IsHardcoded: true},
		{Name: "lucky_numbers", Type: entities.AttributeTypeInteger, IsList: true, IsEditable: true},
		{Name: "avatar", Type: entities.AttributeTypeJpegPhoto},
		{Name: "birthday", Type: entities.AttributeTypeDateTime, IsEditable: true, IsVisible: true},
	}}

	resp, err := EncodeUserSchema(schema)
	require.NoError(t, err)

	got, err := DecodeUserSchema(resp)
	require.NoError(t, err)
	assert.Equal(t, schema, got)
}

func TestDecodeUserSchema_UnknownTypeDoesNotFail(t *testing.T) {
	resp := responseWith(t,
		map[string]interface{}{"name": "location", "attributeType": "GEO_POINT"},
		map[string]interface{}{"name": "weird", "attributeType": 42.0},
		map[string]interface{}{"name": "untyped"},
	)

	got, err := DecodeUserSchema(resp)
	require.NoError(t, err)
	require.Len(t, got.Attributes, 3)
	for _, a := range got.Attributes {
		assert.Equal(t, entities.AttributeTypeUnknown, a.Type, a.Name)
		assert.Equal(t, "Unknown", a.DisplayType())
	}
}

func TestDecodeUserSchema_MissingFlagsDefaultToFalse(t *testing.T) {
	resp := responseWith(t, map[string]interface{}{
		"name":          "nickname",
		"attributeType": "STRING",
		"isVisible":     nil,
	})

	got, err := DecodeUserSchema(resp)
	require.NoError(t, err)
	assert.Equal(t, &entities.AttributeSchema{Name: "nickname", Type: entities.AttributeTypeString}, got.Attributes[0])
}

func TestDecodeUserSchema_Errors(t *testing.T) {
	emptySchema, err := structpb.NewStruct(map[string]interface{}{})
	require.NoError(t, err)
	noList, err := structpb.NewStruct(map[string]interface{}{
		"schema": map[string]interface{}{"userSchema": map[string]interface{}{"attributes": "none"}},
	})
	require.NoError(t, err)

	tests := []struct {
		name string
		resp *structpb.Struct
	}{
		{name: "nil response", resp: nil},
		{name: "missing schema", resp: emptySchema},
		{name: "attributes not a list", resp: noList},
		{name: "attribute not an object", resp: responseWith(t, "mail")},
		{name: "missing name", resp: responseWith(t, map[string]interface{}{"attributeType": "STRING"})},
		{name: "flag not a boolean", resp: responseWith(t, map[string]interface{}{"name": "mail", "isList": "yes"})},
		{name: "duplicate names", resp: responseWith(t,
			map[string]interface{}{"name": "mail"},
			map[string]interface{}{"name": "mail"},
		)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeUserSchema(tt.resp)
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestDeleteRequestRoundTrip(t *testing.T) {
	name, err := DecodeDeleteRequest(EncodeDeleteRequest("nickname"))
	require.NoError(t, err)
	assert.Equal(t, "nickname", name)

	_, err = DecodeDeleteRequest(&structpb.Struct{})
	assert.ErrorIs(t, err, ErrMalformedResponse)
}
