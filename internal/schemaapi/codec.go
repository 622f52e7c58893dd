package schemaapi

import (
	"errors"
	"fmt"

	"github.com/asakaida/dirschema/internal/entities"
	"google.golang.org/protobuf/types/known/structpb"
)

// ErrMalformedResponse is returned when a payload does not have the expected shape
var ErrMalformedResponse = errors.New("malformed schema payload")

// EncodeUserSchema converts a schema to a GetUserAttributesSchema response
func EncodeUserSchema(schema *entities.UserSchema) (*structpb.Struct, error) {
	attrs := make([]interface{}, 0, len(schema.Attributes))
	for _, a := range schema.Attributes {
		attrs = append(attrs, map[string]interface{}{
			"name":          a.Name,
			"attributeType": a.Type.WireName(),
			"isList":        a.IsList,
			"isEditable":    a.IsEditable,
			"isVisible":     a.IsVisible,
			"isHardcoded":   a.IsHardcoded,
		})
	}

	resp, err := structpb.NewStruct(map[string]interface{}{
		"schema": map[string]interface{}{
			"userSchema": map[string]interface{}{
				"attributes": attrs,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode user schema: %w", err)
	}
	return resp, nil
}

// DecodeUserSchema converts a GetUserAttributesSchema response to a schema.
// Unrecognized attribute types decode as AttributeTypeUnknown.
func DecodeUserSchema(resp *structpb.Struct) (*entities.UserSchema, error) {
	if resp == nil {
		return nil, fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}

	schema, err := structField(resp, "schema")
	if err != nil {
		return nil, err
	}
	userSchema, err := structField(schema, "userSchema")
	if err != nil {
		return nil, err
	}
	list, ok := userSchema.GetFields()["attributes"]
	if !ok || list.GetListValue() == nil {
		return nil, fmt.Errorf("%w: schema.userSchema.attributes is not a list", ErrMalformedResponse)
	}

	values := list.GetListValue().GetValues()
	result := &entities.UserSchema{Attributes: make([]*entities.AttributeSchema, 0, len(values))}
	for i, v := range values {
		attr, err := decodeAttribute(v)
		if err != nil {
			return nil, fmt.Errorf("attribute at index %d: %w", i, err)
		}
		result.Attributes = append(result.Attributes, attr)
	}

	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return result, nil
}

func decodeAttribute(v *structpb.Value) (*entities.AttributeSchema, error) {
	obj := v.GetStructValue()
	if obj == nil {
		return nil, fmt.Errorf("%w: attribute is not an object", ErrMalformedResponse)
	}
	fields := obj.GetFields()

	name, ok := fields["name"].GetKind().(*structpb.Value_StringValue)
	if !ok {
		return nil, fmt.Errorf("%w: attribute name must be a string", ErrMalformedResponse)
	}

	attr := &entities.AttributeSchema{
		Name: name.StringValue,
		Type: entities.AttributeTypeUnknown,
	}
	if t, ok := fields["attributeType"].GetKind().(*structpb.Value_StringValue); ok {
		attr.Type = entities.ParseAttributeType(t.StringValue)
	}

	flags := []struct {
		key string
		dst *bool
	}{
		{"isList", &attr.IsList},
		{"isEditable", &attr.IsEditable},
		{"isVisible", &attr.IsVisible},
		{"isHardcoded", &attr.IsHardcoded},
	}
	for _, f := range flags {
		val, present := fields[f.key]
		if !present || isNull(val) {
			continue
		}
		b, ok := val.GetKind().(*structpb.Value_BoolValue)
		if !ok {
			return nil, fmt.Errorf("%w: %s of %q must be a boolean", ErrMalformedResponse, f.key, attr.Name)
		}
		*f.dst = b.BoolValue
	}

	return attr, nil
}

func isNull(v *structpb.Value) bool {
	_, ok := v.GetKind().(*structpb.Value_NullValue)
	return ok
}

func structField(s *structpb.Struct, key string) (*structpb.Struct, error) {
	v, ok := s.GetFields()[key]
	if !ok || v.GetStructValue() == nil {
		return nil, fmt.Errorf("%w: missing object %q", ErrMalformedResponse, key)
	}
	return v.GetStructValue(), nil
}

// EncodeDeleteRequest builds a DeleteUserAttribute request
func EncodeDeleteRequest(name string) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"name": structpb.NewStringValue(name),
	}}
}

// DecodeDeleteRequest extracts the attribute name of a DeleteUserAttribute request
func DecodeDeleteRequest(req *structpb.Struct) (string, error) {
	name, ok := req.GetFields()["name"].GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", fmt.Errorf("%w: name must be a string", ErrMalformedResponse)
	}
	return name.StringValue, nil
}
