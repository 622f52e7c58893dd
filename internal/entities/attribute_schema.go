package entities

import (
	"fmt"
	"strings"
)

// AttributeType is the value type of a user attribute
type AttributeType int

const (
	AttributeTypeUnknown AttributeType = iota
	AttributeTypeString
	AttributeTypeInteger
	AttributeTypeJpegPhoto
	AttributeTypeDateTime
)

// Wire names of the attribute types as sent by the schema endpoint
const (
	WireTypeString    = "STRING"
	WireTypeInteger   = "INTEGER"
	WireTypeJpegPhoto = "JPEG_PHOTO"
	WireTypeDateTime  = "DATE_TIME"
)

// ParseAttributeType maps a wire value to an AttributeType.
// Unrecognized values map to AttributeTypeUnknown rather than failing.
func ParseAttributeType(wire string) AttributeType {
	switch strings.ToUpper(strings.TrimSpace(wire)) {
	case WireTypeString:
		return AttributeTypeString
	case WireTypeInteger:
		return AttributeTypeInteger
	case WireTypeJpegPhoto:
		return AttributeTypeJpegPhoto
	case WireTypeDateTime:
		return AttributeTypeDateTime
	default:
		return AttributeTypeUnknown
	}
}

// WireName returns the wire value of the type, or "" for AttributeTypeUnknown
func (t AttributeType) WireName() string {
	switch t {
	case AttributeTypeString:
		return WireTypeString
	case AttributeTypeInteger:
		return WireTypeInteger
	case AttributeTypeJpegPhoto:
		return WireTypeJpegPhoto
	case AttributeTypeDateTime:
		return WireTypeDateTime
	default:
		return ""
	}
}

// String returns the display name of the type
func (t AttributeType) String() string {
	switch t {
	case AttributeTypeString:
		return "String"
	case AttributeTypeInteger:
		return "Integer"
	case AttributeTypeJpegPhoto:
		return "Jpeg"
	case AttributeTypeDateTime:
		return "DateTime"
	default:
		return "Unknown"
	}
}

// AttributeSchema represents one user attribute definition of the directory schema
// Example: "mail: String, visible, editable, hardcoded"
type AttributeSchema struct {
	Name        string        // Attribute name, unique within a schema (e.g., "mail", "avatar")
	Type        AttributeType // Value type
	IsList      bool          // Whether the attribute holds multiple values of Type
	IsEditable  bool          // Whether users may edit the attribute
	IsVisible   bool          // Whether the attribute is shown to users
	IsHardcoded bool          // Built-in attribute, cannot be deleted
}

// DisplayType returns the type as shown to operators: "List<Type>" for list attributes
func (a *AttributeSchema) DisplayType() string {
	if a.IsList {
		return fmt.Sprintf("List<%s>", a.Type)
	}
	return a.Type.String()
}

// Clone returns a copy of the attribute definition
func (a *AttributeSchema) Clone() *AttributeSchema {
	c := *a
	return &c
}

// Validate checks if the attribute definition is valid
func (a *AttributeSchema) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("attribute name is required")
	}
	return nil
}
