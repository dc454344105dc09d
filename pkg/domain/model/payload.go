package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/herald/pkg/domain/types"
	"github.com/tidwall/gjson"
)

// Payload is an immutable view over the raw JSON body of one webhook
// delivery. All field access goes through the typed getters; a missing or
// mistyped path fails with types.ErrSchemaViolation. There is no
// best-effort extraction: formatters either get the value they asked for
// or the whole delivery fails.
type Payload struct {
	raw []byte
}

// NewPayload wraps raw JSON bytes. The bytes are not copied; callers must
// not mutate them afterwards.
func NewPayload(raw []byte) *Payload {
	return &Payload{raw: raw}
}

// String extracts a string value at a gjson path.
func (p *Payload) String(path string) (string, error) {
	r := gjson.GetBytes(p.raw, path)
	if !r.Exists() {
		return "", goerr.Wrap(types.ErrSchemaViolation, "missing field", goerr.V("path", path), goerr.V("expected", "string"))
	}
	if r.Type != gjson.String {
		return "", goerr.Wrap(types.ErrSchemaViolation, "field is not a string", goerr.V("path", path), goerr.V("got", r.Type.String()))
	}
	return r.Str, nil
}

// Int extracts an integer value at a gjson path.
func (p *Payload) Int(path string) (int64, error) {
	r := gjson.GetBytes(p.raw, path)
	if !r.Exists() {
		return 0, goerr.Wrap(types.ErrSchemaViolation, "missing field", goerr.V("path", path), goerr.V("expected", "int"))
	}
	if r.Type != gjson.Number {
		return 0, goerr.Wrap(types.ErrSchemaViolation, "field is not a number", goerr.V("path", path), goerr.V("got", r.Type.String()))
	}
	return r.Int(), nil
}

// Bool extracts a boolean value at a gjson path.
func (p *Payload) Bool(path string) (bool, error) {
	r := gjson.GetBytes(p.raw, path)
	if !r.Exists() {
		return false, goerr.Wrap(types.ErrSchemaViolation, "missing field", goerr.V("path", path), goerr.V("expected", "bool"))
	}
	if !r.IsBool() {
		return false, goerr.Wrap(types.ErrSchemaViolation, "field is not a boolean", goerr.V("path", path), goerr.V("got", r.Type.String()))
	}
	return r.Bool(), nil
}

// Array extracts an array at a gjson path, returning one element view per
// entry. Each element is itself a Payload whose paths are relative to the
// element.
func (p *Payload) Array(path string) ([]*Payload, error) {
	r := gjson.GetBytes(p.raw, path)
	if !r.Exists() {
		return nil, goerr.Wrap(types.ErrSchemaViolation, "missing field", goerr.V("path", path), goerr.V("expected", "array"))
	}
	if !r.IsArray() {
		return nil, goerr.Wrap(types.ErrSchemaViolation, "field is not an array", goerr.V("path", path), goerr.V("got", r.Type.String()))
	}
	elems := r.Array()
	views := make([]*Payload, 0, len(elems))
	for _, e := range elems {
		views = append(views, &Payload{raw: []byte(e.Raw)})
	}
	return views, nil
}

// Has reports whether a non-null value exists at the path. Used for the
// genuinely optional fields (assignee), where absence and explicit null
// both mean "not set".
func (p *Payload) Has(path string) bool {
	r := gjson.GetBytes(p.raw, path)
	return r.Exists() && r.Type != gjson.Null
}
