package model_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/herald/pkg/domain/model"
	"github.com/m-mizutani/herald/pkg/domain/types"
)

const samplePayload = `{
	"sender": {"username": "alice"},
	"pull_request": {
		"number": 7,
		"merged": false,
		"assignee": null
	},
	"commits": [
		{"id": "a"},
		{"id": "b"}
	]
}`

func TestPayload_String(t *testing.T) {
	p := model.NewPayload([]byte(samplePayload))

	t.Run("existing string", func(t *testing.T) {
		v, err := p.String("sender.username")
		gt.NoError(t, err)
		gt.Value(t, v).Equal("alice")
	})

	t.Run("missing path is a schema violation", func(t *testing.T) {
		_, err := p.String("sender.login")
		gt.Error(t, err)
		gt.True(t, errors.Is(err, types.ErrSchemaViolation))
	})

	t.Run("wrong type is a schema violation", func(t *testing.T) {
		_, err := p.String("pull_request.number")
		gt.Error(t, err)
		gt.True(t, errors.Is(err, types.ErrSchemaViolation))
	})
}

func TestPayload_Int(t *testing.T) {
	p := model.NewPayload([]byte(samplePayload))

	v, err := p.Int("pull_request.number")
	gt.NoError(t, err)
	gt.Value(t, v).Equal(int64(7))

	_, err = p.Int("sender.username")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, types.ErrSchemaViolation))
}

func TestPayload_Bool(t *testing.T) {
	p := model.NewPayload([]byte(samplePayload))

	v, err := p.Bool("pull_request.merged")
	gt.NoError(t, err)
	gt.Value(t, v).Equal(false)

	_, err = p.Bool("pull_request.number")
	gt.Error(t, err)
}

func TestPayload_Array(t *testing.T) {
	p := model.NewPayload([]byte(samplePayload))

	elems, err := p.Array("commits")
	gt.NoError(t, err)
	gt.Number(t, len(elems)).Equal(2)

	id, err := elems[1].String("id")
	gt.NoError(t, err)
	gt.Value(t, id).Equal("b")

	_, err = p.Array("sender")
	gt.Error(t, err)
}

func TestPayload_Has(t *testing.T) {
	p := model.NewPayload([]byte(samplePayload))

	gt.True(t, p.Has("sender.username"))
	gt.Value(t, p.Has("pull_request.assignee")).Equal(false) // explicit null
	gt.Value(t, p.Has("no.such.path")).Equal(false)
}
