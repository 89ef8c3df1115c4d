package codec

import (
	"errors"

	"todochain/internal/domains/todo/model"
	"todochain/shared/failure"
)

var errEmptyInstruction = errors.New("empty instruction data")

// DecodeInstruction parses a tag byte followed by a length-prefixed name.
// Bytes after the name are ignored.
func DecodeInstruction(data []byte) (model.Instruction, error) {
	if len(data) == 0 {
		return nil, failure.Wrap(failure.MalformedInstruction, "%v", errEmptyInstruction)
	}

	tag, rest := data[0], &reader{buf: data[1:]}

	switch tag {
	case model.TagAddItem:
		name, err := rest.string()
		if err != nil {
			return nil, failure.Wrap(failure.MalformedInstruction, "add item name: %v", err)
		}

		return model.AddItem{Name: name}, nil
	case model.TagMarkDone:
		name, err := rest.string()
		if err != nil {
			return nil, failure.Wrap(failure.MalformedInstruction, "mark done name: %v", err)
		}

		return model.MarkDone{Name: name}, nil
	default:
		return nil, failure.Wrap(failure.MalformedInstruction, "unknown tag %d", tag)
	}
}

// EncodeInstruction is the inverse of DecodeInstruction.
func EncodeInstruction(ix model.Instruction) []byte {
	buf := []byte{ix.Tag()}

	switch v := ix.(type) {
	case model.AddItem:
		return appendString(buf, v.Name)
	case model.MarkDone:
		return appendString(buf, v.Name)
	}

	return buf
}
