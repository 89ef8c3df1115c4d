package codec

import (
	"encoding/binary"
	"errors"

	"todochain/internal/domains/todo/model"
	"todochain/shared/failure"
)

var errItemCount = errors.New("item count exceeds data length")

// EncodedSize returns the number of bytes EncodeAccount produces.
func EncodedSize(account model.TodoAccount) int {
	size := lengthPrefixSize
	for _, item := range account.Todos {
		size += minItemSize + len(item.Name)
	}

	return size
}

// EncodeAccount serializes the collection as a u32 LE item count followed by
// (name, done, created_at) for each item in order.
func EncodeAccount(account model.TodoAccount) []byte {
	buf := make([]byte, 0, EncodedSize(account))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(account.Todos)))

	for _, item := range account.Todos {
		buf = appendString(buf, item.Name)
		buf = appendBool(buf, item.Done)
		buf = binary.LittleEndian.AppendUint64(buf, item.CreatedAt)
	}

	return buf
}

// DecodeAccount reads a collection from the start of data. Anything after the
// encoded collection is region padding and is ignored.
func DecodeAccount(data []byte) (model.TodoAccount, error) {
	r := &reader{buf: data}

	count, err := r.u32()
	if err != nil {
		return model.TodoAccount{}, failure.Wrap(failure.CorruptState, "item count: %v", err)
	}

	if uint64(count)*minItemSize > uint64(r.remaining()) {
		return model.TodoAccount{}, failure.Wrap(failure.CorruptState, "%v: %d", errItemCount, count)
	}

	account := model.TodoAccount{Todos: make([]model.Item, 0, count)}

	for i := range int(count) {
		item, err := decodeItem(r)
		if err != nil {
			return model.TodoAccount{}, failure.Wrap(failure.CorruptState, "item %d: %v", i, err)
		}

		account.Todos = append(account.Todos, item)
	}

	return account, nil
}

func decodeItem(r *reader) (item model.Item, err error) {
	if item.Name, err = r.string(); err != nil {
		return item, err
	}

	if item.Done, err = r.bool(); err != nil {
		return item, err
	}

	if item.CreatedAt, err = r.u64(); err != nil {
		return item, err
	}

	return item, nil
}

// WriteAccount encodes the collection into region in place, zero-filling the tail.
// The region is left untouched when the encoding does not fit.
func WriteAccount(region []byte, account model.TodoAccount) error {
	size := EncodedSize(account)
	if size > len(region) {
		return failure.Wrap(failure.CapacityExceeded, "need %d bytes, region holds %d", size, len(region))
	}

	n := copy(region, EncodeAccount(account))
	clear(region[n:])

	return nil
}
