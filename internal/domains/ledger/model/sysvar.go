package model

import (
	"encoding/binary"
	"errors"
	"math"
)

const ClockSize = 40

var ErrInvalidClock = errors.New("invalid clock sysvar data")

// Clock is the per-slot time sysvar.
type Clock struct {
	Slot                uint64
	EpochStartTimestamp int64
	Epoch               uint64
	LeaderScheduleEpoch uint64
	UnixTimestamp       int64
}

func (c Clock) Encode() []byte {
	buf := make([]byte, 0, ClockSize)
	buf = binary.LittleEndian.AppendUint64(buf, c.Slot)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(c.EpochStartTimestamp))
	buf = binary.LittleEndian.AppendUint64(buf, c.Epoch)
	buf = binary.LittleEndian.AppendUint64(buf, c.LeaderScheduleEpoch)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(c.UnixTimestamp))

	return buf
}

func DecodeClock(data []byte) (Clock, error) {
	if len(data) < ClockSize {
		return Clock{}, ErrInvalidClock
	}

	return Clock{
		Slot:                binary.LittleEndian.Uint64(data[0:8]),
		EpochStartTimestamp: int64(binary.LittleEndian.Uint64(data[8:16])),
		Epoch:               binary.LittleEndian.Uint64(data[16:24]),
		LeaderScheduleEpoch: binary.LittleEndian.Uint64(data[24:32]),
		UnixTimestamp:       int64(binary.LittleEndian.Uint64(data[32:40])),
	}, nil
}

// AccountStorageOverhead is charged on top of the data length of every account.
const AccountStorageOverhead = 128

// Rent is the storage-cost model used when funding new accounts.
type Rent struct {
	LamportsPerByteYear uint64
	ExemptionThreshold  float64
}

// MinimumBalance is the balance that makes an account of the given data size rent exempt.
func (r Rent) MinimumBalance(space uint64) uint64 {
	bytes := float64(AccountStorageOverhead + space)

	return uint64(math.Ceil(bytes * float64(r.LamportsPerByteYear) * r.ExemptionThreshold))
}
