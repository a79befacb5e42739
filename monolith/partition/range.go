package partition

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

// MaxUUID is the largest value of the UUID space.
var MaxUUID = uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff")

// Range is a contiguous region of the UUID space split into equally sized
// partitions. The last partition absorbs the remainder of the division.
type Range struct {
	start uuid.UUID
	ends  []uuid.UUID
}

// NewFullRange splits the whole UUID space into numOfPartitions partitions.
func NewFullRange(numOfPartitions int) (Range, error) {
	return NewRange(numOfPartitions, uuid.Nil, MaxUUID)
}

// NewRange splits the [start, end] region into numOfPartitions partitions.
func NewRange(numOfPartitions int, start, end uuid.UUID) (Range, error) {
	if bytes.Compare(start[:], end[:]) >= 0 {
		return Range{}, errors.New("range start UUID must be less than the end UUID")
	}

	if numOfPartitions <= 0 {
		return Range{}, errors.New("number of partitions must be at least equal to 1")
	}

	from := new(big.Int).SetBytes(start[:])
	size := new(big.Int).SetBytes(end[:])
	size.Sub(size, from).Add(size, big.NewInt(1))
	size.Div(size, big.NewInt(int64(numOfPartitions)))

	ends := make([]uuid.UUID, numOfPartitions)
	for i := 0; i < numOfPartitions-1; i++ {
		offset := new(big.Int).Mul(size, big.NewInt(int64(i+1)))
		offset.Add(offset, from)

		id, err := uuid.FromBytes(offset.FillBytes(make([]byte, 16)))
		if err != nil {
			return Range{}, fmt.Errorf("partition range: %w", err)
		}

		ends[i] = id
	}
	ends[numOfPartitions-1] = end

	return Range{start: start, ends: ends}, nil
}

// Len returns the number of partitions in the range.
func (r Range) Len() int { return len(r.ends) }

// PartitionRange returns the [from, to) bounds of a partition.
func (r Range) PartitionRange(partition int) (uuid.UUID, uuid.UUID, error) {
	if partition < 0 || partition >= len(r.ends) {
		return uuid.Nil, uuid.Nil, errors.New("invalid partition index")
	}

	if partition == 0 {
		return r.start, r.ends[0], nil
	}

	return r.ends[partition-1], r.ends[partition], nil
}
