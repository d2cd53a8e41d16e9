package checker

import "sync/atomic"

// Clock stamps trace steps with a logical sequence number.
type Clock interface {
	Next() int64
}

// counter is the default Clock. Each check starts its own counter at 0.
type counter struct {
	seq atomic.Int64
}

func (c *counter) Next() int64 {
	return c.seq.Add(1)
}
