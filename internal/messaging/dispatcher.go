package messaging

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

type Target struct {
	Phone   string `json:"phone"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Batch is every message of one automation run for one messaging instance.
type Batch struct {
	InstanceName   string   `json:"instance_name"`
	AutomationType string   `json:"automation_type"`
	Targets        []Target `json:"targets"`
}

// Dispatcher delivers a batch. A plain error means nothing was delivered;
// Failures means only the listed targets failed.
type Dispatcher interface {
	Dispatch(ctx context.Context, b Batch) error
}

// Failures maps a target index in the batch to its delivery error.
type Failures map[int]error

func (f Failures) Error() string {
	idx := make([]int, 0, len(f))
	for i := range f {
		idx = append(idx, i)
	}
	sort.Ints(idx)

	parts := make([]string, 0, len(idx))
	for _, i := range idx {
		parts = append(parts, fmt.Sprintf("target %d: %v", i, f[i]))
	}
	return fmt.Sprintf("%d of batch failed: %s", len(f), strings.Join(parts, "; "))
}
