package channel_utils

import (
	"context"
	"github.com/panjf2000/ants/v2"
	"sort"
	"testing"
)

func TestMergeChannels(t *testing.T) {
	workerPool, err := ants.NewPool(8)
	if err != nil {
		t.Fatal("Failed to create worker pool:", err)
	}
	defer workerPool.Release()

	produce := func(values ...int) <-chan int {
		ch := make(chan int, len(values))
		for _, v := range values {
			ch <- v
		}
		close(ch)
		return ch
	}

	merged, err := MergeChannels(context.Background(), workerPool, produce(1, 2), produce(3), produce())
	if err != nil {
		t.Fatal("Failed to merge channels:", err)
	}

	var got []int
	for v := range merged {
		got = append(got, v)
	}
	sort.Ints(got)

	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("unexpected merged values %v", got)
	}
}

func TestMergeChannels_ContextDone(t *testing.T) {
	workerPool, err := ants.NewPool(4)
	if err != nil {
		t.Fatal("Failed to create worker pool:", err)
	}
	defer workerPool.Release()

	ctx, cancel := context.WithCancel(context.Background())
	blocked := make(chan int, 1)
	blocked <- 1

	merged, err := MergeChannels(ctx, workerPool, (<-chan int)(blocked))
	if err != nil {
		t.Fatal("Failed to merge channels:", err)
	}
	cancel()

	for range merged {
	}
}
