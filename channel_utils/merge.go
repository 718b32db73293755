package channel_utils

import (
	"article-narration-pipeline/application/ports/outbound"
	"context"
	"sync"
)

// MergeChannels fans every input channel into one output channel using workers from
// the pool. The output is closed once all inputs are drained or ctx is done.
func MergeChannels[T any](ctx context.Context, workerPool outbound.TaskDispatcher, channels ...<-chan T) (<-chan T, error) {
	var wg sync.WaitGroup
	merged := make(chan T)

	output := func(c <-chan T) {
		defer wg.Done()
		for {
			select {
			case val, ok := <-c:
				if !ok {
					return
				}
				select {
				case merged <- val:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}

	wg.Add(len(channels))
	for i, c := range channels {
		ch := c
		err := workerPool.Submit(func() {
			output(ch)
		})
		if err != nil {
			wg.Add(-(len(channels) - i))
			return nil, err
		}
	}

	err := workerPool.Submit(func() {
		wg.Wait()
		close(merged)
	})
	if err != nil {
		return nil, err
	}

	return merged, nil
}
