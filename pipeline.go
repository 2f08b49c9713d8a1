package feather2d

import "sync"

// task splits data into one chunk per worker and calls fn on every item.
func task[T any](workersCount int, data []T, fn func(i int, item T)) {
	var wg sync.WaitGroup
	workersCount = max(workersCount, 1)
	dataSize := len(data)
	chunkSize := (dataSize + workersCount - 1) / workersCount

	for workerID := 0; workerID < workersCount; workerID++ {
		start, end := workerID*chunkSize, min((workerID+1)*chunkSize, dataSize)
		if start >= end {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(i, data[i])
			}
		}(start, end)
	}
	wg.Wait()
}
