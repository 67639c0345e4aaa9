package pulses

import (
	"fmt"
	"sync"
)

// Chunks per worker when splitting a stream.
const CHUNKS_PER_WORKER = 4

type chunkJob struct {
	Index   int
	Records []EventRecord
}

type chunkResult struct {
	Index int
	Raw   RawDelays
}

// PartitionAtTriggers splits records in at most nChunks slices of similar
// size. Every slice but the first starts with a trigger record, so each one
// can be scanned on its own.
func PartitionAtTriggers(records []EventRecord, trigger EventCode, nChunks int) [][]EventRecord {
	if nChunks <= 1 || len(records) == 0 {
		return [][]EventRecord{records}
	}
	target := (len(records) + nChunks - 1) / nChunks

	chunks := make([][]EventRecord, 0, nChunks)
	start := 0
	for i, record := range records {
		if record.Type == trigger && i-start >= target {
			chunks = append(chunks, records[start:i])
			start = i
		}
	}
	return append(chunks, records[start:])
}

func chunkWorker(id int, channels ChannelSet, jobs <-chan chunkJob, results chan<- chunkResult) {
	for job := range jobs {
		if GetConfiguration().Verbosity > 1 {
			message := fmt.Sprintf("Worker %d processing chunk %d (%d records)", id, job.Index, len(job.Records))
			logger.Info(message, "workers")
		}
		raw := newRawDelays(channels)
		scanDelays(job.Records, channels.Trigger, 0, raw)
		results <- chunkResult{Index: job.Index, Raw: raw}
	}
}

// ExtractDelaysParallel gives the same result as ExtractDelays, scanning
// trigger-aligned chunks on nWorkers goroutines.
func ExtractDelaysParallel(records []EventRecord, channels ChannelSet, divisor float64, nWorkers int) DelayResult {
	if nWorkers <= 1 {
		return ExtractDelays(records, channels, divisor)
	}

	chunks := PartitionAtTriggers(records, channels.Trigger, nWorkers*CHUNKS_PER_WORKER)
	jobs := make(chan chunkJob, len(chunks))
	results := make(chan chunkResult, len(chunks))

	var wg sync.WaitGroup
	for w := 1; w <= nWorkers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			chunkWorker(id, channels, jobs, results)
		}(w)
	}

	for i, chunk := range chunks {
		jobs <- chunkJob{Index: i, Records: chunk}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	partial := make([]RawDelays, len(chunks))
	for result := range results {
		partial[result.Index] = result.Raw
	}

	raw := newRawDelays(channels)
	for _, p := range partial {
		for code, delays := range p {
			raw[code] = append(raw[code], delays...)
		}
	}
	return ScaleDelays(raw, channels, divisor)
}
