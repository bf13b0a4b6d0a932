package isotag

import (
	"context"
	"sync"
)

// Processor provides high-level concurrent unpacking of raw tagged
// sub-field group buffers into component trees. One compiled packager
// is shared across all goroutines.
type Processor struct {
	packager     *TagSetPackager
	concurrency  int
	errorHandler func(error)
}

// ProcessorOption defines a function signature for configuring a Processor.
type ProcessorOption func(*Processor)

// WithConcurrency sets the maximum number of concurrent goroutines.
func WithConcurrency(n int) ProcessorOption {
	return func(p *Processor) {
		p.concurrency = n
	}
}

// WithErrorHandler sets a callback for errors encountered during batch
// or stream processing.
func WithErrorHandler(handler func(error)) ProcessorOption {
	return func(p *Processor) {
		p.errorHandler = handler
	}
}

// NewProcessor creates a new Processor for the given packager.
func NewProcessor(packager *TagSetPackager, opts ...ProcessorOption) *Processor {
	p := &Processor{
		packager:    packager,
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process unpacks a single raw group buffer.
func (p *Processor) Process(data []byte) (*Component, error) {
	m := NewComposite(p.packager.FieldNum())
	if _, err := p.packager.Unpack(m, data); err != nil {
		return nil, err
	}
	return m, nil
}

// ProcessBatch unpacks a slice of raw buffers concurrently, bounded by
// the configured concurrency. Results line up with the input slice; a
// failed entry leaves a nil result and the first error is returned.
func (p *Processor) ProcessBatch(ctx context.Context, dataSlice [][]byte) ([]*Component, error) {
	results := make([]*Component, len(dataSlice))
	errs := make([]error, len(dataSlice))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, p.concurrency)

	for i, data := range dataSlice {
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		default:
		}

		wg.Add(1)
		semaphore <- struct{}{}

		go func(idx int, raw []byte) {
			defer wg.Done()
			defer func() { <-semaphore }()

			m, err := p.Process(raw)
			if err != nil {
				errs[idx] = err
				if p.errorHandler != nil {
					p.errorHandler(err)
				}
				return
			}
			results[idx] = m
		}(i, data)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

// ProcessStream concurrently unpacks buffers from an input channel and
// sends the resulting component trees to an output channel. It returns
// when the input channel closes or the context is cancelled.
func (p *Processor) ProcessStream(ctx context.Context, input <-chan []byte, output chan<- *Component) error {
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, p.concurrency)

	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			return ctx.Err()

		case data, ok := <-input:
			if !ok {
				wg.Wait()
				return nil
			}

			wg.Add(1)
			semaphore <- struct{}{}

			go func(raw []byte) {
				defer wg.Done()
				defer func() { <-semaphore }()

				m, err := p.Process(raw)
				if err != nil {
					if p.errorHandler != nil {
						p.errorHandler(err)
					}
					return
				}

				select {
				case output <- m:
				case <-ctx.Done():
				}
			}(data)
		}
	}
}
