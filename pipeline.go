package spritemap

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/bodgit/spritemap/export"
	"github.com/bodgit/spritemap/legend"
)

// DefaultWorkers is the number of frames encoded in parallel by Export.
const DefaultWorkers = 4

func (s *Session) emitFrames(ctx context.Context, frames []legend.Frame) (<-chan legend.Frame, <-chan error, error) {
	out := make(chan legend.Frame)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- func() error {
			for _, f := range frames {
				// Check first so a cancelled context never emits
				if err := ctx.Err(); err != nil {
					return err
				}
				select {
				case out <- f:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		}()
	}()
	return out, errc, nil
}

func (s *Session) frameWorker(dir string, in <-chan legend.Frame, opts export.Options) (<-chan error, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for f := range in {
			file := filepath.Join(dir, export.Filename(f.Cell))
			if err := export.WriteFile(file, f.Image, opts); err != nil {
				errc <- err
				return
			}
			s.logger.Debug("Wrote frame", "file", file)
		}
	}()
	return errc, nil
}

// waitForPipeline returns the first error from any stage, cancelling the
// rest of the pipeline when there is one.
func waitForPipeline(cancel context.CancelFunc, errs ...<-chan error) error {
	for err := range mergeErrors(errs...) {
		if err != nil {
			cancel()
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	out := make(chan error, len(cs))

	var wg sync.WaitGroup
	for _, c := range cs {
		c := c
		wg.Add(1)
		go func() {
			defer wg.Done()
			for err := range c {
				out <- err
			}
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

// Export writes each frame as a PNG file in dir, creating it if needed.
// With all set every grid cell is written, including transparent ones.
func (s *Session) Export(ctx context.Context, dir string, all bool, workers int, opts export.Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	frames, err := s.Frames(all)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	if workers < 1 {
		workers = DefaultWorkers
	}

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	var errcList []<-chan error

	in, errc, err := s.emitFrames(ctx, frames)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < workers; i++ {
		errc, err := s.frameWorker(dir, in, opts)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	if err := waitForPipeline(cancelFunc, errcList...); err != nil {
		return err
	}

	s.logger.Info("Exported frames", "dir", dir, "frames", len(frames))

	return nil
}
