// Package replay implements a fiducial source that plays back recorded detections.
//
// A recording is a JSON lines file; each line is one frame:
//
//	{"offset_ms": 0, "detections": [{"id": 5, "pose": {"x": 5, "y": 10, "yaw": 15}}]}
//
// Frames must be ordered by offset. The frame reported is the last one whose offset has
// elapsed since the source was built; before the first frame there are no detections.
package replay

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.viam.com/utils"

	"go.viam.com/fieldbot/logging"
	"go.viam.com/fieldbot/resource"
	"go.viam.com/fieldbot/vision/fiducial"
)

// Model is the model name of the replay fiducial source.
const Model = resource.Model("replay")

// Config describes the configuration of a replay source.
type Config struct {
	Path string `json:"path"`
	// Loop restarts the recording after the last frame has been shown for one frame period.
	Loop bool `json:"loop,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) ([]string, error) {
	if cfg.Path == "" {
		return nil, utils.NewConfigValidationFieldRequiredError(path, "path")
	}
	return nil, nil
}

// Register adds the replay source to the given registry.
func Register(reg *resource.Registry) {
	resource.Register[fiducial.Source, *Config](reg, fiducial.API, Model, NewSource)
}

// Frame is one recorded snapshot.
type Frame struct {
	OffsetMs   int64                `json:"offset_ms"`
	Detections []fiducial.Detection `json:"detections"`
}

func (f Frame) offset() time.Duration {
	return time.Duration(f.OffsetMs) * time.Millisecond
}

// Source plays back frames against a clock.
type Source struct {
	resource.Named

	frames []Frame
	loop   bool
	period time.Duration
	clk    clock.Clock

	mu     sync.Mutex
	start  time.Time
	pass   int64
	ended  bool
	logger logging.Logger
}

// NewSource reads the configured recording and starts playing it back.
func NewSource(ctx context.Context, _ resource.Dependencies, conf resource.Config, logger logging.Logger) (fiducial.Source, error) {
	newConf, err := resource.NativeConfig[*Config](conf)
	if err != nil {
		return nil, err
	}
	frames, err := ReadFrames(newConf.Path)
	if err != nil {
		return nil, err
	}
	logger.Debugw("loaded recording", "path", newConf.Path, "frames", len(frames))
	return NewSourceFromFrames(conf.ResourceName(), frames, newConf.Loop, clock.New(), logger)
}

// NewSourceFromFrames returns a source playing back the given frames against clk, starting now.
func NewSourceFromFrames(
	name resource.Name, frames []Frame, loop bool, clk clock.Clock, logger logging.Logger,
) (*Source, error) {
	if !sort.SliceIsSorted(frames, func(i, j int) bool { return frames[i].OffsetMs < frames[j].OffsetMs }) {
		return nil, errors.New("recording frames must be ordered by offset_ms")
	}
	s := &Source{
		Named:  name.AsNamed(),
		frames: frames,
		loop:   loop,
		period: loopPeriod(frames),
		clk:    clk,
		start:  clk.Now(),
		logger: logger,
	}
	return s, nil
}

// loopPeriod is the last offset plus the average gap between frames, so the last frame is shown
// for about as long as the others.
func loopPeriod(frames []Frame) time.Duration {
	if len(frames) == 0 {
		return 0
	}
	last := frames[len(frames)-1].offset()
	if len(frames) == 1 {
		return last + time.Millisecond
	}
	return last + (last-frames[0].offset())/time.Duration(len(frames)-1) + time.Millisecond
}

// ReadFrames reads a JSON lines recording. Blank lines are skipped.
func ReadFrames(path string) ([]Frame, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening recording")
	}
	defer utils.UncheckedErrorFunc(f.Close)

	var frames []Frame
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var frame Frame
		if err := json.Unmarshal(line, &frame); err != nil {
			return nil, errors.Wrapf(err, "%s:%d", path, lineNum)
		}
		frames = append(frames, frame)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return frames, nil
}

// CurrentDetections returns the detections of the frame due at the current time.
func (s *Source) CurrentDetections(ctx context.Context) ([]fiducial.Detection, error) {
	s.mu.Lock()
	elapsed := s.clk.Since(s.start)
	if s.loop && s.period > 0 {
		if pass := int64(elapsed / s.period); pass != s.pass {
			s.logger.Debugw("recording wrapped around", "pass", pass)
			s.pass = pass
		}
		elapsed %= s.period
	} else if !s.ended && len(s.frames) > 0 && elapsed >= s.period {
		s.logger.Debugw("recording finished, holding the last frame", "frames", len(s.frames))
		s.ended = true
	}
	s.mu.Unlock()

	idx := sort.Search(len(s.frames), func(i int) bool {
		return s.frames[i].offset() > elapsed
	}) - 1
	if idx < 0 {
		return []fiducial.Detection{}, nil
	}
	return fiducial.CloneAll(s.frames[idx].Detections), nil
}

// Restart plays the recording again from its first frame.
func (s *Source) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.start = s.clk.Now()
	s.pass = 0
	s.ended = false
}

// Close does nothing.
func (s *Source) Close(ctx context.Context) error {
	return nil
}
