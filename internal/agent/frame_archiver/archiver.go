package frame_archiver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/okieraised/udashboard/internal/constants"
	"github.com/okieraised/udashboard/internal/infrastructure/log"
	"github.com/okieraised/udashboard/internal/infrastructure/s3_client"
	"github.com/okieraised/udashboard/internal/pipeline"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// FrameSource yields the most recent frame, or nil before the first tick.
type FrameSource interface {
	Latest() *pipeline.Frame
}

// Archiver periodically uploads the latest frame as a JSON object.
// A frame is uploaded at most once.
type Archiver struct {
	source   FrameSource
	api      s3_client.ObjectPutter
	bucket   string
	prefix   string
	interval time.Duration
	lastSeq  uint64
	logger   *log.Logger
}

type Option func(*Archiver)

func WithInterval(d time.Duration) Option {
	return func(a *Archiver) {
		a.interval = d
	}
}

func WithPrefix(prefix string) Option {
	return func(a *Archiver) {
		a.prefix = strings.Trim(prefix, "/")
	}
}

func NewArchiver(source FrameSource, api s3_client.ObjectPutter, bucket string, opts ...Option) *Archiver {
	a := &Archiver{
		source:   source,
		api:      api,
		bucket:   bucket,
		prefix:   constants.DefaultArchivePrefix,
		interval: constants.DefaultArchiveInterval,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = log.Default().With(zap.String("bucket", a.bucket), zap.String("prefix", a.prefix))
	return a
}

// ObjectKey names the object a frame is stored under.
func ObjectKey(prefix string, frame *pipeline.Frame) string {
	name := fmt.Sprintf("%d.json", frame.CreatedAt.UnixNano())
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

// Run archives on every interval until ctx is done. Upload failures are
// logged and retried with the next frame.
func (a *Archiver) Run(ctx context.Context) error {
	if a.interval <= 0 {
		return errors.Errorf("archive interval must be positive, got %s", a.interval)
	}
	if a.bucket == "" {
		return errors.New("archive bucket is required")
	}
	a.logger.Info(fmt.Sprintf("Starting frame archiver every %s", a.interval))

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			a.logger.Info("Stopping frame archiver")
			return nil
		case <-ticker.C:
			if _, err := a.Archive(ctx); err != nil {
				a.logger.Error(err.Error())
			}
		}
	}
}

// Archive uploads the latest frame if it has not been uploaded yet and
// reports whether an upload happened.
func (a *Archiver) Archive(ctx context.Context) (bool, error) {
	frame := a.source.Latest()
	if frame == nil || frame.Seq == a.lastSeq {
		return false, nil
	}

	body, err := json.Marshal(frame)
	if err != nil {
		return false, errors.Wrapf(err, "failed to encode frame [%d]", frame.Seq)
	}
	key := ObjectKey(a.prefix, frame)
	if err := s3_client.PutJSON(ctx, a.api, a.bucket, key, body); err != nil {
		return false, err
	}

	a.lastSeq = frame.Seq
	a.logger.Debug(fmt.Sprintf("Archived frame [%d] to [%s]", frame.Seq, key))
	return true, nil
}
