package health

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// ProcessChecker reports the daemon's own resource footprint — uptime,
// RSS, and open file descriptors — as a health signal. Check fails when
// gopsutil cannot read the process stats or when the open file
// descriptor count exceeds the configured threshold; the health service
// then reports this check as unhealthy. Uptime and RSS only appear in
// that failure message and never fail the check themselves.
type ProcessChecker struct {
	maxOpenFiles int32
	startedAt    time.Time
	proc         *process.Process
}

// NewProcessChecker builds a checker against the current process,
// failing the check once open file descriptors exceed maxOpenFiles
// (0 disables the threshold).
func NewProcessChecker(maxOpenFiles int32) (*ProcessChecker, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("process checker: %w", err)
	}
	return &ProcessChecker{maxOpenFiles: maxOpenFiles, startedAt: time.Now(), proc: proc}, nil
}

func (p *ProcessChecker) Name() string { return "process" }

func (p *ProcessChecker) Check(ctx context.Context) error {
	memInfo, err := p.proc.MemInfoWithContext(ctx)
	if err != nil {
		return fmt.Errorf("read memory info: %w", err)
	}

	openFiles, err := p.proc.OpenFilesWithContext(ctx)
	if err != nil {
		return fmt.Errorf("read open files: %w", err)
	}

	if p.maxOpenFiles > 0 && int32(len(openFiles)) > p.maxOpenFiles {
		return fmt.Errorf("open file descriptors %d exceed threshold %d (rss=%d uptime=%s)",
			len(openFiles), p.maxOpenFiles, memInfo.RSS, time.Since(p.startedAt))
	}

	return nil
}
