package simulation

import "log/slog"

// progress logs every whole percent of a batch.
type progress struct {
	logger  *slog.Logger
	message string
	total   int
	step    int
}

func newProgress(logger *slog.Logger, message string, total int) *progress {
	step := total / 100
	if step < 1 {
		step = 1
	}
	return &progress{logger: logger, message: message, total: total, step: step}
}

// report is called after item i (zero-based) completes.
func (p *progress) report(i int) {
	done := i + 1
	if done%p.step != 0 && done != p.total {
		return
	}
	p.logger.Info(p.message, "done", done, "total", p.total, "percent", done*100/p.total)
}
