// Package obslog wraps go.uber.org/zap with the solver's own call
// sites, one-to-one with the teacher's log.Printf sites in main.go:
// an instance-load summary, search progress ("new best", "generation
// restarted"), and fatal configuration errors.
package obslog

import "go.uber.org/zap"

// Logger is the solver-wide structured logger.
type Logger struct {
	s *zap.SugaredLogger
}

// New builds a Logger backed by a production zap configuration;
// development toggles a human-readable console encoder instead.
func New(development bool) (*Logger, error) {
	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	base, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{s: base.Sugar()}, nil
}

// Nop returns a Logger that discards everything, for tests that do not
// want to assert on log output.
func Nop() *Logger {
	return &Logger{s: zap.NewNop().Sugar()}
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	return l.s.Sync()
}

// InstanceLoaded logs the summary the driver prints once an Instance
// is built: exam/period/room counts.
func (l *Logger) InstanceLoaded(exams, periods, rooms int) {
	l.s.Infow("instance loaded", "exams", exams, "periods", periods, "rooms", rooms)
}

// NewBest logs an improving incumbent found during the search.
func (l *Logger) NewBest(iteration int, hard, soft int) {
	l.s.Infow("new best", "iteration", iteration, "hard", hard, "soft", soft)
}

// Progress logs a periodic status line during a long search.
func (l *Logger) Progress(iteration int, nodes int, bestHard, bestSoft int) {
	l.s.Infow("searching", "iteration", iteration, "nodes", nodes, "best_hard", bestHard, "best_soft", bestSoft)
}

// Restart logs the search giving up on the current tree and starting
// a fresh one, mirroring the teacher's "generation restarted" notice.
func (l *Logger) Restart(reason string) {
	l.s.Infow("restart", "reason", reason)
}

// Fatal logs a fatal configuration or instance error. It does not call
// os.Exit; callers decide how to terminate.
func (l *Logger) Fatal(err error) {
	l.s.Errorw("fatal", "error", err)
}
