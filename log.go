package rtlsim

import "github.com/sirupsen/logrus"

// logger is the package-wide default. Warn level keeps the kernel silent
// unless a caller opts into tracing.
var logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	return l
}

// SetLogger replaces the package-wide logger picked up by Sims created
// afterwards without an explicit WithLogger option.
//
func SetLogger(l *logrus.Logger) {
	if l != nil {
		logger = l
	}
}
