package currencyinput

import "github.com/sirupsen/logrus"

var log = newDefaultLogger()

func newDefaultLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return logger
}

// SetLogger sets the logger used by the package level resolver and by
// sessions that were not given their own logger.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

func loggerOrDefault(logger *logrus.Logger) *logrus.Logger {
	if logger != nil {
		return logger
	}
	return log
}
