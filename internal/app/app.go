package app

import (
	"go.uber.org/zap"

	"sealrpc/internal/util/log"
)

// InitLogging installs the process logger and returns a flush function.
func InitLogging(level string, dev bool) (func(), error) {
	l, err := log.New(level, dev)
	if err != nil {
		return nil, err
	}
	log.SetLogger(l)
	return func() {
		_ = log.Sync()
		log.SetLogger(zap.NewNop())
	}, nil
}
