// Package logger is a thin façade over zap. Call sites log an event name
// plus a field map; the backend stays swappable without touching them.
package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	log  *zap.SugaredLogger
	once sync.Once
)

func Init() {
	once.Do(func() {
		cfg := zap.NewProductionConfig()
		cfg.DisableStacktrace = true
		base, err := cfg.Build(zap.AddCallerSkip(1))
		if err != nil {
			base = zap.NewNop()
		}
		log = base.Sugar()
	})
}

func flatten(fields map[string]interface{}) []interface{} {
	kv := make([]interface{}, 0, len(fields)*2)
	for key, value := range fields {
		kv = append(kv, key, value)
	}
	return kv
}

func Info(event string, fields map[string]interface{}) {
	if log == nil {
		return
	}
	log.Infow(event, flatten(fields)...)
}

func Warn(event string, fields map[string]interface{}) {
	if log == nil {
		return
	}
	log.Warnw(event, flatten(fields)...)
}

func Error(event string, fields map[string]interface{}) {
	if log == nil {
		return
	}
	log.Errorw(event, flatten(fields)...)
}

func InfoWithUser(userID, event string, fields map[string]interface{}) {
	if fields == nil {
		fields = map[string]interface{}{}
	}
	fields["user_id"] = userID
	Info(event, fields)
}

func WarnWithUser(userID, event string, fields map[string]interface{}) {
	if fields == nil {
		fields = map[string]interface{}{}
	}
	fields["user_id"] = userID
	Warn(event, fields)
}
