package config

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	LogLevelDebug   = "debug"
	LogLevelInfo    = "info"
	LogLevelWarning = "warning"
	LogLevelError   = "error"
	LogLevelFatal   = "fatal"
)

// Validate validates the server config as an input. If not valid, it
// returns error.
func Validate(conf *ServerConfig) error {
	return validation.ValidateStruct(conf,
		nestedFields(&conf.Log,
			validation.Field(&conf.Log.Level, validation.In(
				LogLevelDebug,
				LogLevelInfo,
				LogLevelWarning,
				LogLevelError,
				LogLevelFatal,
			)),
		),
		nestedFields(&conf.DB,
			validation.Field(&conf.DB.MaxIdleConnection, validation.Min(1)),
			validation.Field(&conf.DB.MaxOpenConnection, validation.Min(1)),
		),
		nestedFields(&conf.Importer,
			validation.Field(&conf.Importer.NumWorkers, validation.Min(1)),
			validation.Field(&conf.Importer.QueueCapacity, validation.Min(1)),
			validation.Field(&conf.Importer.WorkDir, validation.Required),
		),
	)
}

func nestedFields(targetStruct interface{}, fieldRules ...*validation.FieldRules) *validation.FieldRules {
	return validation.Field(targetStruct, validation.By(func(interface{}) error {
		return validation.ValidateStruct(targetStruct, fieldRules...)
	}))
}
