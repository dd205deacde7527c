package dlog

import (
	"log/slog"

	"github.com/veeg-labs/disir-go/pkg/core/model"
	"github.com/veeg-labs/disir-go/pkg/core/status"
)

// Err returns an Attr for the given error value, resolved by its
// Error() method. A nil error logs as "no-error".
func Err(key string, value error) slog.Attr {
	if value == nil {
		return slog.String(key, "no-error")
	}
	return slog.String(key, value.Error())
}

// Version returns an Attr rendering a model.Version as its dotted
// string form.
func Version(key string, v model.Version) slog.Attr {
	return slog.String(key, v.String())
}

// Status returns an Attr rendering a status.Code by its stable name.
func Status(key string, c status.Code) slog.Attr {
	return slog.String(key, c.String())
}
