package lang

import "log/slog"

// valueAttr renders a runtime value as a log attribute carrying both its
// type tag and its literal form.
func valueAttr(key string, v Value) slog.Attr {
	if v == nil {
		v = Null
	}

	return slog.Group(key,
		slog.String("type", v.Type().String()),
		slog.String("value", Inspect(v)),
	)
}
