package cmd

import "github.com/ardnew/sulfur/lang"

// Error is the error type of every command failure. Sentinels below are
// refined with [lang.Error.With] and [lang.Error.Wrap] and still match
// themselves with [errors.Is].
type Error = lang.Error

// Sentinel errors.
var (
	ErrScriptNotFound = lang.NewError("script not found")
	ErrOpenScript     = lang.NewError("open script")
	ErrRunScript      = lang.NewError("run script")
	ErrFormatSource   = lang.NewError("format source")
	ErrWriteResult    = lang.NewError("write result")
	ErrWriteConfig    = lang.NewError("write configuration file")
	ErrFileExists     = lang.NewError("file exists (use --force to overwrite)")
	ErrConfigValue    = lang.NewError("flag value not representable in configuration")
)
