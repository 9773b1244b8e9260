package logging

import (
	"log/slog"
	"time"
)

// Standardized structured logging keys. Components use these rather than
// ad-hoc strings so log lines stay greppable across the codebase.
const (
	// FieldComponent names the subsystem emitting the line.
	FieldComponent = "component"
	// FieldRunID identifies one engine invocation.
	FieldRunID = "run_id"
	// FieldPath is the source path of the file being handled.
	FieldPath = "path"
	// FieldDestination is the path a file was moved to.
	FieldDestination = "destination"
	// FieldBucket is the per-extension destination directory name.
	FieldBucket = "bucket"
	// FieldDigest is the content digest of a file.
	FieldDigest = "digest"
	// FieldAlert flags anomalies that should stand out in structured logs.
	FieldAlert = "alert"
)

type Attr = slog.Attr

func Any(key string, value any) Attr { return slog.Any(key, value) }

func Bool(key string, value bool) Attr { return slog.Bool(key, value) }

func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func Int64(key string, value int64) Attr { return slog.Int64(key, value) }

func String(key string, value string) Attr { return slog.String(key, value) }

func Error(err error) Attr { return slog.Any("error", err) }

func Alert(value string) Attr { return slog.String(FieldAlert, value) }
