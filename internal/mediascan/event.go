package mediascan

// EventType identifies the kind of progress event.
type EventType int

const (
	// DirEntered is emitted when the scan enters a directory.
	DirEntered EventType = iota + 1
	// FileFound is emitted for a counted file when no target is configured.
	FileFound
	// FileCopied is emitted for a counted file copied into the target.
	FileCopied
	// SubdirFailed is emitted when the extension subfolder cannot be created.
	SubdirFailed
	// CopyFailed is emitted when copying a counted file fails.
	CopyFailed
)

var eventNames = [...]string{
	DirEntered:   "DirEntered",
	FileFound:    "FileFound",
	FileCopied:   "FileCopied",
	SubdirFailed: "SubdirFailed",
	CopyFailed:   "CopyFailed",
}

func (t EventType) String() string {
	if t > 0 && int(t) < len(eventNames) {
		return eventNames[t]
	}

	return "Unknown"
}

// Counted reports whether events of this type correspond to a counted file.
func (t EventType) Counted() bool {
	return t == FileFound || t == FileCopied || t == SubdirFailed || t == CopyFailed
}

// Event is a single progress notification from the scan.
type Event struct {
	Type  EventType
	Path  string // source path, or directory path for DirEntered
	Dest  string // destination path for FileCopied
	Ext   string
	Size  uint64
	Depth int
	Err   error
}

// Reporter receives progress events. Calls are made from the scanning
// goroutine only, in traversal order.
type Reporter interface {
	Report(ev Event)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(ev Event)

// Report calls f(ev).
func (f ReporterFunc) Report(ev Event) { f(ev) }

// Discard is a Reporter that drops every event.
var Discard Reporter = ReporterFunc(func(Event) {}) //nolint:gochecknoglobals // Stateless sink
