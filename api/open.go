package api

import "strings"

// Mode selects where statements go.
type Mode string

const (
	// Write scene files.
	ModeFile Mode = "file"

	// Hand statements to a live binding.
	ModeLive Mode = "live"
)

// ParseMode converts a mode name to a Mode.
func ParseMode(name string) (Mode, error) {
	switch Mode(strings.ToLower(name)) {
	case ModeFile:
		return ModeFile, nil
	case ModeLive:
		return ModeLive, nil
	}
	return "", ErrUnknownMode
}

// Open returns the Context for the requested mode. In file mode a
// FileContext is created under dir. In live mode the supplied binding is
// returned; a Recorder is used when live is nil.
func Open(mode Mode, dir, base string, live Context) (Context, error) {
	switch mode {
	case ModeFile:
		fc, err := NewFileContext(dir, base)
		if err != nil {
			return nil, err
		}
		return fc, nil
	case ModeLive:
		if live == nil {
			live = NewRecorder()
		}
		return live, nil
	}
	return nil, ErrUnknownMode
}
