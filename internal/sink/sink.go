package sink

// Sink mirrors each line to the console and appends it to a log file.
type Sink struct {
	console *Console
}

// New returns a Sink printing to console.
func New(console *Console) *Sink {
	return &Sink{console: console}
}

// Emit prints message with the given severity and appends it to path.
func (s *Sink) Emit(path, message string, sev Severity) error {
	s.console.Print(message, sev)
	return AppendLine(path, message)
}
