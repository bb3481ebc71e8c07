package processor

import "slices"

// ErrorList is the ordered, append-only diagnostic trail of one component
// instance. It is not safe for concurrent use.
type ErrorList struct {
	messages []string
}

func (l *ErrorList) Append(err error) {
	if err == nil {
		return
	}
	l.messages = append(l.messages, err.Error())
}

// Messages returns a copy of the recorded messages, oldest first.
func (l *ErrorList) Messages() []string {
	return slices.Clone(l.messages)
}

func (l *ErrorList) Len() int {
	return len(l.messages)
}
