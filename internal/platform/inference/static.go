package inference

import "context"

// Static answers every request with the same text. It backs local runs
// without a model credential.
type Static struct {
	Text string
}

func (s Static) Interpret(context.Context, string) (string, error) {
	return s.Text, nil
}
