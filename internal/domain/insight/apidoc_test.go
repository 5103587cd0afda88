package insight

import (
	"testing"

	"github.com/labstack/echo/v4"
)

func TestOperations_MatchRegisteredRoutes(t *testing.T) {
	e := echo.New()
	NewHandler(nil).RegisterRoutes(e)

	registered := make(map[string]bool)
	for _, r := range e.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	schemas := Schemas()
	for _, op := range Operations() {
		if !registered[op.Method+" "+op.Path] {
			t.Errorf("documented route %s %s is not registered", op.Method, op.Path)
		}
		if op.Request != "" {
			if _, ok := schemas[op.Request]; !ok {
				t.Errorf("%s: missing request schema %s", op.OperationID, op.Request)
			}
		}
		for code, resp := range op.Responses {
			if _, ok := schemas[resp.Schema]; resp.Schema != "" && !ok {
				t.Errorf("%s %d: missing response schema %s", op.OperationID, code, resp.Schema)
			}
		}
	}
	if len(Operations()) != len(registered) {
		t.Errorf("expected every route to be documented, got %d of %d", len(Operations()), len(registered))
	}
}
