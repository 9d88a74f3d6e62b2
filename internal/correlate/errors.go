package correlate

import (
	"errors"
	"fmt"

	"github.com/bimmerbailey/cmpctrej/internal/logline"
)

// ErrMalformedRecord is matched by every *MalformedError.
var ErrMalformedRecord = errors.New("malformed log record")

// MalformedError reports a classified line missing a field the join needs.
// It usually means the node's log format has drifted from what is expected.
type MalformedError struct {
	Kind    logline.Category
	Line    logline.Line
	Missing string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("line %d: malformed %s record: missing %s: %q", e.Line.Num, e.Kind, e.Missing, e.Line.Raw)
}

// Is reports whether target is ErrMalformedRecord.
func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformedRecord
}
