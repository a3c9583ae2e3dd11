package telemetry

import (
	"fmt"
	"strings"
	"sync"
	"testing"
)

// TestAPI implements API for tests, everything is forwarded to t.Log and
// broken/warning ids are kept around for assertions.
type TestAPI struct {
	t testing.TB

	mutex    *sync.Mutex
	broken   *[]string
	warnings *[]string
}

func NewTestAPI(t testing.TB) TestAPI {
	return TestAPI{
		t:        t,
		mutex:    &sync.Mutex{},
		broken:   &[]string{},
		warnings: &[]string{},
	}
}

func (a TestAPI) record(list *[]string, id string) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	*list = append(*list, id)
}

func (a TestAPI) ReportBroken(id string, params ...any) {
	a.record(a.broken, id)
	a.t.Log(append([]any{"BROKEN", id}, params...)...)
}

func (a TestAPI) ReportWarning(id string, params ...any) {
	a.record(a.warnings, id)
	a.t.Log(append([]any{"WARN", id}, params...)...)
}

func (a TestAPI) ReportInfo(msg string, params ...any) {
	a.t.Log(append([]any{"INFO", msg}, params...)...)
}

func (a TestAPI) ReportDebug(msg string, params ...any) {
	a.t.Log(append([]any{"DEBUG", msg}, params...)...)
}

func (a TestAPI) ReportCount(id string, count int64) {
	a.t.Log("COUNT", id, count)
}

func (a TestAPI) snapshot(list *[]string) []string {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	out := make([]string, len(*list))
	copy(out, *list)
	return out
}

// Broken returns the ids passed to ReportBroken so far.
func (a TestAPI) Broken() []string {
	return a.snapshot(a.broken)
}

// Warnings returns the ids passed to ReportWarning so far.
func (a TestAPI) Warnings() []string {
	return a.snapshot(a.warnings)
}

// HasBroken reports whether any broken id contains substr.
func (a TestAPI) HasBroken(substr string) bool {
	for _, id := range a.Broken() {
		if strings.Contains(id, substr) {
			return true
		}
	}
	return false
}

func (a TestAPI) String() string {
	return fmt.Sprintf("broken=%v warnings=%v", a.Broken(), a.Warnings())
}
