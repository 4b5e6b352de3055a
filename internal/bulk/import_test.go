package bulk

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/employee-records-api/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type call struct {
	Op       string
	ID       int
	Employee models.Employee
}

// recordingDispatcher records every call and fails the ones failFn selects
type recordingDispatcher struct {
	mu     sync.Mutex
	calls  []call
	failFn func(c call) error
	delay  time.Duration

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (d *recordingDispatcher) record(c call) error {
	n := d.inFlight.Add(1)
	defer d.inFlight.Add(-1)
	for {
		m := d.maxInFlight.Load()
		if n <= m || d.maxInFlight.CompareAndSwap(m, n) {
			break
		}
	}
	if d.delay > 0 {
		time.Sleep(d.delay)
	}

	d.mu.Lock()
	d.calls = append(d.calls, c)
	d.mu.Unlock()

	if d.failFn != nil {
		return d.failFn(c)
	}
	return nil
}

func (d *recordingDispatcher) Create(ctx context.Context, e models.Employee) (int, error) {
	return 0, d.record(call{Op: "create", Employee: e})
}

func (d *recordingDispatcher) Update(ctx context.Context, id int, e models.Employee) error {
	return d.record(call{Op: "update", ID: id, Employee: e})
}

func (d *recordingDispatcher) ops(op string) []call {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []call
	for _, c := range d.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func TestImport_HeaderWithEmptyIDsCreates(t *testing.T) {
	d := &recordingDispatcher{}
	input := "id,name,department,salary\n,John Doe,IT,600000\n,Jane Smith,HR,550000"

	outcome, err := Import(context.Background(), strings.NewReader(input), d, Options{})
	require.NoError(t, err)

	want := []call{
		{Op: "create", Employee: models.Employee{Name: "John Doe", Department: "IT", Salary: 600000}},
		{Op: "create", Employee: models.Employee{Name: "Jane Smith", Department: "HR", Salary: 550000}},
	}
	if diff := cmp.Diff(want, d.ops("create")); diff != "" {
		t.Errorf("create calls mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, d.ops("update"))
	assert.Equal(t, Outcome{Success: 2}, outcome)
}

func TestImport_HeaderlessRowWithIDUpdates(t *testing.T) {
	d := &recordingDispatcher{}

	outcome, err := Import(context.Background(), strings.NewReader("1,John Doe,IT,650000"), d, Options{})
	require.NoError(t, err)

	want := []call{
		{Op: "update", ID: 1, Employee: models.Employee{ID: 1, Name: "John Doe", Department: "IT", Salary: 650000}},
	}
	if diff := cmp.Diff(want, d.ops("update")); diff != "" {
		t.Errorf("update calls mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, d.ops("create"))
	assert.Equal(t, 1, outcome.Success)
}

func TestImport_NameHeaderThreeColumns(t *testing.T) {
	d := &recordingDispatcher{}

	outcome, err := Import(context.Background(), strings.NewReader("name,department,salary\nAda,Engineering,700000"), d, Options{})
	require.NoError(t, err)

	creates := d.ops("create")
	require.Len(t, creates, 1)
	assert.Equal(t, 700000, creates[0].Employee.Salary)
	assert.Equal(t, "Ada", creates[0].Employee.Name)
	assert.Equal(t, 1, outcome.Processed())
}

func TestImport_ShortRowsSkipped(t *testing.T) {
	d := &recordingDispatcher{}
	input := "Bob,Engineering\nAda,Engineering,700000\n\n"

	outcome, err := Import(context.Background(), strings.NewReader(input), d, Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, outcome.Processed())
	assert.Equal(t, 1, outcome.Skipped)
	assert.Len(t, d.calls, 1)
}

func TestImport_EmptyInput(t *testing.T) {
	for _, input := range []string{"", "\n\n", "\r\n"} {
		d := &recordingDispatcher{}
		outcome, err := Import(context.Background(), strings.NewReader(input), d, Options{})
		require.NoError(t, err)
		assert.Equal(t, Outcome{}, outcome)
		assert.Empty(t, d.calls)
	}
}

func TestImport_HeaderOnly(t *testing.T) {
	d := &recordingDispatcher{}
	outcome, err := Import(context.Background(), strings.NewReader("ID,Name,Department,Salary\n"), d, Options{})
	require.NoError(t, err)
	assert.Equal(t, Outcome{}, outcome)
}

func TestImport_FieldLevelDegradation(t *testing.T) {
	d := &recordingDispatcher{}
	input := strings.Join([]string{
		"abc,  Grace Hopper , Navy ,notanumber", // bad id and salary
		"-4,Linus,Kernel,1000",                 // non-positive id
		"7,Ken,Unix,",                           // empty salary
		"8,Rob,Plan9,1200.75,extra,columns",     // decimal salary, extra fields
	}, "\n")

	outcome, err := Import(context.Background(), strings.NewReader(input), d, Options{})
	require.NoError(t, err)

	want := []call{
		{Op: "create", Employee: models.Employee{Name: "Grace Hopper", Department: "Navy", Salary: 0}},
		{Op: "create", Employee: models.Employee{Name: "Linus", Department: "Kernel", Salary: 1000}},
		{Op: "update", ID: 7, Employee: models.Employee{ID: 7, Name: "Ken", Department: "Unix", Salary: 0}},
		{Op: "update", ID: 8, Employee: models.Employee{ID: 8, Name: "Rob", Department: "Plan9", Salary: 1200}},
	}
	if diff := cmp.Diff(want, d.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 4, outcome.Success)
}

func TestImport_FailuresDoNotStopTheRun(t *testing.T) {
	d := &recordingDispatcher{
		failFn: func(c call) error {
			if c.Employee.Department == "HR" {
				return errors.New("validation failed")
			}
			return nil
		},
	}
	input := "Ann,HR,1\nBen,IT,2\nCid,HR,3\nDee,Ops,4\n"

	outcome, err := Import(context.Background(), strings.NewReader(input), d, Options{})
	require.NoError(t, err)

	assert.Equal(t, Outcome{Success: 2, Failure: 2}, outcome)
	assert.Len(t, d.calls, 4)
	assert.Equal(t, "Processed 4 records: 2 successful, 2 failed", outcome.Summary())
}

func TestImport_PanickingDispatcherCountsAsFailure(t *testing.T) {
	d := &recordingDispatcher{
		failFn: func(c call) error {
			if c.Employee.Name == "boom" {
				panic("dispatcher bug")
			}
			return nil
		},
	}

	outcome, err := Import(context.Background(), strings.NewReader("boom,IT,1\nok,IT,2"), d, Options{})
	require.NoError(t, err)
	assert.Equal(t, Outcome{Success: 1, Failure: 1}, outcome)
}

func TestImport_SequentialPreservesFileOrder(t *testing.T) {
	d := &recordingDispatcher{delay: time.Millisecond}
	var b strings.Builder
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&b, "emp%02d,Dept,%d\n", i, 1000+i)
	}

	_, err := Import(context.Background(), strings.NewReader(b.String()), d, Options{Concurrency: 1})
	require.NoError(t, err)

	require.Len(t, d.calls, 20)
	for i, c := range d.calls {
		assert.Equal(t, fmt.Sprintf("emp%02d", i), c.Employee.Name)
	}
	assert.Equal(t, int32(1), d.maxInFlight.Load())
}

func TestImport_ParallelCountsStayCorrect(t *testing.T) {
	d := &recordingDispatcher{
		delay: time.Millisecond,
		failFn: func(c call) error {
			if c.Employee.Salary%3 == 0 {
				return errors.New("rejected")
			}
			return nil
		},
	}
	var b strings.Builder
	b.WriteString("name,department,salary\n")
	wantFail := 0
	for i := 1; i <= 300; i++ {
		fmt.Fprintf(&b, "emp%d,Dept,%d\n", i, i)
		if i%3 == 0 {
			wantFail++
		}
	}
	b.WriteString("short,row\n")

	outcome, err := Import(context.Background(), strings.NewReader(b.String()), d, Options{Concurrency: 8})
	require.NoError(t, err)

	assert.Equal(t, 300, outcome.Processed())
	assert.Equal(t, wantFail, outcome.Failure)
	assert.Equal(t, 300-wantFail, outcome.Success)
	assert.Equal(t, 1, outcome.Skipped)
	assert.LessOrEqual(t, d.maxInFlight.Load(), int32(8))
}

func TestImport_CancellationStopsFurtherDispatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var started atomic.Int32
	d := &recordingDispatcher{
		failFn: func(c call) error {
			if started.Add(1) == 3 {
				cancel()
			}
			return nil
		},
	}
	var b strings.Builder
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&b, "emp%d,Dept,%d\n", i, i+1)
	}

	outcome, err := Import(ctx, strings.NewReader(b.String()), d, Options{})
	require.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, 3, outcome.Processed())
	assert.Len(t, d.calls, 3)
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestImport_ReadErrorIsReturned(t *testing.T) {
	d := &recordingDispatcher{}
	src := io.MultiReader(strings.NewReader("Ann,HR,1\n"), failingReader{err: errors.New("disk gone")})

	outcome, err := Import(context.Background(), src, d, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
	assert.Equal(t, 1, outcome.Success)
}

func TestImport_RoundTripIssuesUpdates(t *testing.T) {
	original := []models.Employee{
		{ID: 3, Name: "Ada Lovelace", Department: "Engineering", Salary: 700000},
		{ID: 9, Name: "Smith, John", Department: "R&D \"Labs\"", Salary: 510000},
		{ID: 12, Name: "Grace", Department: "Ops", Salary: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, original))

	d := &recordingDispatcher{}
	outcome, err := Import(context.Background(), &buf, d, Options{})
	require.NoError(t, err)

	var want []call
	for _, e := range original {
		want = append(want, call{Op: "update", ID: e.ID, Employee: e})
	}
	if diff := cmp.Diff(want, d.calls); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, len(original), outcome.Success)
}

func TestImport_TemplateCreatesExampleRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTemplate(&buf))

	d := &recordingDispatcher{}
	outcome, err := Import(context.Background(), &buf, d, Options{})
	require.NoError(t, err)

	assert.Len(t, d.ops("create"), 2)
	assert.Equal(t, 2, outcome.Success)
}

func TestImport_LoggerReceivesFailures(t *testing.T) {
	var logBuf bytes.Buffer
	log := newTestLogger(&logBuf)
	d := &recordingDispatcher{failFn: func(call) error { return errors.New("server said no") }}

	_, err := Import(context.Background(), strings.NewReader("skip,me\n5,Ann,HR,10"), d, Options{Logger: &log})
	require.NoError(t, err)

	out := logBuf.String()
	assert.Contains(t, out, "server said no")
	assert.Contains(t, out, `"line":2`)
	assert.Contains(t, out, `"op":"update"`)
}
