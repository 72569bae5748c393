package solve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

// stubServer answers /solve with a fixed status and body and counts calls.
func stubServer(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.Method != http.MethodPost || r.URL.Path != "/solve" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestSolveEmptyExpressionSkipsNetwork(t *testing.T) {
	srv, calls := stubServer(t, http.StatusOK, `{"success":true,"result":"4","explanation":"sum"}`)
	c := NewCoordinator(NewClient(srv.URL, nil))

	for _, in := range []string{"", "   ", "\t\n"} {
		_, err := c.Solve(context.Background(), in)
		if !errors.Is(err, ErrEmptyExpression) {
			t.Fatalf("Solve(%q) error = %v, want ErrEmptyExpression", in, err)
		}
	}
	if n := atomic.LoadInt32(calls); n != 0 {
		t.Fatalf("expected no network calls, got %d", n)
	}
	st := c.Status()
	if st.Prompt != EmptyExpressionPrompt {
		t.Errorf("Prompt = %q", st.Prompt)
	}
	if st.ResultsVisible() {
		t.Error("results region should stay hidden")
	}
}

func TestSolveSuccess(t *testing.T) {
	srv, calls := stubServer(t, http.StatusOK, `{"success":true,"result":"4","explanation":"sum"}`)
	c := NewCoordinator(NewClient(srv.URL, nil))

	res, err := c.Solve(context.Background(), "2+2")
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Kind != KindSuccess || res.Result != "4" || res.Explanation != "sum" {
		t.Fatalf("unexpected result %+v", res)
	}
	if n := atomic.LoadInt32(calls); n != 1 {
		t.Fatalf("expected exactly one call, got %d", n)
	}
	if last, ok := c.Last(); !ok || last.Result != "4" || c.State() != StateIdle {
		t.Fatalf("Last() = %+v, %v; State() = %s", last, ok, c.State())
	}

	st := c.Status()
	if st.State != StateIdle || !st.ResultsVisible() {
		t.Fatalf("unexpected status %+v", st)
	}
	if d := st.Display(); d.ResultText != "4" || d.ExplanationText != "sum" {
		t.Fatalf("unexpected display %+v", d)
	}
}

func TestSolveSendsExpression(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got = string(b)
		fmt.Fprint(w, `{"success":true,"result":"x = 5","explanation":""}`)
	}))
	defer srv.Close()

	c := NewCoordinator(NewClient(srv.URL+"/", nil))
	if _, err := c.Solve(context.Background(), "  x+5=10  "); err != nil {
		t.Fatal(err)
	}
	if got != `{"expression":"x+5=10"}` {
		t.Fatalf("request body = %s", got)
	}
}

func TestSolveHTTPErrorWithMessage(t *testing.T) {
	srv, _ := stubServer(t, http.StatusBadRequest, `{"message":"bad syntax"}`)
	c := NewCoordinator(NewClient(srv.URL, nil))

	res, err := c.Solve(context.Background(), "2+")
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Kind != KindServerError {
		t.Fatalf("Kind = %s", res.Kind)
	}
	if res.Message != "bad syntax" {
		t.Errorf("Message = %q", res.Message)
	}
	if res.Explanation != FallbackServerExplanation {
		t.Errorf("Explanation = %q, want fallback", res.Explanation)
	}
	if d := res.Display(); d.ResultText != "Error: bad syntax" {
		t.Errorf("ResultText = %q", d.ResultText)
	}
}

func TestSolveHTTPErrorFallbacks(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"empty json", http.StatusInternalServerError, `{}`},
		{"not json", http.StatusBadGateway, `<html>bad gateway</html>`},
		{"empty body", http.StatusServiceUnavailable, ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := stubServer(t, tt.status, tt.body)
			res := NewClient(srv.URL, nil).Do(context.Background(), "1/0")
			if res.Kind != KindServerError {
				t.Fatalf("Kind = %s", res.Kind)
			}
			if res.Message != FallbackServerMessage || res.Explanation != FallbackServerExplanation {
				t.Fatalf("unexpected fallbacks %+v", res)
			}
		})
	}
}

func TestSolveApplicationFailure(t *testing.T) {
	srv, _ := stubServer(t, http.StatusOK, `{"success":false,"message":"Could not solve this expression/equation."}`)
	res := NewClient(srv.URL, nil).Do(context.Background(), "x**x = sin(x)")
	if res.Kind != KindServerError {
		t.Fatalf("Kind = %s", res.Kind)
	}
	if res.Message != "Could not solve this expression/equation." {
		t.Errorf("Message = %q", res.Message)
	}
	if res.Explanation != FallbackFailedExplanation {
		t.Errorf("Explanation = %q", res.Explanation)
	}
}

func TestSolveMalformedSuccessBody(t *testing.T) {
	srv, _ := stubServer(t, http.StatusOK, `{"success":tru`)
	res := NewClient(srv.URL, nil).Do(context.Background(), "2+2")
	if res.Kind != KindNetworkError {
		t.Fatalf("Kind = %s", res.Kind)
	}
	if res.Detail == "" {
		t.Fatal("expected diagnostic detail")
	}
}

func TestSolveTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close() // nothing listens any more

	c := NewCoordinator(NewClient(url, nil))
	res, err := c.Solve(context.Background(), "2+2")
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Kind != KindNetworkError {
		t.Fatalf("Kind = %s", res.Kind)
	}
	if res.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
	d := res.Display()
	if d.ResultText != NetworkResultText || d.ExplanationText != NetworkExplanationText {
		t.Fatalf("unexpected display %+v", d)
	}
	if strings.Contains(d.ExplanationText, res.Detail) {
		t.Fatal("diagnostic detail leaked into user text")
	}
}

// blockingSolver holds every request until release is closed.
type blockingSolver struct {
	started chan struct{}
	release chan struct{}
	calls   int32
}

func (b *blockingSolver) Do(ctx context.Context, expression string) Result {
	atomic.AddInt32(&b.calls, 1)
	b.started <- struct{}{}
	<-b.release
	return Result{Kind: KindSuccess, Result: expression}
}

func TestSolveBusyGuard(t *testing.T) {
	solver := &blockingSolver{started: make(chan struct{}, 1), release: make(chan struct{})}
	c := NewCoordinator(solver)

	done := make(chan Result)
	go func() {
		res, _ := c.Solve(context.Background(), "1+1")
		done <- res
	}()
	<-solver.started

	if st := c.Status(); st.State != StatePending {
		t.Fatalf("expected pending, got %s", st.State)
	}
	if d := c.Status().Display(); d.ResultText != PendingResultText {
		t.Fatalf("pending display = %+v", d)
	}
	if _, err := c.Solve(context.Background(), "2+2"); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}

	close(solver.release)
	res := <-done
	if res.Result != "1+1" {
		t.Fatalf("unexpected result %+v", res)
	}
	if n := atomic.LoadInt32(&solver.calls); n != 1 {
		t.Fatalf("expected one request, got %d", n)
	}
	if c.Status().State != StateIdle {
		t.Fatal("expected idle after completion")
	}

	// The next submission is accepted again.
	go func() { <-solver.started }()
	if _, err := c.Solve(context.Background(), "3+3"); err != nil {
		t.Fatalf("Solve after completion: %v", err)
	}
}

func TestValidSubmitClearsPrompt(t *testing.T) {
	srv, _ := stubServer(t, http.StatusOK, `{"success":true,"result":"4","explanation":"sum"}`)
	c := NewCoordinator(NewClient(srv.URL, nil))
	c.Solve(context.Background(), "")
	c.Solve(context.Background(), "2+2")
	if p := c.Status().Prompt; p != "" {
		t.Fatalf("expected prompt cleared, got %q", p)
	}
}
