package pipeline

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/uapcse/pubscan/internal/model"
)

// recordingStep is a test step that records whether it ran and can fail.
type recordingStep struct {
	name string
	err  error
	ran  bool
}

func (s *recordingStep) Do(_ context.Context, _ *model.ExtractReport) error {
	s.ran = true
	return s.err
}

func (s *recordingStep) Name() string {
	return s.name
}

// TestPipelineExecute tests step ordering and error handling.
func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("runs steps in order", func(t *testing.T) {
		t.Parallel()

		first := &recordingStep{name: "first"}
		second := &recordingStep{name: "second"}

		p := New()
		p.AddSteps(first, second)

		report := model.NewExtractReport("stdin", "")
		if err := p.Execute(context.Background(), report); err != nil {
			t.Fatalf("Execute() error: %v", err)
		}

		if !first.ran || !second.ran {
			t.Error("expected both steps to run")
		}
		if !reflect.DeepEqual(report.PerformedSteps, []string{"first", "second"}) {
			t.Errorf("unexpected performed steps: %v", report.PerformedSteps)
		}
	})

	t.Run("stops on first error by default", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("boom")
		failing := &recordingStep{name: "failing", err: wantErr}
		after := &recordingStep{name: "after"}

		p := New()
		p.AddSteps(failing, after)

		report := model.NewExtractReport("stdin", "")
		if err := p.Execute(context.Background(), report); !errors.Is(err, wantErr) {
			t.Errorf("Execute() = %v, want %v", err, wantErr)
		}

		if after.ran {
			t.Error("expected pipeline to stop before the second step")
		}
		if !errors.Is(report.Error, wantErr) {
			t.Errorf("expected error recorded in report, got %v", report.Error)
		}
		if report.ErrorMessage != "boom" {
			t.Errorf("expected error message recorded, got %q", report.ErrorMessage)
		}
	})

	t.Run("continues past errors when configured", func(t *testing.T) {
		t.Parallel()

		failing := &recordingStep{name: "failing", err: errors.New("boom")}
		after := &recordingStep{name: "after"}

		p := New(WithContinueOnError(true))
		p.AddSteps(failing, after)

		report := model.NewExtractReport("stdin", "")
		if err := p.Execute(context.Background(), report); err != nil {
			t.Fatalf("Execute() error: %v", err)
		}

		if !after.ran {
			t.Error("expected pipeline to continue after the failing step")
		}
	})

	t.Run("cancellation marks the report", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		p := New()
		p.AddStep(&recordingStep{name: "never"})

		report := model.NewExtractReport("stdin", "")
		if err := p.Execute(ctx, report); !errors.Is(err, context.Canceled) {
			t.Errorf("Execute() = %v, want context.Canceled", err)
		}
		if !report.Cancelled {
			t.Error("expected report marked cancelled")
		}
	})
}

// TestPipelineStepNames tests step introspection.
func TestPipelineStepNames(t *testing.T) {
	t.Parallel()

	p := New()
	p.AddStep(&recordingStep{name: "one"})
	p.AddStep(&recordingStep{name: "two"})

	if p.StepCount() != 2 {
		t.Errorf("StepCount() = %d, want 2", p.StepCount())
	}
	if !reflect.DeepEqual(p.StepNames(), []string{"one", "two"}) {
		t.Errorf("StepNames() = %v", p.StepNames())
	}
}
