package translator

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	mdwerror "github.com/msto63/ff/foundation/core/error"
	"github.com/msto63/ff/internal/history"
	"github.com/msto63/ff/internal/runner"
)

type fakeRunner struct {
	commands []string
	result   *runner.Result
	err      error
}

func (f *fakeRunner) Run(ctx context.Context, command string) (*runner.Result, error) {
	f.commands = append(f.commands, command)
	res := f.result
	if res == nil {
		res = &runner.Result{Backend: "fake", Program: "ffmpeg", Duration: 5 * time.Millisecond}
	}
	return res, f.err
}

func (f *fakeRunner) Name() string { return "fake" }
func (f *fakeRunner) Close() error { return nil }

func newService(t *testing.T, r runner.Runner) (*Service, *bytes.Buffer, *history.MemoryStore) {
	t.Helper()
	var out bytes.Buffer
	store := history.NewMemoryStore()
	return New(Options{Runner: r, History: store, Out: &out}), &out, store
}

func TestProcessRunsCommand(t *testing.T) {
	r := &fakeRunner{}
	svc, out, store := newService(t, r)

	res, err := svc.Process(context.Background(), Request{Phrase: "convert video.mp4 to video.avi"})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	want := `ffmpeg -i "video.mp4" "video.avi"`
	if res.Command != want {
		t.Errorf("Command = %q, want %q", res.Command, want)
	}
	if strings.TrimSpace(out.String()) != want {
		t.Errorf("printed %q, want %q", out.String(), want)
	}
	if len(r.commands) != 1 || r.commands[0] != want {
		t.Errorf("runner got %v", r.commands)
	}
	if res.Status != history.StatusSucceeded {
		t.Errorf("Status = %s, want succeeded", res.Status)
	}

	runs, _ := store.List(context.Background(), history.Filter{})
	if len(runs) != 1 {
		t.Fatalf("recorded %d runs, want 1", len(runs))
	}
	if runs[0].ID != res.RunID || runs[0].Operation != "convert" || runs[0].Backend != "fake" {
		t.Errorf("unexpected run %+v", runs[0])
	}
}

func TestProcessDryRun(t *testing.T) {
	r := &fakeRunner{}
	svc, out, store := newService(t, r)

	res, err := svc.Process(context.Background(), Request{Phrase: "extract clip.mp4 to clip.mp3", DryRun: true})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(r.commands) != 0 {
		t.Errorf("dry run executed %v", r.commands)
	}
	if !strings.Contains(out.String(), `-q:a 0 -map a "clip.mp3"`) {
		t.Errorf("printed %q", out.String())
	}
	if res.Status != history.StatusDryRun {
		t.Errorf("Status = %s, want dry_run", res.Status)
	}

	runs, _ := store.List(context.Background(), history.Filter{Status: history.StatusDryRun})
	if len(runs) != 1 {
		t.Errorf("recorded %d dry runs, want 1", len(runs))
	}
}

func TestProcessOutputDir(t *testing.T) {
	svc, _, _ := newService(t, &fakeRunner{})

	res, err := svc.Process(context.Background(), Request{
		Phrase:    "convert clips/video.mp4 to clips/video.mov",
		DryRun:    true,
		OutputDir: "out",
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	want := `ffmpeg -i "clips/video.mp4" "out/video.mov"`
	if res.Command != want {
		t.Errorf("Command = %q, want %q", res.Command, want)
	}
	if res.Intent.OutputPath != "clips/video.mov" {
		t.Errorf("intent output changed to %q", res.Intent.OutputPath)
	}
}

func TestProcessParams(t *testing.T) {
	svc, _, _ := newService(t, &fakeRunner{})

	res, err := svc.Process(context.Background(), Request{
		Phrase: "resize video.mp4 to small.mp4",
		DryRun: true,
		Params: map[string]string{"width": "640", "height": "-2"},
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if !strings.Contains(res.Command, "scale=640:-2") {
		t.Errorf("Command = %q", res.Command)
	}
}

func TestProcessErrors(t *testing.T) {
	tests := []struct {
		name   string
		req    Request
		runErr error
		stage  Stage
		code   mdwerror.Code
		title  string
	}{
		{
			name:  "unknown operation",
			req:   Request{Phrase: "explode video.mp4 to video.avi"},
			stage: StageParse,
			code:  mdwerror.CodeUnexpectedToken,
			title: "Parse Error",
		},
		{
			name:  "missing output",
			req:   Request{Phrase: "convert video.mp4 to"},
			stage: StageParse,
			code:  mdwerror.CodeMissingToken,
			title: "Parse Error",
		},
		{
			name:  "unknown parameter",
			req:   Request{Phrase: "convert video.mp4 to video.avi", Params: map[string]string{"bitrate": "1M"}},
			stage: StageRender,
			code:  mdwerror.CodeInvalidInput,
			title: "Command Build Error",
		},
		{
			name:  "bad width",
			req:   Request{Phrase: "resize video.mp4 to small.mp4", Params: map[string]string{"width": "wide"}},
			stage: StageRender,
			code:  mdwerror.CodeInvalidInput,
			title: "Command Build Error",
		},
		{
			name: "runner failure",
			req:  Request{Phrase: "convert video.mp4 to video.avi"},
			runErr: mdwerror.New("ffmpeg exited with status 1").
				WithCode(mdwerror.CodeCommandFailed),
			stage: StageExecute,
			code:  mdwerror.CodeCommandFailed,
			title: "Execution Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeRunner{err: tt.runErr}
			if tt.runErr != nil {
				r.result = &runner.Result{Backend: "fake", ExitCode: 1}
			}
			svc, out, store := newService(t, r)

			_, err := svc.Process(context.Background(), tt.req)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := StageOf(err); got != tt.stage {
				t.Errorf("StageOf() = %q, want %q", got, tt.stage)
			}
			if !mdwerror.HasCode(err, tt.code) {
				t.Errorf("code = %s, want %s", mdwerror.GetCode(err), tt.code)
			}
			if g := GuidanceFor(err); g.Title != tt.title {
				t.Errorf("Title = %q, want %q", g.Title, tt.title)
			}

			if tt.stage != StageExecute && out.Len() != 0 {
				t.Errorf("printed %q for a rejected phrase", out.String())
			}

			runs, _ := store.List(context.Background(), history.Filter{})
			if len(runs) != 1 {
				t.Fatalf("recorded %d runs, want 1", len(runs))
			}
			want := history.StatusRejected
			if tt.stage == StageExecute {
				want = history.StatusFailed
			}
			if runs[0].Status != want {
				t.Errorf("recorded status %s, want %s", runs[0].Status, want)
			}
			if runs[0].ErrorCode != tt.code.String() {
				t.Errorf("recorded code %s, want %s", runs[0].ErrorCode, tt.code)
			}
		})
	}
}

func TestProcessWithoutRunner(t *testing.T) {
	svc := New(Options{})

	_, err := svc.Process(context.Background(), Request{Phrase: "convert video.mp4 to video.avi"})
	if !mdwerror.HasCode(err, mdwerror.CodeToolUnavailable) {
		t.Errorf("error = %v, want TOOL_UNAVAILABLE", err)
	}
	if StageOf(err) != StageExecute {
		t.Errorf("StageOf() = %q", StageOf(err))
	}
}

func TestExplain(t *testing.T) {
	r := &fakeRunner{}
	svc, out, store := newService(t, r)

	res, err := svc.Explain(context.Background(), Request{Phrase: "transcode a.mkv to b.mp4"})
	if err != nil {
		t.Fatalf("Explain() error = %v", err)
	}
	if len(res.Tokens) == 0 || res.Intent == nil {
		t.Fatalf("missing tokens or intent: %+v", res)
	}
	if !strings.Contains(res.Command, "-c:v libx264 -c:a aac") {
		t.Errorf("Command = %q", res.Command)
	}
	if out.Len() != 0 || len(r.commands) != 0 {
		t.Error("Explain must not print or run")
	}
	runs, _ := store.List(context.Background(), history.Filter{Status: history.StatusParsed})
	if len(runs) != 1 {
		t.Errorf("recorded %d parsed runs, want 1", len(runs))
	}
}

func TestReport(t *testing.T) {
	svc, _, _ := newService(t, &fakeRunner{})
	_, err := svc.Process(context.Background(), Request{Phrase: "convert video.mp4"})
	if err == nil {
		t.Fatal("expected error")
	}

	var buf bytes.Buffer
	Report(&buf, err)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("Report wrote %d lines: %q", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "Parse Error: ") || strings.Contains(lines[0], "parse error:") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[1] != "Guidance: Make sure your command follows the format 'convert <input> to <output>' or similar." {
		t.Errorf("line 1 = %q", lines[1])
	}
	if lines[2] != "Example: 'convert video.mp4 to video.avi'" {
		t.Errorf("line 2 = %q", lines[2])
	}

	buf.Reset()
	Report(&buf, nil)
	if buf.Len() != 0 {
		t.Errorf("Report(nil) wrote %q", buf.String())
	}
}
