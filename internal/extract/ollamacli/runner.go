package ollamacli

import (
	"bytes"
	"context"
	"log"
	"os/exec"
	"strings"
	"time"
)

// Runner lets us stub the external ollama process in tests. Run feeds stdin
// to the command and returns whatever stdout and stderr were captured, even
// when err is non-nil: partial output from a killed process is diagnostic
// material, not garbage.
type Runner interface {
	Run(ctx context.Context, stdin string, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, stdin string, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(stdin)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	dur := time.Since(start)

	if err != nil {
		log.Printf("[ollama-cli] exec failed cmd=%s args=%q duration_ms=%d err=%v",
			name, strings.Join(args, " "), dur.Milliseconds(), err)
	} else {
		log.Printf("[ollama-cli] exec ok cmd=%s args=%q duration_ms=%d stdout_bytes=%d",
			name, strings.Join(args, " "), dur.Milliseconds(), out.Len())
	}

	return out.Bytes(), errb.Bytes(), err
}
