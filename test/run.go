// Command run drives the built minipas binary over the golden programs in
// internal/compiler/testdata. Run it from the repository root:
//
//	go run ./test
package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	testdataDir  = "internal/compiler/testdata"
	outDir       = "out"
	buildTimeout = 60 * time.Second
	runTimeout   = 5 * time.Second
)

var binPath = filepath.Join(outDir, "minipas")

type testResult struct {
	fileName string
	passed   bool
	output   string // failure details
	isGood   bool
}

func main() {
	fmt.Println("🧹 Cleaning output directory...")
	_ = os.RemoveAll(outDir)
	_ = os.Mkdir(outDir, 0755)

	fmt.Println("🔨 Building minipas...")
	build := exec.Command("go", "build", "-o", binPath, "./cmd/minipas")
	if out, err := runCommandWithTimeout(build, buildTimeout); err != nil {
		fmt.Printf("build failed: %v\n%s", err, out)
		os.Exit(1)
	}

	goodFiles, _ := filepath.Glob(filepath.Join(testdataDir, "good", "*.pas"))
	badFiles, _ := filepath.Glob(filepath.Join(testdataDir, "bad", "*.pas"))

	var failedTests []testResult
	goodPassed, goodFailed := 0, 0
	badPassed, badFailed := 0, 0

	fmt.Printf("\n🔍 Running %d good programs:\n", len(goodFiles))
	for _, file := range goodFiles {
		res := runGoodTest(file)
		if res.passed {
			fmt.Printf("  ✅ %s\n", res.fileName)
			goodPassed++
		} else {
			fmt.Printf("  ❌ %s\n", res.fileName)
			goodFailed++
			failedTests = append(failedTests, res)
		}
	}

	fmt.Printf("\n💥 Running %d bad programs:\n", len(badFiles))
	for _, file := range badFiles {
		res := runBadTest(file)
		if res.passed {
			fmt.Printf("  ✅ %s (failed as expected)\n", res.fileName)
			badPassed++
		} else {
			fmt.Printf("  ❌ %s (unexpected result)\n", res.fileName)
			badFailed++
			failedTests = append(failedTests, res)
		}
	}

	if len(failedTests) > 0 {
		fmt.Println("\n--- Detailed Failures ---")
		for _, failure := range failedTests {
			fmt.Printf("\n❌ %s (%s)\n", failure.fileName, map[bool]string{true: "good", false: "bad"}[failure.isGood])
			fmt.Println(failure.output)
			fmt.Println("---")
		}
	}

	fmt.Println("\n--------------------")
	fmt.Printf("Good: ✅ %d | ❌ %d\n", goodPassed, goodFailed)
	fmt.Printf("Bad:  ✅ %d | ❌ %d\n", badPassed, badFailed)
	fmt.Println("--------------------")

	if goodFailed > 0 || badFailed > 0 {
		fmt.Println("\n🚨 Some tests failed!")
		os.Exit(1)
	}
	fmt.Println("\n🎉 All tests passed!")
}

// runGoodTest runs file, compares its bindings with the .out golden, then
// emits it back to pascal and checks the emitted program runs the same.
func runGoodTest(file string) testResult {
	fileName := filepath.Base(file)
	res := testResult{fileName: fileName, isGood: true}

	want, err := os.ReadFile(strings.TrimSuffix(file, ".pas") + ".out")
	if err != nil {
		res.output = fmt.Sprintf("missing golden output: %v", err)
		return res
	}

	stdout, stderr, err := runMinipas("run", file)
	if err != nil {
		res.output = fmt.Sprintf("run failed: %v\nstderr:\n%s", err, stderr)
		return res
	}
	if stdout != string(want) {
		res.output = fmt.Sprintf("bindings mismatch\nexpected:\n%s\nactual:\n%s", want, stdout)
		return res
	}

	emitDir := filepath.Join(outDir, "pascal")
	if _, stderr, err := runMinipas("emit", "-f", "pascal", "-o", emitDir, file); err != nil {
		res.output = fmt.Sprintf("emit failed: %v\nstderr:\n%s", err, stderr)
		return res
	}
	emitted := filepath.Join(emitDir, fileName)
	again, stderr, err := runMinipas("run", emitted)
	if err != nil {
		res.output = fmt.Sprintf("emitted program failed: %v\nstderr:\n%s", err, stderr)
		return res
	}
	if again != stdout {
		res.output = fmt.Sprintf("emitted program diverged\noriginal:\n%s\nemitted:\n%s", stdout, again)
		return res
	}

	res.passed = true
	return res
}

// runBadTest expects a non-zero exit whose stderr carries the .err golden line.
func runBadTest(file string) testResult {
	fileName := filepath.Base(file)
	res := testResult{fileName: fileName, isGood: false}

	want, err := os.ReadFile(strings.TrimSuffix(file, ".pas") + ".err")
	if err != nil {
		res.output = fmt.Sprintf("missing golden error: %v", err)
		return res
	}

	stdout, stderr, err := runMinipas("run", file)
	switch {
	case err == nil:
		res.output = fmt.Sprintf("expected failure but got success\nstdout:\n%s", stdout)
	case !strings.Contains(stderr, strings.TrimSpace(string(want))):
		res.output = fmt.Sprintf("error mismatch\nexpected to contain: %s\nstderr:\n%s", strings.TrimSpace(string(want)), stderr)
	default:
		res.passed = true
	}
	return res
}

func runMinipas(args ...string) (string, string, error) {
	// A config path that does not exist keeps the run on defaults.
	args = append([]string{"--config", filepath.Join(outDir, "none.yml")}, args...)
	cmd := exec.Command(binPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := runCommandWithTimeout(cmd, runTimeout)
	return string(out), stderr.String(), err
}

// runCommandWithTimeout captures stdout (and stderr when the caller has not
// claimed it) and kills the process after timeout.
func runCommandWithTimeout(cmd *exec.Cmd, timeout time.Duration) ([]byte, error) {
	var out bytes.Buffer
	cmd.Stdout = &out
	if cmd.Stderr == nil {
		cmd.Stderr = &out
	}

	if err := cmd.Start(); err != nil {
		return out.Bytes(), fmt.Errorf("failed to start command '%s': %w", cmd.String(), err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case <-time.After(timeout):
		if killErr := cmd.Process.Kill(); killErr != nil {
			return out.Bytes(), fmt.Errorf("command '%s' timed out after %v and failed to kill: %w", cmd.String(), timeout, killErr)
		}
		return out.Bytes(), fmt.Errorf("command '%s' timed out after %v", cmd.String(), timeout)
	case err := <-done:
		return out.Bytes(), err
	}
}
