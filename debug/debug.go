// Package debug provides the framework's ambient logging and fatal-assertion
// facility. It is intentionally small: every other package treats a contract
// violation as "log and abort" by calling DFatalf rather than returning an
// error, matching the rest of the framework's convention that recoverable
// conditions go through return values and invariant violations do not.
package debug

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"
)

// ALWAYS is the label that is never filtered out, regardless of COTASKDEBUG.
const ALWAYS = Tselector("STATUS")

func init() {
	log.SetFlags(log.Ltime | log.Lmicroseconds)
}

// Debug output is controlled by the COTASKDEBUG environment variable, which
// is a semicolon-separated list of labels (e.g. "CV;WAITLIST").
func debugLabels() map[Tselector]bool {
	m := make(map[Tselector]bool)
	s := os.Getenv("COTASKDEBUG")
	if s == "" {
		return m
	}
	for _, l := range strings.Split(s, ";") {
		m[Tselector(l)] = true
	}
	return m
}

// DPrintf logs format/args under label, if label is enabled via COTASKDEBUG.
func DPrintf(label Tselector, format string, v ...interface{}) {
	m := debugLabels()
	if _, ok := m[label]; ok || label == ALWAYS {
		log.Printf("%s %s", label, fmt.Sprintf(format, v...))
	}
}

// DFatalf reports a contract violation and aborts the process. It is the
// sole mechanism for signalling the invariant violations the specification
// calls out: an unexpected wakeup source, destruction of a primitive while
// tasks are still waiting on it, or a hook invoked more than once.
func DFatalf(format string, v ...interface{}) {
	pc, file, line, ok := runtime.Caller(1)
	fnDetails := runtime.FuncForPC(pc)
	if ok && fnDetails != nil {
		log.Fatalf("FATAL %s %s:%d %s", fnDetails.Name(), file, line, fmt.Sprintf(format, v...))
	} else {
		log.Fatalf("FATAL (missing caller details) %s", fmt.Sprintf(format, v...))
	}
}
