package datarecording

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

const execTableName = "exec_info"

const execTimeFormat = "2006-01-02 15:04:05.000000000"

// ExecInfo is one property of the program execution that produced a
// database.
type ExecInfo struct {
	Property string
	Value    string
}

// ExecRecorder records when and how the program that wrote a database ran.
type ExecRecorder struct {
	recorder DataRecorder
	entries  []ExecInfo
}

// NewExecRecorder creates the exec_info table in the recorder.
func NewExecRecorder(recorder DataRecorder) (*ExecRecorder, error) {
	if err := recorder.CreateTable(execTableName, ExecInfo{}); err != nil {
		return nil, err
	}

	return &ExecRecorder{recorder: recorder}, nil
}

// Start captures the start time, the command line, and the working
// directory.
func (e *ExecRecorder) Start() {
	e.entries = append(e.entries,
		ExecInfo{"Start Time", time.Now().Format(execTimeFormat)},
		ExecInfo{"Command", strings.Join(os.Args, " ")},
	)

	if ex, err := os.Executable(); err == nil {
		e.entries = append(e.entries,
			ExecInfo{"Working Directory", filepath.Dir(ex)})
	}
}

// End writes the captured properties along with the end time.
func (e *ExecRecorder) End() error {
	e.entries = append(e.entries,
		ExecInfo{"End Time", time.Now().Format(execTimeFormat)})

	for _, entry := range e.entries {
		if err := e.recorder.InsertData(execTableName, entry); err != nil {
			return err
		}
	}

	e.entries = nil

	return e.recorder.Flush()
}
