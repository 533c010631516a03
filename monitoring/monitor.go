// Package monitoring turns page-replacement runs into a web server, so that
// runs can be created and stepped from a browser or any HTTP client.
package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/sarchlab/pagesim/config"
	"github.com/sarchlab/pagesim/hooking"
	"github.com/sarchlab/pagesim/monitoring/web"
	"github.com/sarchlab/pagesim/refgen"
	"github.com/sarchlab/pagesim/replacement"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"
)

var errRunNotFound = errors.New("run not found")

type monitoredRun struct {
	sync.Mutex

	run *replacement.Run
	bar *ProgressBar
}

// Func advances the progress bar of the run.
func (m *monitoredRun) Func(ctx hooking.HookCtx) {
	if ctx.Pos == replacement.HookPosStep {
		m.bar.IncrementFinished(1)
	}
}

// Monitor can turn runs into a server and allows external monitoring and
// stepping of the runs.
type Monitor struct {
	portNumber    int
	limits        config.Limits
	logger        *slog.Logger
	profileLength time.Duration

	lock  sync.Mutex
	runs  map[string]*monitoredRun
	order []string

	server *http.Server
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{
		limits:        config.DefaultLimits(),
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		profileLength: time.Second,
		runs:          make(map[string]*monitoredRun),
	}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		m.logger.Warn("port number not allowed, using a random port instead",
			"port", portNumber)

		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithLimits sets the ranges that runs created over HTTP must respect.
func (m *Monitor) WithLimits(limits config.Limits) *Monitor {
	m.limits = limits
	return m
}

// WithLogger sets the logger of the monitor.
func (m *Monitor) WithLogger(logger *slog.Logger) *Monitor {
	m.logger = logger
	return m
}

// WithProfileLength sets how long /api/profile samples the CPU.
func (m *Monitor) WithProfileLength(d time.Duration) *Monitor {
	m.profileLength = d
	return m
}

// RegisterRun makes a run visible through the monitor.
func (m *Monitor) RegisterRun(run *replacement.Run) {
	entry := &monitoredRun{
		run: run,
		bar: newProgressBar(run.Name(), uint64(len(run.References()))),
	}
	entry.bar.Finished = uint64(run.Position())

	run.AcceptHook(entry, replacement.HookPosStep)

	m.lock.Lock()
	defer m.lock.Unlock()

	m.runs[run.Name()] = entry
	m.order = append(m.order, run.Name())
}

func (m *Monitor) findRun(id string) (*monitoredRun, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	entry, ok := m.runs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errRunNotFound, id)
	}

	return entry, nil
}

func (m *Monitor) listRuns() []*monitoredRun {
	m.lock.Lock()
	defer m.lock.Unlock()

	entries := make([]*monitoredRun, 0, len(m.order))
	for _, id := range m.order {
		entries = append(entries, m.runs[id])
	}

	return entries
}

// Handler returns the router that serves the API and the web page.
func (m *Monitor) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/runs", m.createRun).Methods(http.MethodPost)
	r.HandleFunc("/api/runs", m.listRunSummaries).Methods(http.MethodGet)
	r.HandleFunc("/api/runs/{id}", m.runSummary).Methods(http.MethodGet)
	r.HandleFunc("/api/runs/{id}/step", m.stepRun).Methods(http.MethodPost)
	r.HandleFunc("/api/runs/{id}/history", m.runHistory).
		Methods(http.MethodGet)
	r.HandleFunc("/api/runs/{id}/state", m.runState).Methods(http.MethodGet)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

// StartServer starts the monitor as a web server and returns the address it
// listens on.
func (m *Monitor) StartServer() (net.Addr, error) {
	listener, err := net.Listen("tcp", ":"+strconv.Itoa(m.portNumber))
	if err != nil {
		return nil, err
	}

	m.server = &http.Server{
		Handler:           m.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	port := listener.Addr().(*net.TCPAddr).Port
	fmt.Fprintf(os.Stderr,
		"Monitoring page replacement with http://localhost:%d\n", port)

	go func() {
		err := m.server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.logger.Error("monitoring server stopped", "err", err)
		}
	}()

	return listener.Addr(), nil
}

// Shutdown stops the server started by StartServer.
func (m *Monitor) Shutdown(ctx context.Context) error {
	if m.server == nil {
		return nil
	}

	return m.server.Shutdown(ctx)
}

type errorRsp struct {
	Error string `json:"error"`
}

func (m *Monitor) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		m.logger.Error("writing response", "err", err)
	}
}

func (m *Monitor) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, errRunNotFound):
		status = http.StatusNotFound
	case errors.Is(err, replacement.ErrRunCompleted),
		errors.Is(err, replacement.ErrRunNotStarted):
		status = http.StatusConflict
	case errors.Is(err, replacement.ErrInvalidConfiguration):
		status = http.StatusBadRequest
	}

	m.writeJSON(w, status, errorRsp{Error: err.Error()})
}

type createRunReq struct {
	Policy string `json:"policy"`
	Frames int    `json:"frames"`
	Refs   []int  `json:"refs,omitempty"`
	Length int    `json:"length,omitempty"`
	Seed   *int64 `json:"seed,omitempty"`
}

func (m *Monitor) references(req createRunReq) (replacement.ReferenceSequence, error) {
	if len(req.Refs) > 0 {
		if err := m.limits.Validate(req.Frames, len(req.Refs)); err != nil {
			return nil, err
		}

		refs := make(replacement.ReferenceSequence, len(req.Refs))
		for i, p := range req.Refs {
			refs[i] = replacement.Page(p)
		}

		return refs, nil
	}

	if err := m.limits.Validate(req.Frames, req.Length); err != nil {
		return nil, err
	}

	builder := refgen.MakeBuilder().
		WithMaxLength(m.limits.MaxRefLength).
		WithAlphabetSize(m.limits.AlphabetSize)
	if req.Seed != nil {
		builder = builder.WithSeed(*req.Seed)
	}

	return builder.Build().Generate(req.Length)
}

func (m *Monitor) createRun(w http.ResponseWriter, r *http.Request) {
	var req createRunReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		m.writeError(w, fmt.Errorf("%w: %w",
			replacement.ErrInvalidConfiguration, err))
		return
	}

	policy, err := replacement.ParsePolicy(req.Policy)
	if err != nil {
		m.writeError(w, err)
		return
	}

	refs, err := m.references(req)
	if err != nil {
		m.writeError(w, err)
		return
	}

	run, err := replacement.NewRun(req.Frames, policy, refs)
	if err != nil {
		m.writeError(w, err)
		return
	}

	m.RegisterRun(run)
	m.logger.Info("run created",
		"run", run.Name(), "policy", policy, "frames", req.Frames)

	m.writeJSON(w, http.StatusCreated, summarize(run))
}

type runSummaryRsp struct {
	ID         string                        `json:"id"`
	Policy     replacement.Policy            `json:"policy"`
	Frames     int                           `json:"frames"`
	References replacement.ReferenceSequence `json:"references"`
	State      string                        `json:"state"`
	Position   int                           `json:"position"`
	Stats      replacement.Stats             `json:"stats"`
	HitRatio   float64                       `json:"hit_ratio"`
	FrameTable replacement.Frames            `json:"frame_table"`
	Queue      []int                         `json:"queue"`
}

func summarize(run *replacement.Run) runSummaryRsp {
	return runSummaryRsp{
		ID:         run.Name(),
		Policy:     run.Policy(),
		Frames:     run.Capacity(),
		References: run.References(),
		State:      run.State().String(),
		Position:   run.Position(),
		Stats:      run.Stats(),
		HitRatio:   run.Stats().HitRatio(),
		FrameTable: run.Frames(),
		Queue:      run.Queue(),
	}
}

func (m *Monitor) listRunSummaries(w http.ResponseWriter, _ *http.Request) {
	entries := m.listRuns()
	rsp := make([]runSummaryRsp, 0, len(entries))

	for _, e := range entries {
		e.Lock()
		rsp = append(rsp, summarize(e.run))
		e.Unlock()
	}

	m.writeJSON(w, http.StatusOK, rsp)
}

// withRun finds the run named in the URL and calls f with the run locked.
func (m *Monitor) withRun(
	w http.ResponseWriter,
	r *http.Request,
	f func(run *replacement.Run),
) {
	entry, err := m.findRun(mux.Vars(r)["id"])
	if err != nil {
		m.writeError(w, err)
		return
	}

	entry.Lock()
	defer entry.Unlock()

	f(entry.run)
}

func (m *Monitor) runSummary(w http.ResponseWriter, r *http.Request) {
	m.withRun(w, r, func(run *replacement.Run) {
		m.writeJSON(w, http.StatusOK, summarize(run))
	})
}

func (m *Monitor) stepRun(w http.ResponseWriter, r *http.Request) {
	m.withRun(w, r, func(run *replacement.Run) {
		result, err := run.Step()
		if err != nil {
			m.writeError(w, err)
			return
		}

		m.logger.Debug("run stepped", "run", run.Name(),
			"position", result.Position, "outcome", result.Outcome)

		m.writeJSON(w, http.StatusOK, result)
	})
}

func (m *Monitor) runHistory(w http.ResponseWriter, r *http.Request) {
	m.withRun(w, r, func(run *replacement.Run) {
		m.writeJSON(w, http.StatusOK, run.History())
	})
}

func (m *Monitor) runState(w http.ResponseWriter, r *http.Request) {
	m.withRun(w, r, func(run *replacement.Run) {
		buf := bytes.NewBuffer(nil)

		serializer := goseth.NewSerializer()
		serializer.SetRoot(run)
		serializer.SetMaxDepth(2)

		if err := serializer.Serialize(buf); err != nil {
			m.writeError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(buf.Bytes())
	})
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	entries := m.listRuns()
	bars := make([]progressRsp, 0, len(entries))

	for _, e := range entries {
		bar := e.bar.snapshot()
		if bar.Finished < bar.Total {
			bars = append(bars, bar)
		}
	}

	sort.SliceStable(bars, func(i, j int) bool {
		return bars[i].StartTime.Before(bars[j].StartTime)
	})

	m.writeJSON(w, http.StatusOK, bars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		m.writeError(w, err)
		return
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		m.writeError(w, err)
		return
	}

	memoryInfo, err := proc.MemoryInfo()
	if err != nil {
		m.writeError(w, err)
		return
	}

	m.writeJSON(w, http.StatusOK, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memoryInfo.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	if err := pprof.StartCPUProfile(buf); err != nil {
		m.writeError(w, err)
		return
	}

	time.Sleep(m.profileLength)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	if err != nil {
		m.writeError(w, err)
		return
	}

	m.writeJSON(w, http.StatusOK, prof)
}
