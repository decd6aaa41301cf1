package cli

import (
	"bytes"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/SmitUplenchwar2687/schedboard/internal/recorder"
)

const daysJSON = `[
  {"id":1,"name":"Monday","appointments":[1,2],"interviewers":[1],"spots":1},
  {"id":2,"name":"Tuesday","appointments":[3],"interviewers":[1],"spots":0}
]`

const appointmentsJSON = `{
  "1":{"id":1,"time":"12pm","interview":{"student":"Archie Cohen","interviewer":1}},
  "2":{"id":2,"time":"1pm","interview":null},
  "3":{"id":3,"time":"2pm","interview":{"student":"Maria Boucher","interviewer":1}}
}`

const interviewersJSON = `{"1":{"id":1,"name":"Sylvia Palmer","avatar":"https://i.imgur.com/LpaY82x.png"}}`

func startAPI(t *testing.T) string {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/days", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(daysJSON)) })
	mux.HandleFunc("/api/appointments", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(appointmentsJSON)) })
	mux.HandleFunc("/api/interviewers", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(interviewersJSON)) })
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv.URL
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestSnapshotCmd_PrintsPanels(t *testing.T) {
	apiURL := startAPI(t)

	out, err := execute(t, "snapshot", "--api-url", apiURL, "--storage", "memory", "--log-level", "error")
	if err != nil {
		t.Fatalf("snapshot failed: %v\n%s", err, out)
	}
	for _, want := range []string{"Total Interviews", "Most Popular Day", "Tuesday", "1pm"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSnapshotCmd_JSONHonoursStoredFocus(t *testing.T) {
	apiURL := startAPI(t)
	stateFile := filepath.Join(t.TempDir(), "state.json")

	if _, err := execute(t, "focus", "set", "3", "--storage-file", stateFile); err != nil {
		t.Fatalf("focus set failed: %v", err)
	}

	out, err := execute(t, "snapshot", "--api-url", apiURL, "--storage-file", stateFile, "--json", "--log-level", "error")
	if err != nil {
		t.Fatalf("snapshot failed: %v\n%s", err, out)
	}
	var page struct {
		Focused bool `json:"focused"`
		Panels  []struct {
			ID    int    `json:"id"`
			Value string `json:"value"`
		} `json:"panels"`
	}
	if err := json.Unmarshal([]byte(out), &page); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, out)
	}
	if !page.Focused || len(page.Panels) != 1 || page.Panels[0].ID != 3 || page.Panels[0].Value != "Tuesday" {
		t.Errorf("page = %+v", page)
	}
}

func TestSnapshotCmd_FetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := execute(t, "snapshot", "--api-url", srv.URL, "--storage", "memory", "--log-level", "error")
	if err == nil || !strings.Contains(err.Error(), "did not load") {
		t.Fatalf("expected load error, got %v", err)
	}
}

func TestSnapshotCmd_MalformedFocusFails(t *testing.T) {
	apiURL := startAPI(t)
	stateFile := writeFile(t, "state.json", `{"focused":"two"}`)

	_, err := execute(t, "snapshot", "--api-url", apiURL, "--storage-file", stateFile, "--log-level", "error")
	if err == nil {
		t.Fatal("expected mount error for malformed stored focus")
	}
}

func TestServeCmd_ExportsRecordsWhenListenFails(t *testing.T) {
	apiURL := startAPI(t)
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	defer busy.Close()
	recordFile := filepath.Join(t.TempDir(), "updates.json")

	out, err := execute(t, "serve",
		"--addr", busy.Addr().String(),
		"--api-url", apiURL,
		"--storage", "memory",
		"--record", recordFile,
		"--log-level", "error",
	)
	if err == nil {
		t.Fatalf("serve on a busy port should fail\n%s", out)
	}

	f, err := os.Open(recordFile)
	if err != nil {
		t.Fatalf("record file not written: %v", err)
	}
	defer f.Close()
	if _, err := recorder.LoadJSON(f); err != nil {
		t.Errorf("record file is not a valid log: %v", err)
	}
}

func TestFocusCmd_SetShowClear(t *testing.T) {
	stateFile := filepath.Join(t.TempDir(), "state.json")

	out, err := execute(t, "focus", "show", "--storage-file", stateFile)
	if err != nil || strings.TrimSpace(out) != "none" {
		t.Fatalf("show on empty store = %q, %v", out, err)
	}

	if _, err := execute(t, "focus", "set", "2", "--storage-file", stateFile); err != nil {
		t.Fatal(err)
	}
	out, err = execute(t, "focus", "show", "--storage-file", stateFile)
	if err != nil || strings.TrimSpace(out) != "2 Least Popular Time Slot" {
		t.Fatalf("show after set = %q, %v", out, err)
	}

	if _, err := execute(t, "focus", "clear", "--storage-file", stateFile); err != nil {
		t.Fatal(err)
	}
	out, err = execute(t, "focus", "show", "--storage-file", stateFile)
	if err != nil || strings.TrimSpace(out) != "none" {
		t.Fatalf("show after clear = %q, %v", out, err)
	}

	data, _ := os.ReadFile(stateFile)
	if !strings.Contains(string(data), `"focused":null`) && !strings.Contains(string(data), `"focused": null`) {
		t.Errorf("state file = %s, want focused null", data)
	}
}

func TestFocusCmd_SetRejectsBadID(t *testing.T) {
	stateFile := filepath.Join(t.TempDir(), "state.json")
	if _, err := execute(t, "focus", "set", "zero", "--storage-file", stateFile); err == nil {
		t.Fatal("expected error for non-numeric id")
	}
}

const stateJSON = `{
  "days": ` + daysJSON + `,
  "appointments": ` + appointmentsJSON + `,
  "interviewers": ` + interviewersJSON + `
}`

const updatesJSON = `[
  {"timestamp":"2026-01-05T09:00:00Z","type":"SET_INTERVIEW","id":2,"interview":{"student":"Lydia Miller-Jones","interviewer":1},"outcome":"applied"},
  {"timestamp":"2026-01-05T09:00:05Z","type":"SET_INTERVIEW","id":1,"interview":null,"outcome":"applied"},
  {"timestamp":"2026-01-05T09:00:07Z","type":"SET_INTERVIEW","id":42,"interview":null,"outcome":"dropped"}
]`

func TestReplayCmd_FromStateFile(t *testing.T) {
	statePath := writeFile(t, "state.json", stateJSON)
	updatesPath := writeFile(t, "updates.json", updatesJSON)

	out, err := execute(t, "replay", updatesPath, "--state", statePath, "--json")
	if err != nil {
		t.Fatalf("replay failed: %v\n%s", err, out)
	}

	var result struct {
		Summary struct {
			Replayed int `json:"replayed"`
			Applied  int `json:"applied"`
			Dropped  int `json:"dropped"`
		} `json:"summary"`
		Page struct {
			Panels []struct {
				ID    int    `json:"id"`
				Value string `json:"value"`
			} `json:"panels"`
		} `json:"page"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, out)
	}
	if result.Summary.Replayed != 3 || result.Summary.Applied != 2 || result.Summary.Dropped != 1 {
		t.Errorf("summary = %+v", result.Summary)
	}
	if len(result.Page.Panels) != 4 || result.Page.Panels[0].Value != "2" {
		t.Errorf("page = %+v", result.Page)
	}
}

func TestReplayCmd_FilterAndText(t *testing.T) {
	statePath := writeFile(t, "state.json", stateJSON)
	updatesPath := writeFile(t, "updates.json", updatesJSON)

	out, err := execute(t, "replay", "--file", updatesPath, "--state", statePath, "--ids", "2", "--panel", "1")
	if err != nil {
		t.Fatalf("replay failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Replayed:       1") {
		t.Errorf("expected one replayed record:\n%s", out)
	}
	if strings.Contains(out, "Most Popular Day") {
		t.Errorf("only panel 1 should be printed:\n%s", out)
	}
}

func TestReplayCmd_RequiresFile(t *testing.T) {
	if _, err := execute(t, "replay"); err == nil {
		t.Fatal("expected error without a record file")
	}
}

func TestGenerateCmd_Updates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "updates.json")
	for _, pattern := range []string{"steady", "burst", "ramp"} {
		if _, err := execute(t, "generate", "updates", "--output", path, "--count", "40", "--appointments", "5", "--pattern", pattern); err != nil {
			t.Fatalf("generate %s failed: %v", pattern, err)
		}
		records, err := recorder.LoadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if len(records) != 40 {
			t.Errorf("%s: got %d records, want 40", pattern, len(records))
		}
		for _, r := range records {
			if r.ID < 1 || r.ID > 5 || r.Type != "SET_INTERVIEW" {
				t.Errorf("%s: bad record %+v", pattern, r)
				break
			}
		}
	}
}

func TestGenerateCmd_ConfigIsLoadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedboard.json")
	if _, err := execute(t, "generate", "config", "--output", path); err != nil {
		t.Fatal(err)
	}
	stateFile := filepath.Join(t.TempDir(), "state.json")
	if _, err := execute(t, "focus", "show", "--config", path, "--storage-file", stateFile); err != nil {
		t.Fatalf("config should load: %v", err)
	}
}
